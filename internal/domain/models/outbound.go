package models

// OutboundMessage is a text pushed to a phone number over WhatsApp.
type OutboundMessage struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
