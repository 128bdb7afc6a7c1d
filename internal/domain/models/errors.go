package models

import "errors"

// Domain errors shared by services and handlers.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNoReportData = errors.New("no data found for the selected period")
)
