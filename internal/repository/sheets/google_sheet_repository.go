package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/domain/models"
)

// LedgerRange is where mirrored ledger entries are appended.
const LedgerRange = "Ledger!A:G"

// valueInput stores cells exactly as sent. Customer names and notes are free
// text and must never be parsed as formulas.
const valueInput = "RAW"

// Repository defines the append operations supported by the Google Sheets adapter.
type Repository interface {
	WriteRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	return newGoogleSheetRepository(ctx, cfg.SpreadsheetID, logger,
		option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
}

func newGoogleSheetRepository(ctx context.Context, spreadsheetID string, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRows appends the provided rows to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption(valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// LedgerMirror copies every new ledger entry into a spreadsheet so the farm
// keeps a human-readable backup of the customer books.
type LedgerMirror struct {
	repo Repository
}

// NewLedgerMirror wraps a sheet repository.
func NewLedgerMirror(repo Repository) *LedgerMirror {
	return &LedgerMirror{repo: repo}
}

// MirrorEntries appends one row per entry: customer, date, quantity, price, total, notes, status.
func (m *LedgerMirror) MirrorEntries(ctx context.Context, customer models.Customer, entries []models.Entry) error {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, EntryRow(customer, e))
	}
	return m.repo.WriteRows(ctx, LedgerRange, rows)
}

// EntryRow renders the sheet row for one entry.
func EntryRow(customer models.Customer, e models.Entry) []interface{} {
	return []interface{}{
		customer.Name,
		e.Date.Format(models.DateLayout),
		e.QuantityKg.String(),
		e.PricePerKg.StringFixed(2),
		e.TotalAmount().StringFixed(2),
		e.Notes,
		string(customer.Status()),
	}
}
