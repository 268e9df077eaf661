package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

// Worksheet column layout. Quantities land in one column per catalog entry so
// the sheet's stock formulas keep working.
const (
	colDate     = "C"
	colCustomer = "D"
	colAssignee = "E"
	colPayment  = "G"
	colPaidFlag = "H"
	colNote     = "J"
	colStatus   = "K"
	colShipping = "Z"
	colDiscount = "AA"

	scanRange   = "D1:W2000"
	unpaidLabel = "Unpaid"
)

var quantityColumns = map[string]string{
	"P-CHZ":  "N",
	"P-SC":   "O",
	"P-BBQ":  "P",
	"P-OG":   "Q",
	"2L-CHZ": "T",
	"2L-SC":  "U",
	"2L-BBQ": "V",
	"2L-OG":  "W",
}

var manila = mustLoadManila()

func mustLoadManila() *time.Location {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// SheetsLedger writes confirmed orders into a Google Sheets worksheet, one
// order per row.
type SheetsLedger struct {
	logger        *slog.Logger
	service       *sheets.Service
	spreadsheetID string
	worksheet     string
}

// NewSheets builds a ledger over the given spreadsheet using service-account
// credentials.
func NewSheets(ctx context.Context, logger *slog.Logger, credentialsJSON []byte, spreadsheetID, worksheet string) (*SheetsLedger, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SheetsLedger{
		logger:        logger.With("component", "ledger", "backend", "sheets"),
		service:       svc,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

// AppendOrder writes the order into the first free row of the worksheet.
func (s *SheetsLedger) AppendOrder(ctx context.Context, o *order.Order) (RowRef, error) {
	row, err := s.NextRow(ctx)
	if err != nil {
		return 0, &PersistError{Backend: "sheets", Err: err}
	}

	now := time.Now().In(manila)
	note := fmt.Sprintf("Robot entry %s @ %s", o.Ref, now.Format("2006-01-02 15:04"))

	cells := map[string]any{
		colDate:     now.Format("01/02/2006"),
		colCustomer: o.Meta.CustomerName,
		colAssignee: o.Meta.Assignee,
		colPayment:  string(o.Meta.Payment),
		colPaidFlag: unpaidLabel,
		colNote:     note,
		colStatus:   o.Status,
	}
	for _, it := range o.Items {
		col, ok := quantityColumns[it.Code]
		if !ok {
			return 0, &PersistError{Backend: "sheets", Err: fmt.Errorf("no column for product %s", it.Code)}
		}
		cells[col] = it.Quantity
	}
	if o.Meta.ShippingFee > 0 {
		cells[colShipping] = o.Meta.ShippingFee
	}
	if o.Meta.DiscountPct != nil {
		cells[colDiscount] = fmt.Sprintf("%g%%", *o.Meta.DiscountPct)
	}

	data := make([]*sheets.ValueRange, 0, len(cells))
	for col, v := range cells {
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("'%s'!%s%d", s.worksheet, col, row),
			Values: [][]any{{v}},
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := s.service.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return 0, &PersistError{Backend: "sheets", Err: err}
	}

	s.logger.Info("order written", "ref", o.Ref, "row", row, "items", len(o.Items))
	return RowRef(row), nil
}

// NextRow scans the order block for the first row with no data. The API drops
// trailing empty rows, so a gap inside the returned values wins, otherwise
// the row after the last returned one is free.
func (s *SheetsLedger) NextRow(ctx context.Context) (int64, error) {
	rng := fmt.Sprintf("'%s'!%s", s.worksheet, scanRange)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", scanRange, err)
	}
	for i, rowVals := range resp.Values {
		if rowEmpty(rowVals) {
			return int64(i + 1), nil
		}
	}
	return int64(len(resp.Values) + 1), nil
}

// occupancyColumns are the offsets within the scan range (starting at D)
// that mark a row as taken: the customer name in D and the product
// quantity columns N-Q and T-W. Notes or status text elsewhere in the row
// do not reserve it.
var occupancyColumns = []int{0, 10, 11, 12, 13, 16, 17, 18, 19}

func rowEmpty(vals []any) bool {
	for _, idx := range occupancyColumns {
		if idx >= len(vals) {
			continue
		}
		v := vals[idx]
		if str, ok := v.(string); ok && str != "" {
			return false
		}
		if _, ok := v.(string); !ok && v != nil {
			return false
		}
	}
	return true
}

// Ping verifies the spreadsheet is reachable with the configured credentials.
func (s *SheetsLedger) Ping(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Get(s.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ping spreadsheet: %w", err)
	}
	return nil
}
