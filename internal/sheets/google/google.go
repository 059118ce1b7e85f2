// Package google is the Google Sheets adapter for the history export. One
// tab per record kind; rows are appended with a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/Yordi314/lanomina/internal/core"
	ports "github.com/Yordi314/lanomina/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	incomesSheet  string
	expensesSheet string
}

var _ ports.HistoryWriter = (*Client)(nil)

// Options configures the adapter. CredentialsJSON wins over CredentialsFile.
type Options struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
	IncomesSheet    string
	ExpensesSheet   string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if opts.IncomesSheet == "" {
		opts.IncomesSheet = "Ingresos"
	}
	if opts.ExpensesSheet == "" {
		opts.ExpensesSheet = "Gastos"
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		incomesSheet:  opts.IncomesSheet,
		expensesSheet: opts.ExpensesSheet,
	}, nil
}

func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		credentialsJSON = []byte(opts.CredentialsJSON)
	case strings.TrimSpace(opts.CredentialsFile) != "":
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendIncome appends one income history row:
// date, concept, amount, gas flag.
func (c *Client) AppendIncome(ctx context.Context, in core.Income) error {
	row := []any{
		in.Date.Format("2006-01-02"),
		in.Concept,
		in.Amount.Pesos(),
		gasCell(in.IncludesGas),
	}
	return c.appendRow(ctx, c.incomesSheet, row)
}

// AppendExpense appends one expense history row:
// date, description, amount, target kind, gas flag.
func (c *Client) AppendExpense(ctx context.Context, e core.Expense) error {
	row := []any{
		e.Date.Format("2006-01-02"),
		e.Description,
		e.Amount.Pesos(),
		string(e.CategoryType),
		gasCell(e.IsGas),
	}
	return c.appendRow(ctx, c.expensesSheet, row)
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to sheet %s: %w", sheet, err)
	}

	slog.InfoContext(ctx, "Appended history row", "sheet", sheet)
	return nil
}

func gasCell(isGas bool) string {
	if isGas {
		return "gas"
	}
	return ""
}
