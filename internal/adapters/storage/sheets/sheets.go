// Package sheets serves storage.Table from Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"venuedesk/internal/adapters/storage"
)

// Values are parsed as if typed into the UI, so dates and numbers keep their types.
const valueInput = "USER_ENTERED"

// Opener opens worksheets through the Sheets v4 API.
type Opener struct {
	svc *gsheets.Service
}

// NewOpener authenticates with a service-account JSON key.
// PRE: credentialsJSON is a service-account key with access to the sheets
func NewOpener(ctx context.Context, credentialsJSON []byte) (*Opener, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("load service account: %w", err)
	}
	return NewOpenerWithOptions(ctx, option.WithCredentials(creds))
}

// NewOpenerWithOptions builds the API client from explicit options.
func NewOpenerWithOptions(ctx context.Context, opts ...option.ClientOption) (*Opener, error) {
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Opener{svc: svc}, nil
}

// Open returns the worksheet named by ref.
func (o *Opener) Open(_ context.Context, ref storage.SheetRef) (storage.Table, error) {
	if ref.SpreadsheetID == "" || ref.Worksheet == "" {
		return nil, fmt.Errorf("open worksheet: incomplete sheet reference %q", ref.String())
	}
	return &table{values: o.svc.Spreadsheets.Values, ref: ref}, nil
}

type table struct {
	values *gsheets.SpreadsheetsValuesService
	ref    storage.SheetRef
}

func (t *table) ReadAllRows(ctx context.Context) ([][]string, error) {
	resp, err := t.values.Get(t.ref.SpreadsheetID, quoteSheet(t.ref.Worksheet)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.ref, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

func (t *table) AppendRow(ctx context.Context, values []string) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{toInterfaces(values)}}
	_, err := t.values.Append(t.ref.SpreadsheetID, quoteSheet(t.ref.Worksheet), vr).
		ValueInputOption(valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", t.ref, err)
	}
	return nil
}

func (t *table) UpdateRange(ctx context.Context, ref string, values [][]string) error {
	if _, _, err := storage.ParseCellRef(ref); err != nil {
		return err
	}
	rows := make([][]interface{}, len(values))
	for i, row := range values {
		rows[i] = toInterfaces(row)
	}
	rng := quoteSheet(t.ref.Worksheet) + "!" + ref
	_, err := t.values.Update(t.ref.SpreadsheetID, rng, &gsheets.ValueRange{Values: rows}).
		ValueInputOption(valueInput).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s at %s: %w", t.ref, ref, err)
	}
	return nil
}

// quoteSheet wraps a worksheet title for use in an A1 range.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
