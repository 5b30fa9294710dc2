package table

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// valueInputOption stores values exactly as given, without formula parsing
const valueInputOption = "RAW"

// Sheets is a Store backed by one Google Sheets spreadsheet
type Sheets struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

// NewSheets connects to the spreadsheet using a service account credentials file
func NewSheets(ctx context.Context, spreadsheetID, credentialsFile string) (*Sheets, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &Sheets{
		values:        srv.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
	}, nil
}

func (s *Sheets) Get(ctx context.Context, ref string) ([][]string, error) {
	resp, err := s.values.Get(s.spreadsheetID, ref).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
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

func (s *Sheets) Append(ctx context.Context, ref string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrEmptyRange
	}
	_, err := s.values.Append(s.spreadsheetID, ref, valueRange(rows)).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", ref, err)
	}
	return nil
}

func (s *Sheets) Update(ctx context.Context, ref string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrEmptyRange
	}
	_, err := s.values.Update(s.spreadsheetID, ref, valueRange(rows)).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", ref, err)
	}
	return nil
}

func valueRange(rows [][]string) *sheets.ValueRange {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values[i] = cells
	}
	return &sheets.ValueRange{Values: values}
}
