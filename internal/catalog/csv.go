package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jkeller/invoicegen/internal/billing"
	"go.uber.org/zap"
)

// LoadItemsFile loads the item catalog from a .csv or .xlsx file with
// columns name, description, price, quantity.
func (s *Store) LoadItemsFile(path string) error {
	return s.loadFile(path, s.LoadItemsCSV, s.loadItemsXLSX)
}

// LoadClientsFile loads the client catalog from a .csv or .xlsx file with
// columns name, address, location.
func (s *Store) LoadClientsFile(path string) error {
	return s.loadFile(path, s.LoadClientsCSV, s.loadClientsXLSX)
}

func (s *Store) loadFile(path string, fromCSV func(io.Reader) error, fromXLSX func(string) error) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open catalog file: %w", err)
		}
		defer f.Close()
		return fromCSV(f)
	case ".xlsx":
		return fromXLSX(path)
	default:
		return fmt.Errorf("%w: catalog file %s must be .csv or .xlsx", billing.ErrFileFormat, path)
	}
}

// LoadItemsCSV parses item rows from r. The first row is a header and is
// skipped. A row that fails validation aborts the whole load, leaving the
// store untouched by that file.
func (s *Store) LoadItemsCSV(r io.Reader) error {
	rows, err := readRows(r)
	if err != nil {
		return err
	}
	return s.loadItemRows(rows)
}

// LoadClientsCSV parses client rows from r. The first row is a header and is
// skipped.
func (s *Store) LoadClientsCSV(r io.Reader) error {
	rows, err := readRows(r)
	if err != nil {
		return err
	}
	return s.loadClientRows(rows)
}

func (s *Store) loadItemRows(rows [][]string) error {
	items := make([]*billing.Item, 0, len(rows))
	for i, row := range dataRows(rows) {
		if len(row) < 3 {
			return billing.NewValidationError("item row", strings.Join(row, ","), "expected columns name, description, price, quantity")
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			return billing.NewValidationError("price", row[2], fmt.Sprintf("row %d is not a number", i+2))
		}
		// Catalog quantity is reset on load; real quantities are assigned
		// per invoice during batch reconciliation.
		item, err := billing.NewItem(strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), price, 0)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	for _, item := range items {
		s.AddItem(item)
	}
	s.logger.Info("Loaded item catalog", zap.Int("count", len(items)))
	return nil
}

func (s *Store) loadClientRows(rows [][]string) error {
	clients := make([]*billing.Client, 0, len(rows))
	for _, row := range dataRows(rows) {
		if len(row) < 3 {
			return billing.NewValidationError("client row", strings.Join(row, ","), "expected columns name, address, location")
		}
		clients = append(clients, billing.NewClient(
			strings.TrimSpace(row[0]),
			strings.TrimSpace(row[1]),
			strings.TrimSpace(row[2]),
		))
	}
	for _, client := range clients {
		s.AddClient(client)
	}
	s.logger.Info("Loaded client catalog", zap.Int("count", len(clients)))
	return nil
}

// readRows consumes a CSV stream into rows, tolerating ragged column counts.
func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// dataRows strips the header row and trailing fully-blank rows.
func dataRows(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	data := rows[1:]
	for len(data) > 0 && blankRow(data[len(data)-1]) {
		data = data[:len(data)-1]
	}
	return data
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseQuantity parses a non-negative integer quantity from a cell.
func ParseQuantity(cell string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil || qty < 0 {
		return 0, billing.NewValidationError("quantity", cell, "must be a non-negative integer")
	}
	return qty, nil
}
