package catalog

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// loadItemsXLSX reads the first sheet of an xlsx workbook as item rows with
// the same columns as the CSV form.
func (s *Store) loadItemsXLSX(path string) error {
	rows, err := readSheet(path)
	if err != nil {
		return err
	}
	return s.loadItemRows(rows)
}

// loadClientsXLSX reads the first sheet of an xlsx workbook as client rows.
func (s *Store) loadClientsXLSX(path string) error {
	rows, err := readSheet(path)
	if err != nil {
		return err
	}
	return s.loadClientRows(rows)
}

func readSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}
