package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/spendsort/internal/model"
)

// XLSXParser reads the first sheet of an Excel workbook with the same
// column detection as CSVParser.
type XLSXParser struct{}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse reads a workbook.
func (p *XLSXParser) Parse(r io.Reader) ([]model.Transaction, Stats, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, Stats{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return parseTable(rows)
}
