package services

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/hradmin/pkg/entity"
)

// Column is one exported spreadsheet column.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

type ExcelExportService[T entity.Entity] struct {
	sheet   string
	columns []Column[T]
}

func NewExcelExportService[T entity.Entity](sheet string, columns []Column[T]) *ExcelExportService[T] {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &ExcelExportService[T]{sheet: sheet, columns: columns}
}

// Export writes a header row followed by one row per item.
func (s *ExcelExportService[T]) Export(w io.Writer, items []T) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), s.sheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}

	header := make([]any, len(s.columns))
	for i, col := range s.columns {
		header[i] = col.Header
	}
	if err := s.writeRow(f, 1, header); err != nil {
		return err
	}

	for r, item := range items {
		row := make([]any, len(s.columns))
		for i, col := range s.columns {
			row[i] = col.Value(item)
		}
		if err := s.writeRow(f, r+2, row); err != nil {
			return err
		}
	}

	if len(s.columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(s.columns))
		if err != nil {
			return errors.Wrap(err, "column name")
		}
		if err := f.SetColWidth(s.sheet, "A", last, 24); err != nil {
			return errors.Wrap(err, "set column width")
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func (s *ExcelExportService[T]) writeRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	if err := f.SetSheetRow(s.sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "write row %d", row)
	}
	return nil
}
