package billing

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName  = "Statements"
	dueDateFmt = "2006-01-02"
)

var header = []string{"ID", "Account", "Amount", "Details", "Due Date"}

// WriteWorkbook writes statements as an xlsx workbook, one row per statement, in the given order.
func WriteWorkbook(w io.Writer, statements []Statement) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	setRow := func(row int, values ...interface{}) error {
		for i, val := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err = f.SetCellValue(SheetName, cell, val); err != nil {
				return err
			}
		}
		return nil
	}

	cols := make([]interface{}, 0, len(header))
	for _, h := range header {
		cols = append(cols, h)
	}
	if err := setRow(1, cols...); err != nil {
		return errors.Wrap(err, "writing header")
	}

	for i, s := range statements {
		err := setRow(i+2, s.ID, s.AccountName, s.Amount.String(), s.Details.String, s.DueDate.UTC().Format(dueDateFmt))
		if err != nil {
			return errors.Wrapf(err, "writing statement %d", s.ID)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}
