// Copyright 2025 The Clinical Data Harmonization Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/khyati-14/clinical-data-harmonization/core"
)

// Input and output column names.
const (
	ColumnDescription = "Input Entity Description"
	ColumnEntityType  = "Entity Type"
	ColumnSystem      = "Output Coding System"
	ColumnCode        = "Output Target Code"
	ColumnTargetDesc  = "Output Target Description"
)

// InputTable is a loaded input spreadsheet. The original header and cells are
// kept verbatim so the output workbook can reproduce them alongside the three
// derived columns.
type InputTable struct {
	Header []string
	Cells  [][]string

	descriptionCol int
	entityTypeCol  int
}

// ReadInputTable loads the first sheet of an xlsx workbook. The header row
// must name both required columns; a missing file, sheet or column is fatal.
func ReadInputTable(path string) (*InputTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHeader, path)
	}

	table := &InputTable{
		Header:         rows[0],
		Cells:          rows[1:],
		descriptionCol: -1,
		entityTypeCol:  -1,
	}
	for i, name := range table.Header {
		switch name {
		case ColumnDescription:
			table.descriptionCol = i
		case ColumnEntityType:
			table.entityTypeCol = i
		}
	}
	if table.descriptionCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnDescription)
	}
	if table.entityTypeCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnEntityType)
	}

	return table, nil
}

// InputRows converts the table cells into typed input rows. Cells past the
// end of a short row read as empty, which the matcher later reports as
// NO_INPUT rather than an error.
func (t *InputTable) InputRows() []core.InputRow {
	rows := make([]core.InputRow, len(t.Cells))
	for i, cells := range t.Cells {
		rows[i] = core.InputRow{
			Description: cellAt(cells, t.descriptionCol),
			EntityType:  core.EntityType(cellAt(cells, t.entityTypeCol)),
		}
	}
	return rows
}

// Len returns the number of data rows.
func (t *InputTable) Len() int {
	return len(t.Cells)
}

// WriteOutput writes the original table augmented with the three derived
// columns. No intermediate normalized-text column appears in the output.
func WriteOutput(path string, table *InputTable, results []core.MatchResult) error {
	if len(results) != len(table.Cells) {
		return fmt.Errorf("%w: %d rows, %d results", ErrRowCountMismatch, len(table.Cells), len(results))
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]any, 0, len(table.Header)+3)
	for _, name := range table.Header {
		header = append(header, name)
	}
	header = append(header, ColumnSystem, ColumnCode, ColumnTargetDesc)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, cells := range table.Cells {
		row := make([]any, 0, len(table.Header)+3)
		for col := range table.Header {
			row = append(row, cellAt(cells, col))
		}
		row = append(row, string(results[i].System), results[i].Code, results[i].Description)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func cellAt(cells []string, col int) string {
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}
