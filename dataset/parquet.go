package dataset

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/khyati-14/clinical-data-harmonization/core"
)

// vocabularyRow mirrors the reference vocabulary column layout.
type vocabularyRow struct {
	STR  string `parquet:"STR"`
	CODE string `parquet:"CODE"`
}

// ReadVocabulary loads a reference vocabulary from a parquet file and stamps
// every entry with the given coding system. The normalized descriptions are
// filled in later by the pipeline. A missing or unreadable file is fatal.
func ReadVocabulary(path string, system core.CodingSystem) ([]core.TerminologyEntry, error) {
	if err := core.ValidateSystem(system); err != nil {
		return nil, err
	}

	rows, err := parquet.ReadFile[vocabularyRow](path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary %s: %w", path, err)
	}

	entries := make([]core.TerminologyEntry, len(rows))
	for i, row := range rows {
		entries[i] = core.TerminologyEntry{
			System:         system,
			Code:           row.CODE,
			RawDescription: row.STR,
		}
	}
	return entries, nil
}

// WriteVocabulary persists entries as a parquet vocabulary table. Mostly
// useful for preparing test fixtures and small curated vocabularies.
func WriteVocabulary(path string, entries []core.TerminologyEntry) error {
	rows := make([]vocabularyRow, len(entries))
	for i, entry := range entries {
		rows[i] = vocabularyRow{STR: entry.RawDescription, CODE: entry.Code}
	}
	return parquet.WriteFile(path, rows)
}
