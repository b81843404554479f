package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntry(t *testing.T) {
	t.Run("valid entry", func(t *testing.T) {
		entry := &TerminologyEntry{
			System:         CodingSystemSNOMED,
			Code:           "73211009",
			RawDescription: "Diabetes mellitus",
		}
		require.NoError(t, ValidateEntry(entry))
	})

	t.Run("nil entry", func(t *testing.T) {
		err := ValidateEntry(nil)
		assert.ErrorIs(t, err, ErrInvalidEntry)
	})

	t.Run("empty code", func(t *testing.T) {
		entry := &TerminologyEntry{System: CodingSystemRxNorm, RawDescription: "Metformin"}
		err := ValidateEntry(entry)
		assert.ErrorIs(t, err, ErrInvalidEntry)
		assert.ErrorIs(t, err, ErrEmptyCode)
	})

	t.Run("unknown system", func(t *testing.T) {
		entry := &TerminologyEntry{System: "ICD10", Code: "E11"}
		err := ValidateEntry(entry)
		assert.ErrorIs(t, err, ErrInvalidSystem)
	})

	t.Run("empty description is allowed", func(t *testing.T) {
		entry := &TerminologyEntry{System: CodingSystemRxNorm, Code: "6809"}
		require.NoError(t, ValidateEntry(entry))
	})
}
