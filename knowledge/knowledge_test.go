package knowledge

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCorrections(t *testing.T) {
	t.Run("splits at first colon only", func(t *testing.T) {
		corrections, err := ParseCorrections(strings.NewReader("hba1c:hemoglobin a1c: glycated\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"hba1c": "hemoglobin a1c: glycated"}, corrections)
	})

	t.Run("ignores lines without separator", func(t *testing.T) {
		corrections, err := ParseCorrections(strings.NewReader("no separator here\nasa:aspirin\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"asa": "aspirin"}, corrections)
	})

	t.Run("trims keys and values", func(t *testing.T) {
		corrections, err := ParseCorrections(strings.NewReader("  mtx  :  methotrexate  \n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"mtx": "methotrexate"}, corrections)
	})

	t.Run("duplicate keys keep last value", func(t *testing.T) {
		corrections, err := ParseCorrections(strings.NewReader("asa:aspirin\nasa:acetylsalicylic acid\n"))
		require.NoError(t, err)
		assert.Equal(t, "acetylsalicylic acid", corrections["asa"])
	})

	t.Run("empty input", func(t *testing.T) {
		corrections, err := ParseCorrections(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, corrections)
	})
}

func TestParseKeywords(t *testing.T) {
	keywords, err := ParseKeywords(strings.NewReader("tablet\n\n  capsule  \n\nsolution\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"tablet", "capsule", "solution"}, keywords)
}

func TestKnowledgeBaseOrdering(t *testing.T) {
	kb := New(map[string]string{
		"insulin glargine": "A",
		"insulin":          "B",
	}, nil)

	rules := kb.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "insulin glargine", rules[0].Key)
	assert.Equal(t, "insulin", rules[1].Key)

	// Longest key must win before the shorter rule can fragment it.
	assert.Equal(t, "A 10 units", kb.ApplyCorrections("insulin glargine 10 units"))
}

func TestApplyCorrectionsWholeWord(t *testing.T) {
	kb := New(map[string]string{"asa": "aspirin"}, nil)
	assert.Equal(t, "aspirin 81", kb.ApplyCorrections("asa 81"))
	assert.Equal(t, "asathioprine", kb.ApplyCorrections("asathioprine"))
}

func TestRemoveKeywordsWholeWord(t *testing.T) {
	kb := New(nil, []string{"oral"})
	assert.Equal(t, " solution", kb.RemoveKeywords("oral solution"))
	// "oral" inside a longer token must survive.
	assert.Equal(t, "chloral hydrate", kb.RemoveKeywords("chloral hydrate"))
}

func TestEmptyKnowledgeBase(t *testing.T) {
	kb := Empty()
	assert.Zero(t, kb.Size())
	assert.Equal(t, "metformin er", kb.ApplyCorrections("metformin er"))
	assert.Equal(t, "metformin er", kb.RemoveKeywords("metformin er"))
}

func TestLoad(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("missing files are not fatal", func(t *testing.T) {
		kb, err := Load("does/not/exist.txt", "also/missing.txt", logger)
		require.NoError(t, err)
		assert.Zero(t, kb.Size())
	})

	t.Run("reads both sources", func(t *testing.T) {
		dir := t.TempDir()
		corrPath := filepath.Join(dir, "correction_map.txt")
		kwPath := filepath.Join(dir, "redundant_keywords.txt")
		require.NoError(t, os.WriteFile(corrPath, []byte("asa:aspirin\n"), 0o644))
		require.NoError(t, os.WriteFile(kwPath, []byte("tablet\ncapsule\n"), 0o644))

		kb, err := Load(corrPath, kwPath, logger)
		require.NoError(t, err)
		assert.Equal(t, 3, kb.Size())
		assert.Equal(t, []string{"tablet", "capsule"}, kb.Keywords())
	})
}
