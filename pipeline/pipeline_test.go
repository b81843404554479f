package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khyati-14/clinical-data-harmonization/core"
	"github.com/khyati-14/clinical-data-harmonization/index"
	"github.com/khyati-14/clinical-data-harmonization/knowledge"
	"github.com/khyati-14/clinical-data-harmonization/match"
	"github.com/khyati-14/clinical-data-harmonization/normalize"
)

// countingStore is an in-memory cache that tracks hits and misses.
type countingStore struct {
	mu     sync.Mutex
	values map[string]string
	hits   int
	misses int
}

func newCountingStore() *countingStore {
	return &countingStore{values: map[string]string{}}
}

func (s *countingStore) Get(raw string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalized, ok := s.values[raw]
	if ok {
		s.hits++
	} else {
		s.misses++
	}
	return normalized, ok, nil
}

func (s *countingStore) Put(raw, normalized string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[raw] = normalized
	return nil
}

func (s *countingStore) Close() error { return nil }

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *match.Matcher) {
	t.Helper()

	normalizer, err := normalize.New(knowledge.Empty())
	require.NoError(t, err)

	snomedEntries := []core.TerminologyEntry{
		{System: core.CodingSystemSNOMED, Code: "271062006", RawDescription: "Fasting blood glucose measurement"},
	}
	rxnormEntries := []core.TerminologyEntry{
		{System: core.CodingSystemRxNorm, Code: "6809", RawDescription: "Metformin"},
		{System: core.CodingSystemRxNorm, Code: "29046", RawDescription: "Lisinopril"},
	}
	for i := range snomedEntries {
		snomedEntries[i].NormalizedDescription = normalizer.Normalize(snomedEntries[i].RawDescription)
	}
	for i := range rxnormEntries {
		rxnormEntries[i].NormalizedDescription = normalizer.Normalize(rxnormEntries[i].RawDescription)
	}

	snomed, err := index.Build(core.CodingSystemSNOMED, snomedEntries)
	require.NoError(t, err)
	rxnorm, err := index.Build(core.CodingSystemRxNorm, rxnormEntries)
	require.NoError(t, err)

	matcher, err := match.NewMatcher(snomed, rxnorm)
	require.NoError(t, err)

	p, err := New(normalizer, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p, matcher
}

func TestNew(t *testing.T) {
	t.Run("nil normalizer", func(t *testing.T) {
		_, err := New(nil)
		assert.Equal(t, ErrNormalizerRequired, err)
	})

	t.Run("nil matcher rejected by run", func(t *testing.T) {
		p, _ := newTestPipeline(t)
		_, err := p.Run(context.Background(), nil, nil)
		assert.Equal(t, ErrMatcherRequired, err)
	})
}

func TestRunPreservesRowOrder(t *testing.T) {
	p, matcher := newTestPipeline(t, WithPoolSize(4))

	// Alternate entity types so completion order cannot mask misplacement.
	var rows []core.InputRow
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			rows = append(rows, core.InputRow{Description: "Metformin 500mg", EntityType: core.EntityTypeMedication})
		} else {
			rows = append(rows, core.InputRow{Description: "Fasting blood glucose", EntityType: core.EntityTypeLab})
		}
	}

	results, err := p.Run(context.Background(), matcher, rows)
	require.NoError(t, err)
	require.Len(t, results, len(rows))

	for i, result := range results {
		if i%2 == 0 {
			assert.Equal(t, "6809", result.Code, "row %d", i)
		} else {
			assert.Equal(t, "271062006", result.Code, "row %d", i)
		}
	}
}

func TestRunSentinelRows(t *testing.T) {
	p, matcher := newTestPipeline(t)

	rows := []core.InputRow{
		{Description: "", EntityType: core.EntityTypeMedication},
		{Description: "zzz qqq xxx", EntityType: core.EntityTypeMedication},
		{Description: "Metformin", EntityType: core.EntityTypeMedication},
	}

	results, err := p.Run(context.Background(), matcher, rows)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, core.CodeNoInput, results[0].Code)
	assert.Equal(t, core.CodeNotFound, results[1].Code)
	assert.Equal(t, "6809", results[2].Code)
}

func TestRunCancelledContext(t *testing.T) {
	p, matcher := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, matcher, []core.InputRow{
		{Description: "Metformin", EntityType: core.EntityTypeMedication},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunUsesCache(t *testing.T) {
	store := newCountingStore()
	p, matcher := newTestPipeline(t, WithPoolSize(1), WithCache(store))

	rows := []core.InputRow{
		{Description: "Metformin 500mg", EntityType: core.EntityTypeMedication},
		{Description: "Metformin 500mg", EntityType: core.EntityTypeMedication},
	}

	results, err := p.Run(context.Background(), matcher, rows)
	require.NoError(t, err)
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, 1, store.misses)
	assert.Equal(t, 1, store.hits)
}

func TestNormalizeEntries(t *testing.T) {
	p, _ := newTestPipeline(t, WithPoolSize(2))

	entries := []core.TerminologyEntry{
		{System: core.CodingSystemRxNorm, Code: "1", RawDescription: "Metformin 500mg Oral Tablet"},
		{System: core.CodingSystemRxNorm, Code: "2", RawDescription: ""},
	}

	normalized, err := p.NormalizeEntries(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, normalized, 2)
	assert.Equal(t, "metformin tablet", normalized[0].NormalizedDescription)
	assert.Equal(t, "", normalized[1].NormalizedDescription)
}
