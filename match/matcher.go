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


package match

import (
	"log/slog"
	"strings"

	"github.com/khyati-14/clinical-data-harmonization/core"
	"github.com/khyati-14/clinical-data-harmonization/index"
)

// Params are the retrieval and rerank tunables.
type Params struct {
	// TopK is the number of vector-retrieval candidates passed to the
	// rerank stage.
	TopK int
	// MinSimilarity is the cosine floor: the best candidate must score
	// strictly above it or the query is rejected as NOT_FOUND.
	MinSimilarity float64
	// FuzzyWeight scales the token-sorted edit-distance signal.
	FuzzyWeight float64
	// OverlapWeight scales the query-word-coverage signal.
	OverlapWeight float64
}

// DefaultParams returns the default retrieval and rerank tunables.
func DefaultParams() Params {
	return Params{
		TopK:          20,
		MinSimilarity: 0.1,
		FuzzyWeight:   0.4,
		OverlapWeight: 0.6,
	}
}

// Matcher resolves normalized queries against the two terminology indices
// using two-stage retrieval: recall-oriented cosine search over the TF-IDF
// space, then a precision-oriented lexical rerank of the short-list. A
// Matcher is read-only after construction and safe for concurrent use.
type Matcher struct {
	snomed *index.TerminologyIndex
	rxnorm *index.TerminologyIndex
	params Params
	logger *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithParams overrides the default retrieval and rerank tunables.
func WithParams(params Params) Option {
	return func(m *Matcher) error {
		if params.TopK <= 0 {
			return ErrInvalidParams
		}
		if params.MinSimilarity < 0 || params.FuzzyWeight < 0 || params.OverlapWeight < 0 {
			return ErrInvalidParams
		}
		m.params = params
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a matcher over the two fitted indices.
func NewMatcher(snomed, rxnorm *index.TerminologyIndex, opts ...Option) (*Matcher, error) {
	if snomed == nil {
		return nil, ErrSNOMEDIndexRequired
	}
	if rxnorm == nil {
		return nil, ErrRxNormIndexRequired
	}

	m := &Matcher{
		snomed: snomed,
		rxnorm: rxnorm,
		params: DefaultParams(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Match resolves a normalized query routed by entity type. Every call returns
// a result; classification failures are sentinel outcomes, never errors.
func (m *Matcher) Match(query string, entityType core.EntityType) core.MatchResult {
	system := entityType.System()
	idx := m.rxnorm
	if system == core.CodingSystemSNOMED {
		idx = m.snomed
	}

	if strings.TrimSpace(query) == "" {
		return core.NoInputResult(system)
	}

	candidates := idx.Search(query, m.params.TopK)
	if len(candidates) == 0 || candidates[0].Similarity <= m.params.MinSimilarity {
		m.logger.Debug("no candidate above similarity floor",
			"query", query, "system", system)
		return core.NotFoundResult(system)
	}

	winner := m.rerank(query, candidates)
	return core.MatchResult{
		System:      winner.System,
		Code:        winner.Code,
		Description: winner.RawDescription,
	}
}

// rerank scores each candidate with the hybrid lexical signal and returns the
// best entry. Strict greater-than comparison keeps the earlier stage-1
// candidate on ties.
func (m *Matcher) rerank(query string, candidates []index.Candidate) *core.TerminologyEntry {
	queryWords := wordSet(query)

	best := -1.0
	var winner *core.TerminologyEntry
	for _, candidate := range candidates {
		normalized := candidate.Entry.NormalizedDescription
		fuzzy := tokenSortRatio(query, normalized)
		overlap := overlapScore(queryWords, normalized)
		score := m.params.FuzzyWeight*fuzzy + m.params.OverlapWeight*overlap
		if score > best {
			best = score
			winner = candidate.Entry
		}
	}
	return winner
}
