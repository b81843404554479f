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


package index

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/khyati-14/clinical-data-harmonization/core"
)

// Candidate is one entry returned by vector retrieval, carrying its cosine
// similarity to the query and its position in the index.
type Candidate struct {
	Position   int
	Entry      *core.TerminologyEntry
	Similarity float64
}

// TerminologyIndex holds one reference vocabulary together with a fitted
// TF-IDF vector space over the entries' normalized descriptions. The
// vocabulary of terms and their IDF weights are frozen at build time; queries
// are projected into the fixed space and terms unseen during fitting
// contribute nothing.
type TerminologyIndex struct {
	system  core.CodingSystem
	entries []core.TerminologyEntry
	idf     map[string]float64
	vectors []map[string]float64 // one L2-normalized sparse vector per entry
	logger  *slog.Logger
}

// Option configures a TerminologyIndex build.
type Option func(*TerminologyIndex) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *TerminologyIndex) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// Build fits a TerminologyIndex over the given entries. Each entry's
// NormalizedDescription must already be computed; an empty normalized
// description is kept as an empty document so positions stay addressable.
func Build(system core.CodingSystem, entries []core.TerminologyEntry, opts ...Option) (*TerminologyIndex, error) {
	if err := core.ValidateSystem(system); err != nil {
		return nil, err
	}

	idx := &TerminologyIndex{
		system:  system,
		entries: entries,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	idx.fit()

	idx.logger.Debug("terminology index fitted",
		"system", system, "entries", len(entries), "terms", len(idx.idf))
	return idx, nil
}

// fit derives document frequencies, smoothed IDF weights and the per-entry
// unit vectors in one pass over the corpus.
func (idx *TerminologyIndex) fit() {
	docs := make([][]string, len(idx.entries))
	df := make(map[string]int)
	for i, entry := range idx.entries {
		tokens := tokenize(entry.NormalizedDescription)
		docs[i] = tokens
		seen := make(map[string]bool, len(tokens))
		for _, term := range tokens {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	n := float64(len(idx.entries))
	idx.idf = make(map[string]float64, len(df))
	for term, count := range df {
		idx.idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	idx.vectors = make([]map[string]float64, len(docs))
	for i, tokens := range docs {
		idx.vectors[i] = idx.vectorize(tokens)
	}
}

// vectorize projects a token sequence into the fitted space and returns the
// L2-normalized sparse vector. Terms outside the fitted vocabulary are
// dropped.
func (idx *TerminologyIndex) vectorize(tokens []string) map[string]float64 {
	vec := make(map[string]float64)
	for _, term := range tokens {
		weight, known := idx.idf[term]
		if !known {
			continue
		}
		vec[term] += weight
	}

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for term, w := range vec {
			vec[term] = w / norm
		}
	}
	return vec
}

// Search projects the query into the fitted vector space, scores cosine
// similarity against every entry and returns the k best candidates. Ties are
// broken by index position, earlier entries first.
func (idx *TerminologyIndex) Search(query string, k int) []Candidate {
	if k <= 0 || len(idx.entries) == 0 {
		return nil
	}

	queryVec := idx.vectorize(tokenize(query))

	candidates := make([]Candidate, len(idx.entries))
	for i := range idx.entries {
		candidates[i] = Candidate{
			Position:   i,
			Entry:      &idx.entries[i],
			Similarity: dot(queryVec, idx.vectors[i]),
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].Position < candidates[j].Position
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// System returns the coding system this index serves.
func (idx *TerminologyIndex) System() core.CodingSystem {
	return idx.system
}

// Len returns the number of entries in the index.
func (idx *TerminologyIndex) Len() int {
	return len(idx.entries)
}

// dot multiplies two unit vectors, iterating the smaller one.
func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}

// tokenize splits already-normalized text into terms, keeping only tokens of
// two or more characters and filtering the fixed English stop-word list.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 || englishStopWords[field] {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
