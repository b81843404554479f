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


package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/khyati-14/clinical-data-harmonization/cache"
	"github.com/khyati-14/clinical-data-harmonization/core"
	"github.com/khyati-14/clinical-data-harmonization/match"
	"github.com/khyati-14/clinical-data-harmonization/normalize"
)

// Pipeline drives batch harmonization: it normalizes descriptions, fans
// per-row matching out across a worker pool, and reassembles results by
// original row index. Once the matcher's indices are built everything the
// workers touch is read-only, so rows need no locking.
type Pipeline struct {
	normalizer *normalize.Normalizer
	pool       *ants.Pool
	store      cache.Store
	rowTimeout time.Duration
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent matching.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithCache routes every normalization through the given store. The cache is
// an accelerator only; results are identical without it.
func WithCache(store cache.Store) Option {
	return func(p *Pipeline) error {
		p.store = store
		return nil
	}
}

// WithRowTimeout sets a per-row duration guard. The rerank stage's cost per
// candidate is not bounded, so rows exceeding the guard are reported; their
// results are still returned.
func WithRowTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout < 0 {
			timeout = 0
		}
		p.rowTimeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a harmonization pipeline. The matcher is supplied per Run call
// because the terminology indices it wraps are themselves normalized through
// the pipeline first.
func New(normalizer *normalize.Normalizer, opts ...Option) (*Pipeline, error) {
	if normalizer == nil {
		return nil, ErrNormalizerRequired
	}

	p := &Pipeline{
		normalizer: normalizer,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if p.pool == nil {
		size := runtime.NumCPU() / 2
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return nil, err
		}
		p.pool = pool
	}

	return p, nil
}

// Close releases the worker pool.
func (p *Pipeline) Close() {
	p.pool.Release()
}

// Run harmonizes every input row against the matcher and returns one result
// per row, in input order regardless of completion order. Rows started after
// ctx is done are skipped and the context error is returned.
func (p *Pipeline) Run(ctx context.Context, matcher *match.Matcher, rows []core.InputRow) ([]core.MatchResult, error) {
	if matcher == nil {
		return nil, ErrMatcherRequired
	}

	start := time.Now()
	results := make([]core.MatchResult, len(rows))

	var wg sync.WaitGroup
	for i := range rows {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		row := rows[i]
		slot := &results[i]
		if err := p.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			*slot = p.matchRow(matcher, row)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("harmonization finished",
		"rows", len(rows), "duration", time.Since(start))
	return results, nil
}

// NormalizeEntries fills in NormalizedDescription for every entry, sharing
// the worker pool and the cache. It must run before the entries are handed to
// index construction.
func (p *Pipeline) NormalizeEntries(ctx context.Context, entries []core.TerminologyEntry) ([]core.TerminologyEntry, error) {
	start := time.Now()

	var wg sync.WaitGroup
	for i := range entries {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		entry := &entries[i]
		if err := p.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			entry.NormalizedDescription = p.normalizeText(entry.RawDescription)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("vocabulary normalized",
		"entries", len(entries), "duration", time.Since(start))
	return entries, nil
}

func (p *Pipeline) matchRow(matcher *match.Matcher, row core.InputRow) core.MatchResult {
	start := time.Now()
	normalized := p.normalizeText(row.Description)
	result := matcher.Match(normalized, row.EntityType)

	if p.rowTimeout > 0 {
		if elapsed := time.Since(start); elapsed > p.rowTimeout {
			p.logger.Warn("row exceeded timeout guard",
				"description", row.Description, "elapsed", elapsed, "timeout", p.rowTimeout)
		}
	}
	return result
}

// normalizeText consults the cache before running the normalizer. Cache
// failures degrade to plain normalization.
func (p *Pipeline) normalizeText(text string) string {
	if p.store == nil {
		return p.normalizer.Normalize(text)
	}

	if cached, ok, err := p.store.Get(text); err != nil {
		p.logger.Warn("cache read failed", "err", err)
	} else if ok {
		return cached
	}

	normalized := p.normalizer.Normalize(text)
	if err := p.store.Put(text, normalized); err != nil {
		p.logger.Warn("cache write failed", "err", err)
	}
	return normalized
}
