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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/khyati-14/clinical-data-harmonization/cache"
	"github.com/khyati-14/clinical-data-harmonization/core"
	"github.com/khyati-14/clinical-data-harmonization/dataset"
	"github.com/khyati-14/clinical-data-harmonization/index"
	"github.com/khyati-14/clinical-data-harmonization/knowledge"
	"github.com/khyati-14/clinical-data-harmonization/match"
	"github.com/khyati-14/clinical-data-harmonization/normalize"
	"github.com/khyati-14/clinical-data-harmonization/pipeline"
)

func main() {
	app := &cli.App{
		Name:  "harmonize",
		Usage: "Map free-text clinical descriptions onto SNOMED and RxNorm codes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "snomed-file",
				Usage: "Path to the SNOMED vocabulary parquet file",
				Value: "Target Description Files/snomed_all_data.parquet",
			},
			&cli.StringFlag{
				Name:  "rxnorm-file",
				Usage: "Path to the RxNorm vocabulary parquet file",
				Value: "Target Description Files/rxnorm_all_data.parquet",
			},
			&cli.StringFlag{
				Name:    "input-file",
				Aliases: []string{"i"},
				Usage:   "Path to the input xlsx workbook",
				Value:   "Test.xlsx",
			},
			&cli.StringFlag{
				Name:    "output-file",
				Aliases: []string{"o"},
				Usage:   "Path for the augmented output workbook",
				Value:   "Test_output.xlsx",
			},
			&cli.StringFlag{
				Name:  "correction-map",
				Usage: "Path to the correction map file (key:value per line)",
				Value: "correction_map.txt",
			},
			&cli.StringFlag{
				Name:  "redundant-keywords",
				Usage: "Path to the redundant keywords file (one per line)",
				Value: "redundant_keywords.txt",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "Directory for the persistent normalization cache (disabled when empty)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Worker pool size (0 uses half the CPUs)",
			},
			&cli.DurationFlag{
				Name:  "row-timeout",
				Usage: "Per-row duration guard (0 disables)",
			},
			&cli.IntFlag{
				Name:  "top-k",
				Usage: "Number of retrieval candidates passed to the rerank stage",
				Value: 20,
			},
			&cli.Float64Flag{
				Name:  "min-similarity",
				Usage: "Cosine floor below which a query is NOT_FOUND",
				Value: 0.1,
			},
		},
		Before: setupLogger,
		Action: harmonizeCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func harmonizeCommand(c *cli.Context) error {
	ctx := context.Background()
	logger := slog.Default()

	table, err := dataset.ReadInputTable(c.String("input-file"))
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}
	snomedEntries, err := dataset.ReadVocabulary(c.String("snomed-file"), core.CodingSystemSNOMED)
	if err != nil {
		return fmt.Errorf("failed to load SNOMED vocabulary: %w", err)
	}
	rxnormEntries, err := dataset.ReadVocabulary(c.String("rxnorm-file"), core.CodingSystemRxNorm)
	if err != nil {
		return fmt.Errorf("failed to load RxNorm vocabulary: %w", err)
	}
	logger.Info("all data files loaded",
		"rows", table.Len(), "snomed", len(snomedEntries), "rxnorm", len(rxnormEntries))

	kb, err := knowledge.Load(c.String("correction-map"), c.String("redundant-keywords"), logger)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}
	normalizer, err := normalize.New(kb)
	if err != nil {
		return fmt.Errorf("failed to create normalizer: %w", err)
	}

	pipelineOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if workers := c.Int("workers"); workers > 0 {
		pipelineOpts = append(pipelineOpts, pipeline.WithPoolSize(workers))
	}
	if timeout := c.Duration("row-timeout"); timeout > 0 {
		pipelineOpts = append(pipelineOpts, pipeline.WithRowTimeout(timeout))
	}
	if dir := c.String("cache-dir"); dir != "" {
		store, err := cache.Open(dir)
		if err != nil {
			return fmt.Errorf("failed to open normalization cache: %w", err)
		}
		defer store.Close()
		pipelineOpts = append(pipelineOpts, pipeline.WithCache(store))
	}

	p, err := pipeline.New(normalizer, pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Close()

	params := match.DefaultParams()
	params.TopK = c.Int("top-k")
	params.MinSimilarity = c.Float64("min-similarity")

	matcher, err := buildMatcher(ctx, p, snomedEntries, rxnormEntries, params)
	if err != nil {
		return err
	}

	results, err := p.Run(ctx, matcher, table.InputRows())
	if err != nil {
		return fmt.Errorf("harmonization failed: %w", err)
	}

	if err := dataset.WriteOutput(c.String("output-file"), table, results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("output saved", "path", c.String("output-file"))
	return nil
}

// buildMatcher normalizes both vocabularies through the pipeline's pool and
// cache, fits the two indices and assembles the matcher over them.
func buildMatcher(
	ctx context.Context,
	p *pipeline.Pipeline,
	snomedEntries, rxnormEntries []core.TerminologyEntry,
	params match.Params,
) (*match.Matcher, error) {
	start := time.Now()

	snomedEntries, err := p.NormalizeEntries(ctx, snomedEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize SNOMED vocabulary: %w", err)
	}
	rxnormEntries, err = p.NormalizeEntries(ctx, rxnormEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize RxNorm vocabulary: %w", err)
	}

	snomed, err := index.Build(core.CodingSystemSNOMED, snomedEntries)
	if err != nil {
		return nil, err
	}
	rxnorm, err := index.Build(core.CodingSystemRxNorm, rxnormEntries)
	if err != nil {
		return nil, err
	}

	matcher, err := match.NewMatcher(snomed, rxnorm, match.WithParams(params))
	if err != nil {
		return nil, err
	}

	slog.Default().Info("indices prepared", "duration", time.Since(start))
	return matcher, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
