// Package cache provides an optional persistent cache of raw→normalized
// description pairs.
//
// Reference vocabularies can run to millions of entries, and normalization is
// by far the most expensive part of bootstrapping a run. Caching the pairs in
// BadgerDB lets repeated runs against the same vocabularies skip the work.
// The cache is purely an accelerator: a run without one is identical in
// behavior.
package cache
