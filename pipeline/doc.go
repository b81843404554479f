// Package pipeline orchestrates batch harmonization runs.
//
// A Pipeline owns a worker pool and fans per-row matching out across it.
// After the terminology indices are built and the knowledge base is loaded,
// matching touches no mutable shared state, so rows run without locking and
// with no ordering requirement between them; results are reassembled by
// original row index. Vocabulary normalization shares the same pool and the
// optional normalization cache.
package pipeline
