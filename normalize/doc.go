// Package normalize implements the deterministic text-cleaning pipeline that
// prepares clinical descriptions for matching.
//
// Normalization is a fixed ordered sequence of passes: case folding and
// trimming, instruction and dosage stripping, administrative stop-phrase
// removal, knowledge-base corrections and keyword removal, dictionary
// lemmatization, and a final character filter with whitespace collapsing.
// The order matters; each pass assumes earlier passes already removed their
// class of noise. Output is idempotent: normalizing an already-normalized
// string returns it unchanged.
package normalize
