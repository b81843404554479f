// Package match implements two-stage harmonization of normalized queries
// against the terminology indices.
//
// Stage one is recall-oriented: cosine retrieval over the TF-IDF vector space
// narrows the vocabulary to a short-list of plausible candidates. Stage two
// is precision-oriented: each candidate is rescored with a hybrid of
// word-order-tolerant fuzzy similarity and exact query-word overlap, with
// overlap weighted higher because shared clinical terms are stronger evidence
// than character-level similarity.
//
// Matching never fails: a query with no usable input or no candidate above
// the similarity floor yields a sentinel result, not an error.
package match
