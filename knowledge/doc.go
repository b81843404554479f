// Package knowledge loads and holds the external substitution rules and
// removal lists that parameterize text normalization.
//
// A KnowledgeBase is built once from two plain-text sources (a "key:value"
// correction map and a one-keyword-per-line removal list) before any
// normalization runs, and is read-only afterwards. Correction rules apply in
// descending key length order so that multi-word phrases win over their
// single-word substrings.
package knowledge
