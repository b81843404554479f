// Package index builds the per-vocabulary TF-IDF vector spaces used for
// candidate retrieval.
//
// Each reference vocabulary gets its own independently fitted index; there is
// no cross-index vocabulary sharing. An index is fitted once over the
// entries' normalized descriptions and is read-only afterwards, which makes
// concurrent Search calls safe without locking.
package index
