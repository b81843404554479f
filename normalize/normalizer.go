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


package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"golang.org/x/text/unicode/norm"

	"github.com/khyati-14/clinical-data-harmonization/knowledge"
)

// Pass order is load-bearing: later passes assume earlier ones already removed
// their noise. Re-normalizing an already-normalized string is a no-op.
var (
	// Everything after the "sig:" marker is free-text administration
	// instructions.
	instructionSuffix = regexp.MustCompile(`sig:.*`)
	// "take 2 (chewable) tablet(s)" style phrases.
	tabletPhrase = regexp.MustCompile(`take \d+(\s*\(.*\))? tablet\(s\)?`)
	// A number immediately followed by a dose unit, as a whole word.
	dosePhrase = regexp.MustCompile(`\d+(\.\d+)?\s*(mg|ml|mcg|unit|units|g|gram|grams)\b`)
	// Route, frequency and timing words.
	adminPhrase   = regexp.MustCompile(`\b(by|via|every|with|as needed|at bedtime|oral|route|injection|topically)\b`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalizer reduces a free-text clinical description to a canonical
// lowercase, noise-free form. It is a pure function of its input plus the
// knowledge base it was constructed with; the lemmatizer dictionary is owned
// by the instance, never shared process-wide.
type Normalizer struct {
	kb         *knowledge.KnowledgeBase
	lemmatizer *golem.Lemmatizer
}

// Option configures a Normalizer.
type Option func(*Normalizer) error

// WithLemmatizer injects a pre-built lemmatizer so multiple components can
// share one dictionary. Default is a fresh English dictionary.
func WithLemmatizer(lemmatizer *golem.Lemmatizer) Option {
	return func(n *Normalizer) error {
		if lemmatizer == nil {
			return ErrLemmatizerRequired
		}
		n.lemmatizer = lemmatizer
		return nil
	}
}

// New creates a Normalizer driven by the given knowledge base.
func New(kb *knowledge.KnowledgeBase, opts ...Option) (*Normalizer, error) {
	if kb == nil {
		return nil, ErrKnowledgeBaseRequired
	}

	n := &Normalizer{kb: kb}

	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	if n.lemmatizer == nil {
		lemmatizer, err := golem.New(en.New())
		if err != nil {
			return nil, err
		}
		n.lemmatizer = lemmatizer
	}

	return n, nil
}

// Normalize applies the fixed pass sequence and returns the cleaned text.
// Missing input normalizes to the empty string; no error path exists.
func (n *Normalizer) Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(strings.TrimSpace(text))

	text = instructionSuffix.ReplaceAllString(text, "")
	text = tabletPhrase.ReplaceAllString(text, "")
	text = dosePhrase.ReplaceAllString(text, "")
	text = adminPhrase.ReplaceAllString(text, "")

	text = n.kb.ApplyCorrections(text)
	text = n.kb.RemoveKeywords(text)

	text = n.lemmatize(text)

	text = nonAlnum.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// lemmatize reduces every word to its dictionary base form. Punctuation glued
// to a word is preserved around the lemma; the character filter pass removes
// it afterwards.
func (n *Normalizer) lemmatize(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	for i, word := range words {
		words[i] = n.lemmatizeWord(word)
	}
	return strings.Join(words, " ")
}

func (n *Normalizer) lemmatizeWord(word string) string {
	trimmed := strings.TrimFunc(word, isPunct)
	if trimmed == "" {
		return word
	}
	lemma := n.lemmatizer.Lemma(trimmed)
	if lemma == trimmed {
		return word
	}
	at := strings.Index(word, trimmed)
	return word[:at] + lemma + word[at+len(trimmed):]
}

func isPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
