package knowledge

import (
	"regexp"
	"sort"
)

// Rule is a single correction: every whole-word occurrence of the key phrase
// is replaced by the value.
type Rule struct {
	Key   string
	Value string

	pattern *regexp.Regexp
}

// KnowledgeBase holds the correction rules and redundant keywords that drive
// the knowledge-dependent normalization passes. It is built once before any
// normalization and read-only afterwards.
type KnowledgeBase struct {
	rules           []Rule
	keywords        []string
	keywordPatterns []*regexp.Regexp
}

// New builds a KnowledgeBase from a correction map and a keyword list.
//
// Correction rules are ordered by descending key length, not insertion order:
// a multi-word phrase must be substituted before any shorter rule can fragment
// it. Rules with equally long keys keep a stable lexicographic order so the
// application sequence is deterministic.
func New(corrections map[string]string, keywords []string) *KnowledgeBase {
	kb := &KnowledgeBase{}

	keys := make([]string, 0, len(corrections))
	for key := range corrections {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	kb.rules = make([]Rule, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		kb.rules = append(kb.rules, Rule{
			Key:     key,
			Value:   corrections[key],
			pattern: wholeWord(key),
		})
	}

	kb.keywords = make([]string, 0, len(keywords))
	kb.keywordPatterns = make([]*regexp.Regexp, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		kb.keywords = append(kb.keywords, keyword)
		kb.keywordPatterns = append(kb.keywordPatterns, wholeWord(keyword))
	}

	return kb
}

// Empty returns a KnowledgeBase with no rules and no keywords. Normalizing
// with it is valid; the correction and keyword passes simply find nothing.
func Empty() *KnowledgeBase {
	return New(nil, nil)
}

// ApplyCorrections replaces every whole-word occurrence of each rule key with
// its value, longest key first.
func (kb *KnowledgeBase) ApplyCorrections(text string) string {
	for _, rule := range kb.rules {
		text = rule.pattern.ReplaceAllString(text, rule.Value)
	}
	return text
}

// RemoveKeywords deletes every whole-word occurrence of each redundant
// keyword. Keyword order does not affect the outcome; each removal is an
// independent whole-word deletion.
func (kb *KnowledgeBase) RemoveKeywords(text string) string {
	for _, pattern := range kb.keywordPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return text
}

// Rules returns the correction rules in application order.
func (kb *KnowledgeBase) Rules() []Rule {
	return kb.rules
}

// Keywords returns the redundant keyword list.
func (kb *KnowledgeBase) Keywords() []string {
	return kb.keywords
}

// Size returns the number of rules plus keywords, mostly for logging.
func (kb *KnowledgeBase) Size() int {
	return len(kb.rules) + len(kb.keywords)
}

func wholeWord(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
}
