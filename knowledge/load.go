package knowledge

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseCorrections reads correction rules from r, one "key:value" pair per
// line. Each line splits at the first colon only, so values may themselves
// contain colons. Lines without a colon are ignored. Duplicate keys keep the
// last value seen.
func ParseCorrections(r io.Reader) (map[string]string, error) {
	corrections := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		corrections[key] = strings.TrimSpace(value)
	}
	return corrections, scanner.Err()
}

// ParseKeywords reads redundant keywords from r, one per line. Blank lines
// are ignored.
func ParseKeywords(r io.Reader) ([]string, error) {
	var keywords []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		keyword := strings.TrimSpace(scanner.Text())
		if keyword == "" {
			continue
		}
		keywords = append(keywords, keyword)
	}
	return keywords, scanner.Err()
}

// Load builds a KnowledgeBase from the two source files. A missing or
// unreadable file is not fatal: the corresponding half of the knowledge base
// stays empty and a warning is logged, because normalization without
// corrections or keyword removal is still valid.
func Load(correctionsPath, keywordsPath string, logger *slog.Logger) (*KnowledgeBase, error) {
	if logger == nil {
		logger = slog.Default()
	}

	corrections := map[string]string{}
	if f, err := os.Open(correctionsPath); err != nil {
		logger.Warn("correction map not found, continuing without corrections",
			"path", correctionsPath, "err", err)
	} else {
		defer f.Close()
		corrections, err = ParseCorrections(f)
		if err != nil {
			return nil, err
		}
	}

	var keywords []string
	if f, err := os.Open(keywordsPath); err != nil {
		logger.Warn("redundant keywords not found, continuing without keyword removal",
			"path", keywordsPath, "err", err)
	} else {
		defer f.Close()
		keywords, err = ParseKeywords(f)
		if err != nil {
			return nil, err
		}
	}

	return New(corrections, keywords), nil
}
