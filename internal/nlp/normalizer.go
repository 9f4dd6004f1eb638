// Package nlp holds the deterministic language plumbing for the
// assistant: utterance normalization and fuzzy time parsing. Both are
// pure functions of their inputs so intent resolution stays auditable.
package nlp

import (
	"fmt"
	"regexp"
	"strings"
)

// Normalizer strips conversational filler from a raw utterance and
// selects the operative clause.
type Normalizer struct {
	prefix   *regexp.Regexp
	clauses  *regexp.Regexp
	lastWord *regexp.Regexp
}

// NewNormalizer builds a Normalizer for the given wake name.
// The prefix pattern covers spoken-greeting shapes like
// "how can i help you today? hey majordomo, ...": an optional
// help phrase followed by any run of hey/ok/wake-name tokens and
// punctuation.
func NewNormalizer(wakeName string) *Normalizer {
	wake := regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(wakeName)))
	prefix := fmt.Sprintf(
		`^(how\s+can\s+i\s+help\s+you\s+today\??\s*)?((hey|ok|%s)\b[,.\s]*)+`,
		wake,
	)
	return &Normalizer{
		prefix:   regexp.MustCompile(prefix),
		clauses:  regexp.MustCompile(`[.!?]`),
		lastWord: regexp.MustCompile(`\b\w+\b$`),
	}
}

// Normalize lowercases the raw utterance, strips the greeting/wake
// prefix, splits on sentence punctuation and returns the last
// non-empty clause. When nothing survives, it falls back to the last
// bare word token of the raw string, then to the raw string itself.
func (n *Normalizer) Normalize(raw string) string {
	query := strings.ToLower(strings.TrimSpace(raw))

	clean := strings.TrimSpace(n.prefix.ReplaceAllString(query, ""))

	var clauses []string
	for _, c := range n.clauses.Split(clean, -1) {
		if c = strings.TrimSpace(c); c != "" {
			clauses = append(clauses, c)
		}
	}
	// Users often prepend filler before the actual command, so the
	// last clause is the operative one.
	if len(clauses) > 0 {
		return clauses[len(clauses)-1]
	}
	if clean != "" {
		return clean
	}
	if w := n.lastWord.FindString(query); w != "" {
		return w
	}
	return query
}
