package placeholder

import (
	"regexp"
	"strings"
)

// tokenPattern matches bracket-delimited placeholder tokens, optionally
// prefixed by a currency marker, e.g. [Company Name], $[Amount], [[Notes]].
// The body class excludes brackets, so nested or overlapping brackets are
// never matched.
var tokenPattern = regexp.MustCompile(`\$?\[+[^\[\]]+\]+`)

// ScanResult holds the distinct tokens found in a document, in first-seen
// order, and the context snippet captured for each.
type ScanResult struct {
	Tokens   []string
	Contexts map[string]string
}

// Scanner finds placeholder tokens in paragraph text and captures a window of
// surrounding paragraphs as disambiguating context.
type Scanner struct {
	radius int
}

type ScannerOption func(*Scanner)

// WithRadius sets how many paragraphs on each side of a token's paragraph are
// included in its context snippet.
func WithRadius(radius int) ScannerOption {
	return func(s *Scanner) {
		if radius >= 0 {
			s.radius = radius
		}
	}
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{radius: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the ordered paragraph texts, collects every placeholder token in
// first-seen order, and builds a context snippet per token from the non-empty
// paragraphs within the configured radius. Every token found in the same
// paragraph shares that paragraph's snippet; a token that recurs in a later
// paragraph takes the later snippet.
func (s *Scanner) Scan(paragraphs []string) ScanResult {
	var ordered []string
	contexts := make(map[string]string)
	seen := make(map[string]bool)

	for i, text := range paragraphs {
		found := tokenPattern.FindAllString(text, -1)
		if len(found) == 0 {
			continue
		}

		var snippet []string
		for offset := -s.radius; offset <= s.radius; offset++ {
			j := i + offset
			if j < 0 || j >= len(paragraphs) {
				continue
			}
			if t := strings.TrimSpace(paragraphs[j]); t != "" {
				snippet = append(snippet, t)
			}
		}
		joined := strings.Join(snippet, " ")

		for _, token := range found {
			contexts[token] = joined
			if !seen[token] {
				seen[token] = true
				ordered = append(ordered, token)
			}
		}
	}

	return ScanResult{Tokens: ordered, Contexts: contexts}
}

// ScanAll is the no-context variant: it returns the distinct tokens across
// paragraphs and table cells, in first-seen order.
func ScanAll(paragraphs []string, cells []string) []string {
	var ordered []string
	seen := make(map[string]bool)
	for _, text := range paragraphs {
		for _, token := range tokenPattern.FindAllString(text, -1) {
			if !seen[token] {
				seen[token] = true
				ordered = append(ordered, token)
			}
		}
	}
	for _, text := range cells {
		for _, token := range tokenPattern.FindAllString(text, -1) {
			if !seen[token] {
				seen[token] = true
				ordered = append(ordered, token)
			}
		}
	}
	return ordered
}
