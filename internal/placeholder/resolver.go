package placeholder

import "strings"

func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}

// ResolveKey fuzzy-matches a candidate key (as echoed back by the model,
// arbitrary casing and spacing) onto the known tokens: every token whose
// normalized form contains the normalized candidate as a substring matches.
// The fan-out is deliberate — an abbreviated key like "date" may legitimately
// update several date-bearing tokens. No match returns an empty slice; a
// candidate never creates a token.
func ResolveKey(candidate string, tokens []string) []string {
	norm := normalizeKey(candidate)
	if norm == "" {
		return nil
	}
	var matches []string
	for _, t := range tokens {
		if strings.Contains(normalizeKey(t), norm) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Apply resolves every candidate pair against the store's tokens and fans each
// value out to all matching tokens. Unresolvable keys are dropped silently.
// It reports the number of store entries updated.
func Apply(store *Store, pairs map[string]string) int {
	updated := 0
	for k, v := range pairs {
		for _, token := range ResolveKey(k, store.tokens) {
			if store.Set(token, v) {
				updated++
			}
		}
	}
	return updated
}
