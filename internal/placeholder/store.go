package placeholder

import "strings"

// Store is the authoritative token->value mapping for one session. The key set
// is fixed at construction: values change, keys never do.
type Store struct {
	tokens []string
	values map[string]string
}

func NewStore(tokens []string) *Store {
	ordered := make([]string, 0, len(tokens))
	values := make(map[string]string, len(tokens))
	for _, t := range tokens {
		if _, ok := values[t]; ok {
			continue
		}
		values[t] = ""
		ordered = append(ordered, t)
	}
	return &Store{tokens: ordered, values: values}
}

// NewStoreWithValues rebuilds a store from a persisted token list and value
// mapping. Values for unknown keys are discarded; tokens absent from the
// mapping start empty.
func NewStoreWithValues(tokens []string, values map[string]string) *Store {
	s := NewStore(tokens)
	for k, v := range values {
		if _, ok := s.values[k]; ok {
			s.values[k] = v
		}
	}
	return s
}

// Tokens returns the keys in first-seen document order.
func (s *Store) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Values returns a copy of the current mapping.
func (s *Store) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *Store) Value(token string) (string, bool) {
	v, ok := s.values[token]
	return v, ok
}

// Missing lists the tokens whose value is still empty or whitespace-only, in
// token order.
func (s *Store) Missing() []string {
	var missing []string
	for _, t := range s.tokens {
		if strings.TrimSpace(s.values[t]) == "" {
			missing = append(missing, t)
		}
	}
	return missing
}

// Set assigns a value to an existing token and reports whether the token was
// known. Unknown tokens are never inserted.
func (s *Store) Set(token, value string) bool {
	if _, ok := s.values[token]; !ok {
		return false
	}
	s.values[token] = value
	return true
}

// Len returns the number of tokens.
func (s *Store) Len() int {
	return len(s.tokens)
}

// FilledCount returns how many tokens currently hold a non-blank value.
func (s *Store) FilledCount() int {
	n := 0
	for _, t := range s.tokens {
		if strings.TrimSpace(s.values[t]) != "" {
			n++
		}
	}
	return n
}
