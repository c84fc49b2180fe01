package placeholder

import (
	"encoding/json"
	"strings"
)

// RecoverMapping extracts a flat string-to-string JSON object from a free-text
// model reply. The fragment is taken greedily from the first '{' to the last
// '}' in the text, which tolerates the model wrapping the object in prose.
//
// Known limitation: a reply containing two independent JSON objects, or prose
// with stray braces, is parsed as one span and will fail to decode. That is a
// recoverable condition for callers, not an error.
func RecoverMapping(text string) (map[string]string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var mapping map[string]string
	if err := json.Unmarshal([]byte(text[start:end+1]), &mapping); err != nil {
		return nil, false
	}
	return mapping, true
}
