package placeholder

import (
	"reflect"
	"testing"
)

func TestRecoverMapping(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		want   map[string]string
		wantOK bool
	}{
		{
			name:   "json_wrapped_in_prose",
			text:   "Got it! Here is the updated mapping:\n{\"[Company Name]\": \"Acme Corp\"}\nLet me know what's next.",
			want:   map[string]string{"[Company Name]": "Acme Corp"},
			wantOK: true,
		},
		{
			name:   "bare_json",
			text:   `{"company": "Acme", "date": "Nov 1, 2025"}`,
			want:   map[string]string{"company": "Acme", "date": "Nov 1, 2025"},
			wantOK: true,
		},
		{
			name:   "no_braces",
			text:   "I could not find any values in your message.",
			wantOK: false,
		},
		{
			name:   "malformed_fragment",
			text:   "Mapping: {not json at all}",
			wantOK: false,
		},
		{
			name:   "non_string_values",
			text:   `{"amount": 100}`,
			wantOK: false,
		},
		{
			name: "two_fragments_swallowed_by_greedy_span",
			// Greedy first-{ to last-} span covers both objects and the prose
			// between them, so the decode fails and nothing is applied.
			text:   `{"a": "1"} and also {"b": "2"}`,
			wantOK: false,
		},
		{
			name:   "empty_object",
			text:   "Nothing new. {}",
			want:   map[string]string{},
			wantOK: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := RecoverMapping(tc.text)
			if ok != tc.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tc.wantOK)
			}
			if !tc.wantOK {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got=%v, want %v", got, tc.want)
			}
		})
	}
}
