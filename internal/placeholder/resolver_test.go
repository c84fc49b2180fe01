package placeholder

import (
	"reflect"
	"testing"
)

func TestResolveKey(t *testing.T) {
	tokens := []string{"[Company Name]", "[Company Address]", "[Effective Date]", "[Termination Date]"}

	cases := []struct {
		name      string
		candidate string
		want      []string
	}{
		{
			name:      "exact_body",
			candidate: "effective date",
			want:      []string{"[Effective Date]"},
		},
		{
			name:      "fan_out_to_all_matches",
			candidate: "date",
			want:      []string{"[Effective Date]", "[Termination Date]"},
		},
		{
			name:      "fan_out_company",
			candidate: "Company",
			want:      []string{"[Company Name]", "[Company Address]"},
		},
		{
			name:      "casing_and_spacing_ignored",
			candidate: "  COMPANY  NAME ",
			want:      nil,
		},
		{
			name:      "normalized_containment",
			candidate: "companyname",
			want:      []string{"[Company Name]"},
		},
		{
			name:      "no_match",
			candidate: "jurisdiction",
			want:      nil,
		},
		{
			name:      "blank_candidate",
			candidate: "   ",
			want:      nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveKey(tc.candidate, tokens)
			if len(tc.want) == 0 {
				if tc.name == "casing_and_spacing_ignored" {
					// "COMPANY  NAME" normalizes to "companyname" and matches.
					if !reflect.DeepEqual(got, []string{"[Company Name]"}) {
						t.Fatalf("got=%v, want [Company Name]", got)
					}
					return
				}
				if len(got) != 0 {
					t.Fatalf("got=%v, want none", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestApplyFansOutAndCounts(t *testing.T) {
	store := NewStore([]string{"[Start Date]", "[End Date]", "[Company Name]"})

	updated := Apply(store, map[string]string{
		"date":         "Nov 1, 2025",
		"company name": "Acme Corp",
		"jurisdiction": "ignored",
	})

	if updated != 3 {
		t.Fatalf("updated=%d, want 3", updated)
	}
	for _, token := range []string{"[Start Date]", "[End Date]"} {
		if v, _ := store.Value(token); v != "Nov 1, 2025" {
			t.Fatalf("%s=%q, want Nov 1, 2025", token, v)
		}
	}
	if v, _ := store.Value("[Company Name]"); v != "Acme Corp" {
		t.Fatalf("[Company Name]=%q, want Acme Corp", v)
	}
	if got := len(store.Tokens()); got != 3 {
		t.Fatalf("token count changed: %d", got)
	}
}
