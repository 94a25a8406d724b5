package domain

import "testing"

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  liver  ", want: "liver"},
		{name: "lowercase", input: "HE Stain", want: "he stain"},
		{name: "inner spaces kept", input: "lymph   node", want: "lymph   node"},
		{name: "diacritics preserved", input: "Coração", want: "coração"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "tabs and newlines", input: "\t kidney \n", want: "kidney"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeQuery(tt.input); got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeFacet(t *testing.T) {
	t.Parallel()

	if got := NormalizeFacet("  stain "); got != FacetStain {
		t.Errorf("got %q, want %q", got, FacetStain)
	}
	if got := NormalizeFacet("Stain"); got == FacetStain {
		t.Error("facet keys must stay case-sensitive")
	}
}
