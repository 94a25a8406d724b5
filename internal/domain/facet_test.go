package domain

import "testing"

func TestLookupFacet_DispatchTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key    FacetKey
		table  FacetTable
		column string
		label  string
	}{
		{"", TableEntries, "name", "Name"},
		{FacetNone, TableEntries, "name", "Name"},
		{FacetName, TableEntries, "name", "Name"},
		{FacetSlideLabel, TableDetails, "slide_label", "Slide Label"},
		{FacetTissue, TableDetails, "tissue_type", "Tissue"},
		{FacetStain, TableDetails, "stain", "Stain"},
		{FacetSource, TableDetails, "source", "Source"},
	}
	for _, tt := range tests {
		t.Run("facet_"+string(tt.key), func(t *testing.T) {
			t.Parallel()
			f, ok := LookupFacet(tt.key)
			if !ok {
				t.Fatalf("LookupFacet(%q) reported unknown", tt.key)
			}
			if f.Table != tt.table || f.Column != tt.column || f.Label != tt.label {
				t.Errorf("LookupFacet(%q) = %+v", tt.key, f)
			}
			if f.Indirect() != (tt.table == TableDetails) {
				t.Errorf("Indirect() mismatch for %q", tt.key)
			}
		})
	}
}

func TestLookupFacet_UnknownFallsBackToName(t *testing.T) {
	t.Parallel()

	for _, key := range []FacetKey{"magnification", "NAME", "tissue_type"} {
		f, ok := LookupFacet(key)
		if ok {
			t.Errorf("LookupFacet(%q) should report unknown", key)
		}
		if f.Key != FacetName || f.Column != "name" {
			t.Errorf("LookupFacet(%q) fallback = %+v, want name facet", key, f)
		}
	}
}

func TestFacetKey_IsValid(t *testing.T) {
	t.Parallel()

	if !FacetKey("").IsValid() {
		t.Error("empty facet key should be valid")
	}
	if !FacetTissue.IsValid() {
		t.Error("tissue should be valid")
	}
	if FacetKey("bogus").IsValid() {
		t.Error("bogus should be invalid")
	}
}

func TestFacetColumns(t *testing.T) {
	t.Parallel()

	details := FacetColumns(TableDetails)
	for _, col := range []string{"slide_label", "tissue_type", "stain", "source"} {
		if _, ok := details[col]; !ok {
			t.Errorf("details columns missing %q", col)
		}
	}
	if len(details) != 4 {
		t.Errorf("expected 4 detail columns, got %d", len(details))
	}

	entries := FacetColumns(TableEntries)
	if _, ok := entries["name"]; !ok || len(entries) != 1 {
		t.Errorf("entries columns = %v, want only name", entries)
	}
}
