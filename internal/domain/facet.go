package domain

// Facet describes where a facet key is matched and how it is labelled.
type Facet struct {
	Key    FacetKey
	Table  FacetTable
	Column string
	Label  string
}

// Indirect reports whether matches must be resolved back to entries
// through CatalogDetail.EntryID.
func (f Facet) Indirect() bool { return f.Table == TableDetails }

var nameFacet = Facet{Key: FacetName, Table: TableEntries, Column: "name", Label: "Name"}

var facets = map[FacetKey]Facet{
	"":              nameFacet,
	FacetNone:       nameFacet,
	FacetName:       nameFacet,
	FacetSlideLabel: {Key: FacetSlideLabel, Table: TableDetails, Column: "slide_label", Label: "Slide Label"},
	FacetTissue:     {Key: FacetTissue, Table: TableDetails, Column: "tissue_type", Label: "Tissue"},
	FacetStain:      {Key: FacetStain, Table: TableDetails, Column: "stain", Label: "Stain"},
	FacetSource:     {Key: FacetSource, Table: TableDetails, Column: "source", Label: "Source"},
}

// LookupFacet returns the dispatch entry for key. The second result is false
// for unknown keys, in which case the name facet is returned.
func LookupFacet(key FacetKey) (Facet, bool) {
	f, ok := facets[key]
	if !ok {
		return nameFacet, false
	}
	return f, true
}

// FacetColumns returns the set of searchable columns per table. Stores use it
// to whitelist column names before building SQL.
func FacetColumns(table FacetTable) map[string]struct{} {
	cols := make(map[string]struct{})
	for _, f := range facets {
		if f.Table == table {
			cols[f.Column] = struct{}{}
		}
	}
	return cols
}
