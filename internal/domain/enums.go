package domain

// FacetKey identifies a search facet as sent by clients.
type FacetKey string

const (
	FacetNone       FacetKey = "none"
	FacetName       FacetKey = "name"
	FacetSlideLabel FacetKey = "slide_label"
	FacetTissue     FacetKey = "tissue"
	FacetStain      FacetKey = "stain"
	FacetSource     FacetKey = "source"
)

func (k FacetKey) String() string { return string(k) }

// IsValid reports whether k is a known facet key. The empty key is valid
// and behaves like FacetName.
func (k FacetKey) IsValid() bool {
	_, ok := facets[k]
	return ok
}

// FacetTable names the table a facet column lives in.
type FacetTable string

const (
	TableEntries FacetTable = "catalog_entries"
	TableDetails FacetTable = "catalog_details"
)

func (t FacetTable) String() string { return string(t) }

func (t FacetTable) IsValid() bool {
	switch t {
	case TableEntries, TableDetails:
		return true
	}
	return false
}
