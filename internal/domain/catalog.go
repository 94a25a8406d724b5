package domain

// CatalogEntry is one slide in the collection. Name, TilePath and
// ThumbnailPath are unique across the catalog.
type CatalogEntry struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	TilePath      string `json:"tile_path"`
	ThumbnailPath string `json:"thumbnail_path"`
}

// CatalogDetail carries the descriptive metadata of a slide. At most one
// detail exists per entry.
type CatalogDetail struct {
	ID              int64  `json:"id"`
	EntryID         int64  `json:"entry_id"`
	SlideLabel      string `json:"slide_label"`
	TissueType      string `json:"tissue_type"`
	Stain           string `json:"stain"`
	ImageDimensions string `json:"image_dimensions"`
	PixelSize       string `json:"pixel_size"`
	Resolution      string `json:"resolution"`
	Magnification   string `json:"magnification"`
	Source          string `json:"source"`
}

// EntryWithDetail pairs an entry with its optional detail.
type EntryWithDetail struct {
	CatalogEntry
	Detail *CatalogDetail `json:"detail"`
}

// SearchResult is the outcome of a faceted search. Count always equals
// len(Entries); FacetLabel is empty when the query was empty.
type SearchResult struct {
	Entries    []CatalogEntry `json:"entries"`
	Count      int            `json:"count"`
	Message    string         `json:"message"`
	Query      string         `json:"query,omitempty"`
	Facet      FacetKey       `json:"facet,omitempty"`
	FacetLabel string         `json:"facet_label,omitempty"`
}
