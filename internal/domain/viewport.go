package domain

// SidecarBundle is the parsed content of a sidecar descriptor file together
// with the narrative document it points to.
type SidecarBundle struct {
	Ref                 string `json:"ref"                   yaml:"ref"`
	TileAssetPath       string `json:"tile_asset_path"       yaml:"tile_asset_path"`
	AnnotationAssetPath string `json:"annotation_asset_path" yaml:"annotation_asset_path"`
	DisplayLabel        string `json:"display_label"         yaml:"display_label"`
	NarrativeAssetPath  string `json:"narrative_asset_path"  yaml:"narrative_asset_path"`
	NarrativeText       string `json:"narrative_text"        yaml:"narrative_text"`
}

// ViewportView is the assembled payload for viewing one slide.
// Detail is nil when the entry has no descriptive metadata.
type ViewportView struct {
	Entry               CatalogEntry   `json:"entry"`
	Detail              *CatalogDetail `json:"detail"`
	BundleRef           string         `json:"bundle_ref"`
	TileAssetPath       string         `json:"tile_asset_path"`
	AnnotationAssetPath string         `json:"annotation_asset_path"`
	DisplayLabel        string         `json:"display_label"`
	NarrativeAssetPath  string         `json:"narrative_asset_path"`
	NarrativeText       string         `json:"narrative_text"`
}

// NewViewportView assembles a view from its three sources.
func NewViewportView(entry CatalogEntry, detail *CatalogDetail, bundle SidecarBundle) ViewportView {
	return ViewportView{
		Entry:               entry,
		Detail:              detail,
		BundleRef:           bundle.Ref,
		TileAssetPath:       bundle.TileAssetPath,
		AnnotationAssetPath: bundle.AnnotationAssetPath,
		DisplayLabel:        bundle.DisplayLabel,
		NarrativeAssetPath:  bundle.NarrativeAssetPath,
		NarrativeText:       bundle.NarrativeText,
	}
}
