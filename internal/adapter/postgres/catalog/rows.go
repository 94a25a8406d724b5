package catalog

import "github.com/heartmarshall/slide-atlas/internal/domain"

var entryColumns = []string{"id", "name", "tile_path", "thumbnail_path"}

var detailColumns = []string{
	"id", "entry_id", "slide_label", "tissue_type", "stain",
	"image_dimensions", "pixel_size", "resolution", "magnification", "source",
}

type entryRow struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	TilePath      string `db:"tile_path"`
	ThumbnailPath string `db:"thumbnail_path"`
}

func (r entryRow) toDomain() domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:            r.ID,
		Name:          r.Name,
		TilePath:      r.TilePath,
		ThumbnailPath: r.ThumbnailPath,
	}
}

type detailRow struct {
	ID              int64  `db:"id"`
	EntryID         int64  `db:"entry_id"`
	SlideLabel      string `db:"slide_label"`
	TissueType      string `db:"tissue_type"`
	Stain           string `db:"stain"`
	ImageDimensions string `db:"image_dimensions"`
	PixelSize       string `db:"pixel_size"`
	Resolution      string `db:"resolution"`
	Magnification   string `db:"magnification"`
	Source          string `db:"source"`
}

func (r detailRow) toDomain() domain.CatalogDetail {
	return domain.CatalogDetail{
		ID:              r.ID,
		EntryID:         r.EntryID,
		SlideLabel:      r.SlideLabel,
		TissueType:      r.TissueType,
		Stain:           r.Stain,
		ImageDimensions: r.ImageDimensions,
		PixelSize:       r.PixelSize,
		Resolution:      r.Resolution,
		Magnification:   r.Magnification,
		Source:          r.Source,
	}
}

func entriesToDomain(rows []entryRow) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}

func detailsToDomain(rows []detailRow) []domain.CatalogDetail {
	out := make([]domain.CatalogDetail, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}
