package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// UniqueSuffix returns a short unique string for generating non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedEntry inserts a catalog entry named name. Paths are derived from the
// name so that the unique constraints hold.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, name string) domain.CatalogEntry {
	t.Helper()

	entry := domain.CatalogEntry{
		Name:          name,
		TilePath:      "tiles/" + name + ".dzi",
		ThumbnailPath: "thumbs/" + name + ".png",
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO catalog_entries (name, tile_path, thumbnail_path)
		 VALUES ($1, $2, $3) RETURNING id`,
		entry.Name, entry.TilePath, entry.ThumbnailPath,
	).Scan(&entry.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry: %v", err)
	}

	return entry
}

// DetailOpts overrides the searchable columns of a seeded detail.
// Empty fields get generated values.
type DetailOpts struct {
	SlideLabel string
	TissueType string
	Stain      string
	Source     string
}

// SeedDetail inserts a catalog detail for entryID.
func SeedDetail(t *testing.T, pool *pgxpool.Pool, entryID int64, opts DetailOpts) domain.CatalogDetail {
	t.Helper()

	suffix := UniqueSuffix()
	d := domain.CatalogDetail{
		EntryID:         entryID,
		SlideLabel:      orDefault(opts.SlideLabel, "LBL-"+suffix),
		TissueType:      orDefault(opts.TissueType, "tissue-"+suffix),
		Stain:           orDefault(opts.Stain, "stain-"+suffix),
		ImageDimensions: "98304 x 71680",
		PixelSize:       "0.25 um",
		Resolution:      "40x",
		Magnification:   "400",
		Source:          orDefault(opts.Source, "source-"+suffix),
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO catalog_details
		   (entry_id, slide_label, tissue_type, stain, image_dimensions, pixel_size, resolution, magnification, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		d.EntryID, d.SlideLabel, d.TissueType, d.Stain, d.ImageDimensions, d.PixelSize, d.Resolution, d.Magnification, d.Source,
	).Scan(&d.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedDetail: %v", err)
	}

	return d
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
