package catalog

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// UpsertEntries inserts entries keyed by name. Existing rows get their paths
// replaced. It returns the id of every written entry keyed by name.
func (r *Repo) UpsertEntries(ctx context.Context, entries []domain.CatalogEntry) (map[string]int64, error) {
	ids := make(map[string]int64, len(entries))
	if len(entries) == 0 {
		return ids, nil
	}

	b := psql.Insert(domain.TableEntries.String()).
		Columns("name", "tile_path", "thumbnail_path")
	for _, e := range entries {
		b = b.Values(e.Name, e.TilePath, e.ThumbnailPath)
	}

	query, args, err := b.Suffix(
		`ON CONFLICT (name) DO UPDATE
		 SET tile_path = EXCLUDED.tile_path, thumbnail_path = EXCLUDED.thumbnail_path
		 RETURNING id, name`,
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert entries query: %w", err)
	}

	var rows []entryRow
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, query, args...); err != nil {
		return nil, mapScanError(err, "catalog entries", len(entries))
	}

	for _, row := range rows {
		ids[row.Name] = row.ID
	}
	return ids, nil
}

// UpsertDetails inserts details keyed by entry_id, replacing the existing
// detail of an entry. It returns the number of rows written.
func (r *Repo) UpsertDetails(ctx context.Context, details []domain.CatalogDetail) (int, error) {
	if len(details) == 0 {
		return 0, nil
	}

	b := psql.Insert(domain.TableDetails.String()).
		Columns(detailColumns[1:]...)
	for _, d := range details {
		b = b.Values(
			d.EntryID, d.SlideLabel, d.TissueType, d.Stain,
			d.ImageDimensions, d.PixelSize, d.Resolution, d.Magnification, d.Source,
		)
	}

	query, args, err := b.Suffix(
		`ON CONFLICT (entry_id) DO UPDATE
		 SET slide_label = EXCLUDED.slide_label,
		     tissue_type = EXCLUDED.tissue_type,
		     stain = EXCLUDED.stain,
		     image_dimensions = EXCLUDED.image_dimensions,
		     pixel_size = EXCLUDED.pixel_size,
		     resolution = EXCLUDED.resolution,
		     magnification = EXCLUDED.magnification,
		     source = EXCLUDED.source`,
	).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert details query: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, mapScanError(err, "catalog details", len(details))
	}
	return int(tag.RowsAffected()), nil
}
