// Package catalog implements the slide catalog store using
// PostgreSQL. Queries are built with squirrel and scanned with pgxscan.
package catalog

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/slide-atlas/internal/adapter/postgres"
	"github.com/heartmarshall/slide-atlas/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides catalog reads backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new catalog repository. db is usually a *pgxpool.Pool.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// GetEntry returns the entry with the given id or domain.ErrNotFound.
func (r *Repo) GetEntry(ctx context.Context, id int64) (*domain.CatalogEntry, error) {
	query, args, err := psql.Select(entryColumns...).
		From(domain.TableEntries.String()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get entry query: %w", err)
	}

	var row entryRow
	if err := pgxscan.Get(ctx, r.q(ctx), &row, query, args...); err != nil {
		return nil, mapScanError(err, "catalog entry", id)
	}

	entry := row.toDomain()
	return &entry, nil
}

// GetDetailByEntry returns the detail attached to entryID.
// A missing detail is a valid state and yields (nil, nil).
func (r *Repo) GetDetailByEntry(ctx context.Context, entryID int64) (*domain.CatalogDetail, error) {
	query, args, err := psql.Select(detailColumns...).
		From(domain.TableDetails.String()).
		Where(sq.Eq{"entry_id": entryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get detail query: %w", err)
	}

	var row detailRow
	if err := pgxscan.Get(ctx, r.q(ctx), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, postgres.MapError(err, "catalog detail for entry", entryID)
	}

	detail := row.toDomain()
	return &detail, nil
}

// ListEntries returns every entry ordered by id.
func (r *Repo) ListEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	return r.selectEntries(ctx, psql.Select(entryColumns...).
		From(domain.TableEntries.String()).
		OrderBy("id ASC"), "all")
}

// FilterEntriesByIDs returns the entries whose id is in ids, ordered by id.
// Unknown ids are skipped; an empty ids slice returns an empty result
// without touching the database.
func (r *Repo) FilterEntriesByIDs(ctx context.Context, ids []int64) ([]domain.CatalogEntry, error) {
	if len(ids) == 0 {
		return []domain.CatalogEntry{}, nil
	}

	return r.selectEntries(ctx, psql.Select(entryColumns...).
		From(domain.TableEntries.String()).
		Where("id = ANY(?)", ids).
		OrderBy("id ASC"), ids)
}

// QueryEntriesByColumn returns entries whose column contains substring,
// case-insensitively, ordered by id.
func (r *Repo) QueryEntriesByColumn(ctx context.Context, column, substring string) ([]domain.CatalogEntry, error) {
	pred, err := containsFilter(domain.TableEntries, column, substring)
	if err != nil {
		return nil, err
	}

	return r.selectEntries(ctx, psql.Select(entryColumns...).
		From(domain.TableEntries.String()).
		Where(pred).
		OrderBy("id ASC"), column)
}

// QueryDetailsByColumn returns details whose column contains substring,
// case-insensitively, ordered by entry_id.
func (r *Repo) QueryDetailsByColumn(ctx context.Context, column, substring string) ([]domain.CatalogDetail, error) {
	pred, err := containsFilter(domain.TableDetails, column, substring)
	if err != nil {
		return nil, err
	}

	return r.selectDetails(ctx, psql.Select(detailColumns...).
		From(domain.TableDetails.String()).
		Where(pred).
		OrderBy("entry_id ASC"), column)
}

// GetDetailsByEntryIDs returns the details of the given entries. Entries
// without a detail are simply absent from the result.
func (r *Repo) GetDetailsByEntryIDs(ctx context.Context, entryIDs []int64) ([]domain.CatalogDetail, error) {
	if len(entryIDs) == 0 {
		return []domain.CatalogDetail{}, nil
	}

	return r.selectDetails(ctx, psql.Select(detailColumns...).
		From(domain.TableDetails.String()).
		Where("entry_id = ANY(?)", entryIDs).
		OrderBy("entry_id ASC"), entryIDs)
}

func (r *Repo) selectEntries(ctx context.Context, b sq.SelectBuilder, key any) ([]domain.CatalogEntry, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entries query: %w", err)
	}

	var rows []entryRow
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "catalog entries", key)
	}

	return entriesToDomain(rows), nil
}

func (r *Repo) selectDetails(ctx context.Context, b sq.SelectBuilder, key any) ([]domain.CatalogDetail, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build details query: %w", err)
	}

	var rows []detailRow
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "catalog details", key)
	}

	return detailsToDomain(rows), nil
}

func mapScanError(err error, entity string, key any) error {
	if pgxscan.NotFound(err) {
		return fmt.Errorf("%s %v: %w", entity, key, domain.ErrNotFound)
	}
	return postgres.MapError(err, entity, key)
}
