// Package catalog implements faceted slide search and viewport assembly.
package catalog

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

type catalogRepo interface {
	GetEntry(ctx context.Context, id int64) (*domain.CatalogEntry, error)
	GetDetailByEntry(ctx context.Context, entryID int64) (*domain.CatalogDetail, error)
	ListEntries(ctx context.Context) ([]domain.CatalogEntry, error)
	FilterEntriesByIDs(ctx context.Context, ids []int64) ([]domain.CatalogEntry, error)
	QueryEntriesByColumn(ctx context.Context, column, substring string) ([]domain.CatalogEntry, error)
	QueryDetailsByColumn(ctx context.Context, column, substring string) ([]domain.CatalogDetail, error)
}

type txManager interface {
	RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type bundleResolver interface {
	ResolveBundle(ctx context.Context, ref string) (*domain.SidecarBundle, error)
}

// Options tunes search behaviour.
type Options struct {
	// StrictFacets rejects unknown facet keys instead of searching by name.
	StrictFacets bool
}

// Service implements catalog search, entry lookup and viewport resolution.
type Service struct {
	log          *slog.Logger
	catalog      catalogRepo
	tx           txManager
	bundles      bundleResolver
	strictFacets bool
}

// NewService creates a new catalog service.
func NewService(
	logger *slog.Logger,
	catalog catalogRepo,
	tx txManager,
	bundles bundleResolver,
	opts Options,
) *Service {
	return &Service{
		log:          logger.With("service", "catalog"),
		catalog:      catalog,
		tx:           tx,
		bundles:      bundles,
		strictFacets: opts.StrictFacets,
	}
}
