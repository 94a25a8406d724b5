// Package seeder loads slide manifests into the catalog.
package seeder

import (
	"context"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// CatalogBulkRepo defines the batch repository contract consumed by the seeder pipeline.
// Implemented by catalog.Repo.
type CatalogBulkRepo interface {
	// UpsertEntries writes entries keyed by name and returns their ids by name.
	UpsertEntries(ctx context.Context, entries []domain.CatalogEntry) (map[string]int64, error)
	// UpsertDetails writes details keyed by entry id.
	UpsertDetails(ctx context.Context, details []domain.CatalogDetail) (int, error)
}

// TxRunner runs fn inside a read-write transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
