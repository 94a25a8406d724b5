// Package dataloader provides per-request DataLoaders that batch detail
// lookups for catalog listings into single SQL calls. Loaders call the
// repository directly, bypassing the service layer.
package dataloader

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type detailRepo interface {
	GetDetailsByEntryIDs(ctx context.Context, entryIDs []int64) ([]domain.CatalogDetail, error)
}

// Repos holds the repositories required by DataLoaders.
type Repos struct {
	Detail detailRepo
}

// Loaders contains the per-request DataLoaders. Created via NewLoaders.
type Loaders struct {
	DetailByEntryID *dataloader.Loader[int64, *domain.CatalogDetail]
}

// NewLoaders creates a new set of DataLoaders backed by the given repositories.
// Must be called per-request (loaders cache results within a single request).
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		DetailByEntryID: newLoader(newDetailBatchFn(repos.Detail)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[int64, V]) *dataloader.Loader[int64, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[int64, V](wait),
		dataloader.WithBatchCapacity[int64, V](maxBatch),
	)
}

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present (indicates middleware misconfiguration).
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context, is the middleware configured?")
	}
	return l
}
