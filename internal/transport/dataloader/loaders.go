package dataloader

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// newDetailBatchFn resolves entry IDs to their detail. Entries without a
// detail resolve to nil.
func newDetailBatchFn(repo detailRepo) dataloader.BatchFunc[int64, *domain.CatalogDetail] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[*domain.CatalogDetail] {
		details, err := repo.GetDetailsByEntryIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.CatalogDetail](len(keys), err)
		}

		byEntry := make(map[int64]*domain.CatalogDetail, len(details))
		for i := range details {
			byEntry[details[i].EntryID] = &details[i]
		}

		return mapResults(keys, byEntry, zero[*domain.CatalogDetail])
	}
}

// errorResults returns a slice of error results for all keys.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[K comparable, V any](keys []K, grouped map[K]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

func zero[V any]() V {
	var v V
	return v
}
