package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

const noResultsMessage = "No slides found"

// Search returns the entries matching in.Query on the column selected by
// in.Facet. An empty query returns the whole catalog without a facet label.
// Detail facets match CatalogDetail rows and resolve them back to entries;
// both steps read one snapshot.
func (s *Service) Search(ctx context.Context, in SearchInput) (*domain.SearchResult, error) {
	key := domain.NormalizeFacet(in.Facet)
	facet, known := domain.LookupFacet(key)
	if !known {
		if s.strictFacets {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFacet, key)
		}
		s.log.WarnContext(ctx, "unknown facet, searching by name", slog.String("facet", string(key)))
	}

	query := domain.NormalizeQuery(in.Query)

	var (
		entries []domain.CatalogEntry
		err     error
	)
	switch {
	case query == "":
		entries, err = s.catalog.ListEntries(ctx)
	case facet.Indirect():
		entries, err = s.searchDetails(ctx, facet, query)
	default:
		entries, err = s.catalog.QueryEntriesByColumn(ctx, facet.Column, query)
	}
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", facet.Key, err)
	}

	return newSearchResult(entries, strings.TrimSpace(in.Query), query != "", facet), nil
}

func (s *Service) searchDetails(ctx context.Context, facet domain.Facet, query string) ([]domain.CatalogEntry, error) {
	var entries []domain.CatalogEntry
	err := s.tx.RunReadOnly(ctx, func(txCtx context.Context) error {
		details, err := s.catalog.QueryDetailsByColumn(txCtx, facet.Column, query)
		if err != nil {
			return fmt.Errorf("match details: %w", err)
		}
		if len(details) == 0 {
			return nil
		}

		entries, err = s.catalog.FilterEntriesByIDs(txCtx, entryIDs(details))
		if err != nil {
			return fmt.Errorf("filter entries: %w", err)
		}
		return nil
	})
	return entries, err
}

// entryIDs collects the distinct entry IDs of details in first-seen order.
func entryIDs(details []domain.CatalogDetail) []int64 {
	seen := make(map[int64]struct{}, len(details))
	ids := make([]int64, 0, len(details))
	for _, d := range details {
		if _, ok := seen[d.EntryID]; ok {
			continue
		}
		seen[d.EntryID] = struct{}{}
		ids = append(ids, d.EntryID)
	}
	return ids
}

func newSearchResult(entries []domain.CatalogEntry, query string, filtered bool, facet domain.Facet) *domain.SearchResult {
	if entries == nil {
		entries = []domain.CatalogEntry{}
	}

	res := &domain.SearchResult{
		Entries: entries,
		Count:   len(entries),
		Message: noResultsMessage,
	}
	if res.Count > 0 {
		res.Message = fmt.Sprintf("Found: %d", res.Count)
	}
	if filtered {
		res.Query = query
		res.Facet = facet.Key
		res.FacetLabel = facet.Label
	}
	return res
}
