package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockCatalogRepo struct {
	GetEntryFunc             func(ctx context.Context, id int64) (*domain.CatalogEntry, error)
	GetDetailByEntryFunc     func(ctx context.Context, entryID int64) (*domain.CatalogDetail, error)
	ListEntriesFunc          func(ctx context.Context) ([]domain.CatalogEntry, error)
	FilterEntriesByIDsFunc   func(ctx context.Context, ids []int64) ([]domain.CatalogEntry, error)
	QueryEntriesByColumnFunc func(ctx context.Context, column, substring string) ([]domain.CatalogEntry, error)
	QueryDetailsByColumnFunc func(ctx context.Context, column, substring string) ([]domain.CatalogDetail, error)
}

func (m *mockCatalogRepo) GetEntry(ctx context.Context, id int64) (*domain.CatalogEntry, error) {
	return m.GetEntryFunc(ctx, id)
}

func (m *mockCatalogRepo) GetDetailByEntry(ctx context.Context, entryID int64) (*domain.CatalogDetail, error) {
	return m.GetDetailByEntryFunc(ctx, entryID)
}

func (m *mockCatalogRepo) ListEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	return m.ListEntriesFunc(ctx)
}

func (m *mockCatalogRepo) FilterEntriesByIDs(ctx context.Context, ids []int64) ([]domain.CatalogEntry, error) {
	return m.FilterEntriesByIDsFunc(ctx, ids)
}

func (m *mockCatalogRepo) QueryEntriesByColumn(ctx context.Context, column, substring string) ([]domain.CatalogEntry, error) {
	return m.QueryEntriesByColumnFunc(ctx, column, substring)
}

func (m *mockCatalogRepo) QueryDetailsByColumn(ctx context.Context, column, substring string) ([]domain.CatalogDetail, error) {
	return m.QueryDetailsByColumnFunc(ctx, column, substring)
}

type mockTxManager struct {
	RunReadOnlyFunc func(ctx context.Context, fn func(ctx context.Context) error) error
	calls           atomic.Int32
}

func (m *mockTxManager) RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls.Add(1)
	if m.RunReadOnlyFunc != nil {
		return m.RunReadOnlyFunc(ctx, fn)
	}
	// Default: pass-through (no real transaction).
	return fn(ctx)
}

type mockBundleResolver struct {
	ResolveBundleFunc func(ctx context.Context, ref string) (*domain.SidecarBundle, error)
	calls             atomic.Int32
}

func (m *mockBundleResolver) ResolveBundle(ctx context.Context, ref string) (*domain.SidecarBundle, error) {
	m.calls.Add(1)
	return m.ResolveBundleFunc(ctx, ref)
}

// ---------------------------------------------------------------------------
// In-memory catalog
// ---------------------------------------------------------------------------

// memCatalog answers repository calls from slices using the same
// case-insensitive substring semantics as the SQL store.
func memCatalog(entries []domain.CatalogEntry, details []domain.CatalogDetail) *mockCatalogRepo {
	contains := func(value, substring string) bool {
		return strings.Contains(strings.ToLower(value), substring)
	}
	detailColumn := func(d domain.CatalogDetail, column string) string {
		switch column {
		case "slide_label":
			return d.SlideLabel
		case "tissue_type":
			return d.TissueType
		case "stain":
			return d.Stain
		case "source":
			return d.Source
		}
		panic("unexpected column " + column)
	}

	return &mockCatalogRepo{
		GetEntryFunc: func(_ context.Context, id int64) (*domain.CatalogEntry, error) {
			for _, e := range entries {
				if e.ID == id {
					return &e, nil
				}
			}
			return nil, domain.ErrNotFound
		},
		GetDetailByEntryFunc: func(_ context.Context, entryID int64) (*domain.CatalogDetail, error) {
			for _, d := range details {
				if d.EntryID == entryID {
					return &d, nil
				}
			}
			return nil, nil
		},
		ListEntriesFunc: func(_ context.Context) ([]domain.CatalogEntry, error) {
			return append([]domain.CatalogEntry{}, entries...), nil
		},
		FilterEntriesByIDsFunc: func(_ context.Context, ids []int64) ([]domain.CatalogEntry, error) {
			want := make(map[int64]bool, len(ids))
			for _, id := range ids {
				want[id] = true
			}
			out := []domain.CatalogEntry{}
			for _, e := range entries {
				if want[e.ID] {
					out = append(out, e)
				}
			}
			return out, nil
		},
		QueryEntriesByColumnFunc: func(_ context.Context, column, substring string) ([]domain.CatalogEntry, error) {
			if column != "name" {
				panic("unexpected column " + column)
			}
			out := []domain.CatalogEntry{}
			for _, e := range entries {
				if contains(e.Name, substring) {
					out = append(out, e)
				}
			}
			return out, nil
		},
		QueryDetailsByColumnFunc: func(_ context.Context, column, substring string) ([]domain.CatalogDetail, error) {
			out := []domain.CatalogDetail{}
			for _, d := range details {
				if contains(detailColumn(d, column), substring) {
					out = append(out, d)
				}
			}
			return out, nil
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestService(repo *mockCatalogRepo, tx *mockTxManager, bundles *mockBundleResolver, opts Options) *Service {
	if tx == nil {
		tx = &mockTxManager{}
	}
	if bundles == nil {
		bundles = &mockBundleResolver{}
	}
	return NewService(slog.Default(), repo, tx, bundles, opts)
}

// liverCatalog is the two-entry catalog used throughout: one entry with a
// Liver/H&E detail, one without any detail.
func liverCatalog() *mockCatalogRepo {
	return memCatalog(
		[]domain.CatalogEntry{
			{ID: 1, Name: "Liver A", TilePath: "tiles/liver-a.dzi", ThumbnailPath: "thumbs/liver-a.png"},
			{ID: 2, Name: "Liver B", TilePath: "tiles/liver-b.dzi", ThumbnailPath: "thumbs/liver-b.png"},
		},
		[]domain.CatalogDetail{
			{ID: 10, EntryID: 1, SlideLabel: "LV-001", TissueType: "Liver", Stain: "H&E", Source: "Teaching Set"},
		},
	)
}

func ids(entries []domain.CatalogEntry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func sampleBundle(ref string) *domain.SidecarBundle {
	return &domain.SidecarBundle{
		Ref:                 ref,
		TileAssetPath:       "/assets/a.tile",
		AnnotationAssetPath: "/assets/a.xml",
		DisplayLabel:        "Slide A",
		NarrativeAssetPath:  "/assets/a.html",
		NarrativeText:       "<p>narrative</p>",
	}
}

var errDB = errors.New("connection refused")
