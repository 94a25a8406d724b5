package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

func TestService_Search_TissueFacet(t *testing.T) {
	t.Parallel()

	tx := &mockTxManager{}
	svc := newTestService(liverCatalog(), tx, nil, Options{})

	res, err := svc.Search(context.Background(), SearchInput{Query: "liver", Facet: "tissue"})

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(res.Entries))
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "Found: 1", res.Message)
	assert.Equal(t, "Tissue", res.FacetLabel)
	assert.Equal(t, domain.FacetTissue, res.Facet)
	assert.Equal(t, int32(1), tx.calls.Load(), "detail facets run in one read-only transaction")
}

func TestService_Search_NameFacet(t *testing.T) {
	t.Parallel()

	tx := &mockTxManager{}
	svc := newTestService(liverCatalog(), tx, nil, Options{})

	res, err := svc.Search(context.Background(), SearchInput{Query: "liver", Facet: "name"})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(res.Entries))
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "Found: 2", res.Message)
	assert.Equal(t, "Name", res.FacetLabel)
	assert.Zero(t, tx.calls.Load())
}

func TestService_Search_FacetLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		facet string
		query string
		label string
		want  []int64
	}{
		{"", "liver b", "Name", []int64{2}},
		{"none", "LIVER", "Name", []int64{1, 2}},
		{"name", "a", "Name", []int64{1}},
		{"slide_label", "lv-0", "Slide Label", []int64{1}},
		{"tissue", "LiV", "Tissue", []int64{1}},
		{"stain", "h&e", "Stain", []int64{1}},
		{"source", "teaching", "Source", []int64{1}},
		{"stain", "pas", "Stain", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.facet+"/"+tt.query, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(liverCatalog(), nil, nil, Options{})
			res, err := svc.Search(context.Background(), SearchInput{Query: tt.query, Facet: tt.facet})

			require.NoError(t, err)
			assert.Equal(t, tt.label, res.FacetLabel)
			assert.Equal(t, tt.want, ids(res.Entries))
			assert.Equal(t, len(res.Entries), res.Count)
		})
	}
}

func TestService_Search_EmptyQueryReturnsAll(t *testing.T) {
	t.Parallel()

	for _, facet := range []string{"", "none", "name", "slide_label", "tissue", "stain", "source"} {
		t.Run("facet="+facet, func(t *testing.T) {
			t.Parallel()

			tx := &mockTxManager{}
			svc := newTestService(liverCatalog(), tx, nil, Options{})
			res, err := svc.Search(context.Background(), SearchInput{Query: "   ", Facet: facet})

			require.NoError(t, err)
			assert.Equal(t, []int64{1, 2}, ids(res.Entries))
			assert.Equal(t, 2, res.Count)
			assert.Equal(t, "Found: 2", res.Message)
			assert.Empty(t, res.FacetLabel)
			assert.Empty(t, res.Facet)
			assert.Zero(t, tx.calls.Load())
		})
	}
}

func TestService_Search_NoMatches(t *testing.T) {
	t.Parallel()

	svc := newTestService(liverCatalog(), nil, nil, Options{})

	res, err := svc.Search(context.Background(), SearchInput{Query: "kidney", Facet: "name"})

	require.NoError(t, err)
	require.NotNil(t, res.Entries)
	assert.Empty(t, res.Entries)
	assert.Zero(t, res.Count)
	assert.Equal(t, "No slides found", res.Message)
	assert.Equal(t, "Name", res.FacetLabel)
}

func TestService_Search_NoDetailMatchSkipsEntryQuery(t *testing.T) {
	t.Parallel()

	repo := liverCatalog()
	repo.FilterEntriesByIDsFunc = func(_ context.Context, _ []int64) ([]domain.CatalogEntry, error) {
		t.Fatal("FilterEntriesByIDs should not be called without matching details")
		return nil, nil
	}
	svc := newTestService(repo, nil, nil, Options{})

	res, err := svc.Search(context.Background(), SearchInput{Query: "bone", Facet: "tissue"})

	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.Equal(t, "No slides found", res.Message)
}

func TestService_Search_DeduplicatesEntryIDs(t *testing.T) {
	t.Parallel()

	var gotIDs []int64
	repo := &mockCatalogRepo{
		QueryDetailsByColumnFunc: func(_ context.Context, column, substring string) ([]domain.CatalogDetail, error) {
			assert.Equal(t, "stain", column)
			assert.Equal(t, "h&e", substring)
			return []domain.CatalogDetail{{EntryID: 3}, {EntryID: 1}, {EntryID: 3}}, nil
		},
		FilterEntriesByIDsFunc: func(_ context.Context, ids []int64) ([]domain.CatalogEntry, error) {
			gotIDs = ids
			return []domain.CatalogEntry{{ID: 1}, {ID: 3}}, nil
		},
	}
	svc := newTestService(repo, nil, nil, Options{})

	res, err := svc.Search(context.Background(), SearchInput{Query: " H&E ", Facet: "stain"})

	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, gotIDs)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "H&E", res.Query)
}

func TestService_Search_UnknownFacetFallsBackToName(t *testing.T) {
	t.Parallel()

	svc := newTestService(liverCatalog(), nil, nil, Options{})

	res, err := svc.Search(context.Background(), SearchInput{Query: "liver", Facet: "organ"})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "Name", res.FacetLabel)
	assert.Equal(t, domain.FacetName, res.Facet)
}

func TestService_Search_FacetKeysAreCaseSensitive(t *testing.T) {
	t.Parallel()

	svc := newTestService(liverCatalog(), nil, nil, Options{StrictFacets: true})

	_, err := svc.Search(context.Background(), SearchInput{Query: "liver", Facet: "Tissue"})

	assert.ErrorIs(t, err, domain.ErrInvalidFacet)
}

func TestService_Search_StrictRejectsUnknownFacet(t *testing.T) {
	t.Parallel()

	repo := &mockCatalogRepo{}
	svc := newTestService(repo, nil, nil, Options{StrictFacets: true})

	for _, q := range []string{"liver", ""} {
		_, err := svc.Search(context.Background(), SearchInput{Query: q, Facet: "organ"})
		assert.ErrorIs(t, err, domain.ErrInvalidFacet)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestService_Search_StrictAcceptsKnownFacets(t *testing.T) {
	t.Parallel()

	svc := newTestService(liverCatalog(), nil, nil, Options{StrictFacets: true})

	res, err := svc.Search(context.Background(), SearchInput{Query: "liver", Facet: " tissue "})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
}

func TestService_Search_RepoErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		facet string
		query string
		repo  *mockCatalogRepo
	}{
		{
			name: "list",
			repo: &mockCatalogRepo{
				ListEntriesFunc: func(context.Context) ([]domain.CatalogEntry, error) { return nil, errDB },
			},
		},
		{
			name:  "entries by column",
			facet: "name",
			query: "x",
			repo: &mockCatalogRepo{
				QueryEntriesByColumnFunc: func(context.Context, string, string) ([]domain.CatalogEntry, error) { return nil, errDB },
			},
		},
		{
			name:  "details by column",
			facet: "tissue",
			query: "x",
			repo: &mockCatalogRepo{
				QueryDetailsByColumnFunc: func(context.Context, string, string) ([]domain.CatalogDetail, error) { return nil, errDB },
			},
		},
		{
			name:  "filter by ids",
			facet: "tissue",
			query: "x",
			repo: &mockCatalogRepo{
				QueryDetailsByColumnFunc: func(context.Context, string, string) ([]domain.CatalogDetail, error) {
					return []domain.CatalogDetail{{EntryID: 1}}, nil
				},
				FilterEntriesByIDsFunc: func(context.Context, []int64) ([]domain.CatalogEntry, error) { return nil, errDB },
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(tt.repo, nil, nil, Options{})
			res, err := svc.Search(context.Background(), SearchInput{Query: tt.query, Facet: tt.facet})

			assert.ErrorIs(t, err, errDB)
			assert.Nil(t, res)
		})
	}
}

func TestService_Search_TxError(t *testing.T) {
	t.Parallel()

	txErr := errors.New("begin tx: too many connections")
	tx := &mockTxManager{
		RunReadOnlyFunc: func(context.Context, func(context.Context) error) error { return txErr },
	}
	svc := newTestService(liverCatalog(), tx, nil, Options{})

	_, err := svc.Search(context.Background(), SearchInput{Query: "liver", Facet: "tissue"})

	assert.ErrorIs(t, err, txErr)
}

func TestService_Search_DetailPropertyHolds(t *testing.T) {
	t.Parallel()

	repo := memCatalog(
		[]domain.CatalogEntry{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}},
		[]domain.CatalogDetail{
			{EntryID: 1, Stain: "H&E"},
			{EntryID: 2, Stain: "Masson trichrome"},
			{EntryID: 3, Stain: "h&e (frozen)"},
		},
	)
	svc := newTestService(repo, nil, nil, Options{})

	res, err := svc.Search(context.Background(), SearchInput{Query: "H&E", Facet: "stain"})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(res.Entries))
	for _, e := range res.Entries {
		d, err := repo.GetDetailByEntry(context.Background(), e.ID)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Contains(t, strings.ToLower(d.Stain), "h&e")
	}
}

func TestEntryIDs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, entryIDs(nil))
	assert.Equal(t, []int64{5, 2}, entryIDs([]domain.CatalogDetail{{EntryID: 5}, {EntryID: 2}, {EntryID: 5}}))
}
