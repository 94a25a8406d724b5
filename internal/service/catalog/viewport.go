package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// GetEntry returns an entry together with its detail, if any.
func (s *Service) GetEntry(ctx context.Context, id int64) (*domain.EntryWithDetail, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("entry_id", "must be a positive integer")
	}

	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	detail, err := s.catalog.GetDetailByEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get detail: %w", err)
	}

	return &domain.EntryWithDetail{CatalogEntry: *entry, Detail: detail}, nil
}

// ResolveViewport assembles the view for one entry and bundle. A missing entry
// fails before the bundle is touched; a missing detail is carried as nil.
func (s *Service) ResolveViewport(ctx context.Context, in ViewportInput) (*domain.ViewportView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.getEntry(ctx, in.EntryID)
	if err != nil {
		return nil, err
	}

	var (
		detail *domain.CatalogDetail
		bundle *domain.SidecarBundle
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.catalog.GetDetailByEntry(gctx, entry.ID)
		if err != nil {
			return fmt.Errorf("get detail: %w", err)
		}
		detail = d
		return nil
	})
	g.Go(func() error {
		b, err := s.bundles.ResolveBundle(gctx, in.BundleRef)
		if err != nil {
			return fmt.Errorf("resolve bundle: %w", err)
		}
		bundle = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := domain.NewViewportView(*entry, detail, *bundle)
	return &view, nil
}

func (s *Service) getEntry(ctx context.Context, id int64) (*domain.CatalogEntry, error) {
	entry, err := s.catalog.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("entry %d: %w", id, domain.ErrEntryNotFound)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}
