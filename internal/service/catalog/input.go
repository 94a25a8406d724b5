package catalog

import (
	"strings"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// SearchInput holds the raw search parameters. Both are optional.
type SearchInput struct {
	Query string
	Facet string
}

// ViewportInput identifies the entry and bundle to assemble.
type ViewportInput struct {
	EntryID   int64
	BundleRef string
}

// Validate checks all fields and collects all errors.
func (i ViewportInput) Validate() error {
	var errs []domain.FieldError

	if i.EntryID <= 0 {
		errs = append(errs, domain.FieldError{Field: "entry_id", Message: "must be a positive integer"})
	}
	if strings.TrimSpace(i.BundleRef) == "" {
		errs = append(errs, domain.FieldError{Field: "bundle", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
