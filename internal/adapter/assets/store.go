// Package assets reads slide assets (bundles, narratives) from a local
// directory tree or an S3 bucket. Names are slash-separated and relative
// to the configured root; missing objects yield domain.ErrNotFound.
package assets

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/heartmarshall/slide-atlas/internal/config"
	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// Info describes a stored asset.
type Info struct {
	Size    int64
	ModTime time.Time
}

// Store is the read surface shared by every backend.
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Stat(ctx context.Context, name string) (Info, error)
	Ping(ctx context.Context) error
}

// New builds the backend selected by cfg.
func New(cfg config.AssetsConfig) (Store, error) {
	if cfg.UsesS3() {
		return NewS3(cfg.S3)
	}
	return NewFS(cfg.Root)
}

// CleanName validates a caller-supplied asset name and returns its canonical
// form. Absolute names and names escaping the root are rejected.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError("name", "required")
	}
	if strings.ContainsRune(name, '\\') || strings.ContainsRune(name, 0) {
		return "", domain.NewValidationError("name", "invalid characters")
	}
	if path.IsAbs(name) {
		return "", domain.NewValidationError("name", "must be relative")
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", domain.NewValidationError("name", "must stay inside the asset root")
	}
	return cleaned, nil
}

func notFound(name string) error {
	return fmt.Errorf("asset %s: %w", name, domain.ErrNotFound)
}
