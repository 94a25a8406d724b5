package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// FS serves assets from a directory. Lookups go through os.Root, so
// symlinks cannot escape the directory either.
type FS struct {
	root *os.Root
}

// NewFS opens dir as the asset root. dir must exist.
func NewFS(dir string) (*FS, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open asset root %s: %w", dir, err)
	}
	return &FS{root: root}, nil
}

// Open opens name for reading.
func (s *FS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := CleanName(name)
	if err != nil {
		return nil, err
	}

	f, err := s.root.Open(clean)
	if err != nil {
		return nil, s.mapError(clean, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat asset %s: %w", clean, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, notFound(clean)
	}

	return f, nil
}

// Stat returns size and modification time of name.
func (s *FS) Stat(ctx context.Context, name string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	clean, err := CleanName(name)
	if err != nil {
		return Info{}, err
	}

	st, err := s.root.Stat(clean)
	if err != nil {
		return Info{}, s.mapError(clean, err)
	}
	if st.IsDir() {
		return Info{}, notFound(clean)
	}

	return Info{Size: st.Size(), ModTime: st.ModTime()}, nil
}

// Ping checks that the root directory is still reachable.
func (s *FS) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.root.Stat("."); err != nil {
		return fmt.Errorf("stat asset root: %w", err)
	}
	return nil
}

// Close releases the root directory handle.
func (s *FS) Close() error {
	return s.root.Close()
}

func (s *FS) mapError(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(name)
	}
	return fmt.Errorf("asset %s: %w", name, err)
}
