package assets

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

func newTestFS(t *testing.T, files map[string]string) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	store, err := NewFS(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, dir
}

func TestFS_OpenAndStat(t *testing.T) {
	store, dir := newTestFS(t, map[string]string{"bundles/a.txt": "hello"})
	ctx := context.Background()

	rc, err := store.Open(ctx, "bundles/a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(data))

	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "bundles", "a.txt"), mtime, mtime))

	info, err := store.Stat(ctx, "bundles/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.True(t, info.ModTime.Equal(mtime))
}

func TestFS_Missing(t *testing.T) {
	store, _ := newTestFS(t, map[string]string{"bundles/a.txt": "x"})
	ctx := context.Background()

	_, err := store.Open(ctx, "bundles/missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Stat(ctx, "bundles/missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Open(ctx, "bundles")
	assert.ErrorIs(t, err, domain.ErrNotFound, "directories are not assets")
}

func TestFS_RejectsTraversal(t *testing.T) {
	store, _ := newTestFS(t, nil)

	_, err := store.Open(context.Background(), "../outside.txt")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFS_SymlinkEscapeBlocked(t *testing.T) {
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("s"), 0o644))

	store, dir := newTestFS(t, nil)
	if err := os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	_, err := store.Open(context.Background(), "link.txt")
	assert.Error(t, err)
}

func TestFS_CanceledContext(t *testing.T) {
	store, _ := newTestFS(t, map[string]string{"a.txt": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Open(ctx, "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFS_Ping(t *testing.T) {
	store, _ := newTestFS(t, nil)
	assert.NoError(t, store.Ping(context.Background()))
}
