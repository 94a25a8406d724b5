// Package sidecar resolves sidecar bundle descriptors into domain bundles.
package sidecar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/heartmarshall/slide-atlas/internal/adapter/assets"
	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// DefaultMaxNarrativeBytes caps narrative documents when Options leaves it unset.
const DefaultMaxNarrativeBytes int64 = 4 << 20

type assetStore interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Stat(ctx context.Context, name string) (assets.Info, error)
}

// Options configures a Service.
type Options struct {
	// BundleDir is the directory inside the asset store holding descriptors.
	BundleDir         string
	MaxNarrativeBytes int64
	CacheEnabled      bool
}

// Service reads bundle descriptors and their narrative documents.
type Service struct {
	log          *slog.Logger
	assets       assetStore
	bundleDir    string
	maxNarrative int64
	cache        *bundleCache
}

// NewService creates a sidecar service over the given asset store.
func NewService(logger *slog.Logger, store assetStore, opts Options) *Service {
	maxNarrative := opts.MaxNarrativeBytes
	if maxNarrative <= 0 {
		maxNarrative = DefaultMaxNarrativeBytes
	}

	s := &Service{
		log:          logger.With("service", "sidecar"),
		assets:       store,
		bundleDir:    path.Clean(strings.TrimSpace(opts.BundleDir)),
		maxNarrative: maxNarrative,
	}
	if opts.CacheEnabled {
		s.cache = newBundleCache()
	}
	return s
}

// ResolveBundle parses the descriptor named ref and loads its narrative.
func (s *Service) ResolveBundle(ctx context.Context, ref string) (*domain.SidecarBundle, error) {
	name, err := s.bundleName(ref)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		return s.cache.resolve(ctx, s, ref, name)
	}

	loaded, err := s.load(ctx, ref, name, false)
	if err != nil {
		return nil, err
	}
	return &loaded.bundle, nil
}

// bundleName maps ref to its location inside the asset store.
func (s *Service) bundleName(ref string) (string, error) {
	clean, ok := cleanRelative(ref)
	if !ok {
		return "", domain.NewValidationError("bundle", "must be a relative name inside the bundle directory")
	}
	if s.bundleDir == "" || s.bundleDir == "." {
		return clean, nil
	}
	return path.Join(s.bundleDir, clean), nil
}

type loadedBundle struct {
	bundle       domain.SidecarBundle
	narrative    string
	bundleMod    time.Time
	narrativeMod time.Time
}

// load reads and parses one descriptor. With stamp set, modification times are
// captured before each read so a concurrent write is seen by the next check.
func (s *Service) load(ctx context.Context, ref, name string, stamp bool) (*loadedBundle, error) {
	out := &loadedBundle{}

	if stamp {
		info, err := s.assets.Stat(ctx, name)
		if err != nil {
			return nil, bundleError(ref, err)
		}
		out.bundleMod = info.ModTime
	}

	fields, err := s.readDescriptor(ctx, ref, name)
	if err != nil {
		return nil, err
	}

	narrative, ok := narrativeName(fields.NarrativeAssetPath)
	if !ok {
		return nil, fmt.Errorf("narrative %q of bundle %s: %w", fields.NarrativeAssetPath, ref, domain.ErrAssetNotFound)
	}
	out.narrative = narrative

	if stamp {
		info, err := s.assets.Stat(ctx, narrative)
		if err != nil {
			return nil, s.narrativeError(ctx, ref, narrative, err)
		}
		out.narrativeMod = info.ModTime
	}

	text, err := s.readNarrative(ctx, ref, narrative)
	if err != nil {
		return nil, err
	}

	out.bundle = domain.SidecarBundle{
		Ref:                 ref,
		TileAssetPath:       fields.TileAssetPath,
		AnnotationAssetPath: fields.AnnotationAssetPath,
		DisplayLabel:        fields.DisplayLabel,
		NarrativeAssetPath:  fields.NarrativeAssetPath,
		NarrativeText:       text,
	}

	s.log.DebugContext(ctx, "bundle resolved",
		slog.String("bundle", ref),
		slog.String("narrative", narrative),
		slog.Int("narrative_bytes", len(text)),
	)

	return out, nil
}

func (s *Service) readDescriptor(ctx context.Context, ref, name string) (Fields, error) {
	rc, err := s.assets.Open(ctx, name)
	if err != nil {
		return Fields{}, bundleError(ref, err)
	}
	defer rc.Close()

	fields, err := Parse(rc)
	if err != nil {
		return Fields{}, fmt.Errorf("bundle %s: %w", ref, err)
	}
	return fields, nil
}

func (s *Service) readNarrative(ctx context.Context, ref, name string) (string, error) {
	rc, err := s.assets.Open(ctx, name)
	if err != nil {
		return "", s.narrativeError(ctx, ref, name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(rc, s.maxNarrative+1)); err != nil {
		return "", s.narrativeError(ctx, ref, name, err)
	}
	if int64(buf.Len()) > s.maxNarrative {
		return "", fmt.Errorf("narrative %s exceeds %d bytes: %w", name, s.maxNarrative, domain.ErrMalformedBundle)
	}
	return buf.String(), nil
}

func bundleError(ref string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrBundleNotFound, ref)
	}
	return fmt.Errorf("open bundle %s: %w", ref, err)
}

// narrativeError reports an unreadable narrative as ErrAssetNotFound.
// Cancellation is passed through unchanged.
func (s *Service) narrativeError(ctx context.Context, ref, name string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.log.WarnContext(ctx, "narrative unreadable",
			slog.String("bundle", ref),
			slog.String("narrative", name),
			slog.String("error", err.Error()),
		)
	}
	return fmt.Errorf("narrative %s of bundle %s: %w", name, ref, domain.ErrAssetNotFound)
}

// narrativeName interprets a descriptor path relative to the asset root.
// A leading slash denotes the root itself.
func narrativeName(p string) (string, bool) {
	return cleanRelative(strings.TrimLeft(p, "/"))
}

func cleanRelative(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || path.IsAbs(name) || strings.ContainsAny(name, "\\\x00") {
		return "", false
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}
