package seeder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// Manifest lists the slides to load into the catalog.
//
//	slides:
//	  - name: Liver 01
//	    tile_path: tiles/liver01.dzi
//	    thumbnail_path: thumbs/liver01.png
//	    detail:
//	      slide_label: HP-001
//	      tissue_type: Hepatic
//	      stain: H&E
type Manifest struct {
	Slides []SlideRecord `yaml:"slides"`
}

// SlideRecord is one manifest item. Detail is optional.
type SlideRecord struct {
	Name          string        `yaml:"name"`
	TilePath      string        `yaml:"tile_path"`
	ThumbnailPath string        `yaml:"thumbnail_path"`
	Detail        *DetailRecord `yaml:"detail"`
}

// DetailRecord carries the descriptive metadata of a manifest slide.
type DetailRecord struct {
	SlideLabel      string `yaml:"slide_label"`
	TissueType      string `yaml:"tissue_type"`
	Stain           string `yaml:"stain"`
	ImageDimensions string `yaml:"image_dimensions"`
	PixelSize       string `yaml:"pixel_size"`
	Resolution      string `yaml:"resolution"`
	Magnification   string `yaml:"magnification"`
	Source          string `yaml:"source"`
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	return ParseManifest(f)
}

// ParseManifest decodes a manifest. Unknown keys are rejected.
func ParseManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks required fields and the catalog's uniqueness constraints
// within the manifest itself.
func (m *Manifest) Validate() error {
	var errs []domain.FieldError
	seen := make(map[string]map[string]int)

	check := func(i int, field, value string) {
		key := fmt.Sprintf("slides[%d].%s", i, field)
		value = strings.TrimSpace(value)
		if value == "" {
			errs = append(errs, domain.FieldError{Field: key, Message: "required"})
			return
		}
		if seen[field] == nil {
			seen[field] = make(map[string]int)
		}
		if prev, dup := seen[field][value]; dup {
			errs = append(errs, domain.FieldError{Field: key, Message: fmt.Sprintf("duplicates slides[%d]", prev)})
			return
		}
		seen[field][value] = i
	}

	for i, s := range m.Slides {
		check(i, "name", s.Name)
		check(i, "tile_path", s.TilePath)
		check(i, "thumbnail_path", s.ThumbnailPath)
		if s.Detail != nil {
			check(i, "detail.slide_label", s.Detail.SlideLabel)
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (s SlideRecord) entry() domain.CatalogEntry {
	return domain.CatalogEntry{
		Name:          strings.TrimSpace(s.Name),
		TilePath:      strings.TrimSpace(s.TilePath),
		ThumbnailPath: strings.TrimSpace(s.ThumbnailPath),
	}
}

func (d DetailRecord) detail(entryID int64) domain.CatalogDetail {
	return domain.CatalogDetail{
		EntryID:         entryID,
		SlideLabel:      strings.TrimSpace(d.SlideLabel),
		TissueType:      d.TissueType,
		Stain:           d.Stain,
		ImageDimensions: d.ImageDimensions,
		PixelSize:       d.PixelSize,
		Resolution:      d.Resolution,
		Magnification:   d.Magnification,
		Source:          d.Source,
	}
}
