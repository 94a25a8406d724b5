package sidecar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// Positional layout of a bundle descriptor.
const (
	fieldTile = iota
	fieldAnnotation
	fieldLabel
	fieldNarrative

	fieldCount
)

var fieldNames = [fieldCount]string{"tile", "annotation", "label", "narrative"}

// maxLineBytes bounds a single descriptor line.
const maxLineBytes = 64 * 1024

// Fields is the decoded content of a bundle descriptor, before the narrative
// document is loaded.
type Fields struct {
	TileAssetPath       string
	AnnotationAssetPath string
	DisplayLabel        string
	NarrativeAssetPath  string
}

// Parse decodes a bundle descriptor. The first four lines carry the tile path,
// annotation path, display label and narrative path; anything after them is
// ignored. Writers may emit each field as a bracketed, quoted token list, so
// every line is normalized with cleanField.
func Parse(r io.Reader) (Fields, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var raw [fieldCount]string
	n := 0
	for n < fieldCount && sc.Scan() {
		raw[n] = sc.Text()
		n++
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Fields{}, fmt.Errorf("line %d exceeds %d bytes: %w", n+1, maxLineBytes, domain.ErrMalformedBundle)
		}
		return Fields{}, fmt.Errorf("read descriptor: %w", err)
	}
	if n < fieldCount {
		return Fields{}, fmt.Errorf("expected %d lines, got %d: %w", fieldCount, n, domain.ErrMalformedBundle)
	}

	var out [fieldCount]string
	for i, line := range raw {
		out[i] = cleanField(line, i)
		if out[i] == "" {
			return Fields{}, fmt.Errorf("%s field is empty: %w", fieldNames[i], domain.ErrMalformedBundle)
		}
	}

	return Fields{
		TileAssetPath:       out[fieldTile],
		AnnotationAssetPath: out[fieldAnnotation],
		DisplayLabel:        out[fieldLabel],
		NarrativeAssetPath:  out[fieldNarrative],
	}, nil
}

// cleanField rejoins the whitespace tokens of line with single spaces and
// strips list decoration: one leading '[', one trailing ']' and every quote.
// Commas are list separators only in the display label.
func cleanField(line string, idx int) string {
	s := strings.Join(strings.Fields(line), " ")
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	s = strings.ReplaceAll(s, "'", "")
	if idx == fieldLabel {
		s = strings.ReplaceAll(s, ",", "")
	}
	return strings.TrimSpace(s)
}
