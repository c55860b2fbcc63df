package loader

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/godilite/collab-dashboard/internal/survey"
)

//go:embed data/sample_bundle.json
var sampleFS embed.FS

const samplePath = "data/sample_bundle.json"

// JSONSource reads a bundle document: {"records": [...], "aggregates": {...}}.
// Rollups are computed from the records when the document has none.
type JSONSource struct {
	open func() (io.ReadCloser, error)
	name string
}

func NewJSONSource(path string) *JSONSource {
	return &JSONSource{
		name: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewSampleSource serves the bundle compiled into the binary.
func NewSampleSource() *JSONSource {
	return &JSONSource{
		name: "sample",
		open: func() (io.ReadCloser, error) { return sampleFS.Open(samplePath) },
	}
}

func (s *JSONSource) Load(ctx context.Context) (*survey.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open bundle %s: %w", s.name, err)
	}
	defer rc.Close()

	return DecodeBundle(rc)
}

// DecodeBundle parses a bundle document and fills in missing rollups.
func DecodeBundle(r io.Reader) (*survey.Bundle, error) {
	var b survey.Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", survey.ErrInvalidBundle, err)
	}
	if b.Aggregates.Empty() && len(b.Records) > 0 {
		b.Aggregates = BuildAggregates(b.Records)
	}
	return &b, nil
}
