package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// Format is the encoding of an authored graph document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

var ErrUnknownFormat = errors.New("unknown graph format")

// FormatForPath picks a Format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Decode reads a graph document from r. The graph is not validated.
//
// Parameters:
//   - r: the document source
//   - format: FormatJSON or FormatYAML
//
// Returns:
//   - *Graph: the decoded graph
//   - error: a read or decode error
func Decode(r io.Reader, format Format) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph: %w", err)
	}
	return Unmarshal(data, format)
}

// Unmarshal decodes a graph document held in memory.
func Unmarshal(data []byte, format Format) (*Graph, error) {
	var g Graph
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("failed to decode graph json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("failed to decode graph yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	return &g, nil
}

// DecodeFile reads and validates the graph at path. The format follows the file extension.
func DecodeFile(path string) (*Graph, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph %s: %w", path, err)
	}
	defer f.Close()

	g, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Marshal encodes g in the given format.
func Marshal(g *Graph, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.Marshal(g)
	case FormatYAML:
		return yaml.Marshal(g)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
}
