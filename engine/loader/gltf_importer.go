package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter parses a glTF document and runs the animation and hierarchy extractors.
type gltfImporter interface {
	// Import parses and extracts the file at path.
	//
	// Parameters:
	//   - path: path to a .gltf or .glb file
	//
	// Returns:
	//   - *Asset: the imported tracks and hierarchy
	//   - error: error if parsing or extraction fails
	Import(path string) (*Asset, error)

	// ImportReader parses and extracts a document read from r.
	//
	// Parameters:
	//   - name: the fallback asset name
	//   - r: the document source
	//   - isGLB: true for GLB binary data
	//
	// Returns:
	//   - *Asset: the imported tracks and hierarchy
	//   - error: error if parsing or extraction fails
	ImportReader(name string, r io.Reader, isGLB bool) (*Asset, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*Asset, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return imp.importFromParser(parser, base)
}

func (imp *gltfImporterImpl) ImportReader(name string, r io.Reader, isGLB bool) (*Asset, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importFromParser(parser, name)
}

func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackName string) (*Asset, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	name := gltfExtractAssetName(doc, fallbackName)

	tracks, err := newGLTFAnimationExtractor(parser).ExtractAllTracks()
	if err != nil {
		return nil, fmt.Errorf("animation extraction failed: %w", err)
	}
	hierarchy, err := gltfExtractHierarchy(doc, name)
	if err != nil {
		return nil, fmt.Errorf("hierarchy extraction failed: %w", err)
	}

	return &Asset{Name: name, Tracks: tracks, Hierarchy: hierarchy}, nil
}

// gltfExtractAssetName prefers the default scene's name, then the fallback.
func gltfExtractAssetName(doc *gltfDocument, fallback string) string {
	var sceneName string
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		sceneName = doc.Scenes[*doc.Scene].Name
	}
	return common.Coalesce(sceneName, fallback, "unnamed_asset")
}
