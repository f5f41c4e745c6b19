package loader

import (
	"io"
)

// loaderBackend defines the generic interface for importing animation assets from files or
// streams. Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports the tracks and node hierarchy of the file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *Asset: the imported asset
	//   - error: error if loading fails
	Load(path string) (*Asset, error)

	// LoadReader imports an asset from a reader stream.
	//
	// Parameters:
	//   - name: the fallback asset name
	//   - r: the reader providing the document
	//   - isGLB: true if the reader provides GLB binary data, false for text-based formats
	//
	// Returns:
	//   - *Asset: the imported asset
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*Asset, error)
}
