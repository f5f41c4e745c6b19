package loader

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
)

// LoaderBackendType identifies the file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// Asset is an imported animation file: its tracks and the node hierarchy they target.
// Tracks are read-only and may be shared by any number of clips.
type Asset struct {
	Name      string
	Tracks    []*evaluator.Track
	Hierarchy *Hierarchy
}

// Track returns the track named name, or nil.
func (a *Asset) Track(name string) *evaluator.Track {
	for _, t := range a.Tracks {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	assetCache map[string]*Asset
	backend    loaderBackend
	debug      bool
}

// Loader imports animation assets and caches them by path or name. Loaders are safe for
// concurrent use.
type Loader interface {
	// Load imports a file and caches the result. If the path is already cached the cached
	// asset is returned. The backend is selected from the file extension.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - *Asset: the loaded asset
	//   - error: error if loading fails
	Load(path string) (*Asset, error)

	// LoadReader imports an asset from a reader and caches it by name.
	//
	// Parameters:
	//   - name: the cache key and fallback asset name
	//   - r: the reader providing the document
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *Asset: the loaded asset
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*Asset, error)

	// Get retrieves a cached asset by key. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Asset: the cached asset or nil
	Get(name string) *Asset

	// Assets returns a copy of the cache.
	//
	// Returns:
	//   - map[string]*Asset: all cached assets keyed by path or name
	Assets() map[string]*Asset
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		assetCache: make(map[string]*Asset),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*Asset, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	asset, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, asset), nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (*Asset, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	asset, err := l.backend.LoadReader(name, r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, asset), nil
}

// store caches asset under key unless a concurrent load got there first.
func (l *loader) store(key string, asset *Asset) *Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.assetCache[key]; ok {
		return cached
	}
	l.assetCache[key] = asset
	if l.debug {
		log.Printf("[Loader] loaded %q: %d tracks, %d nodes", key, len(asset.Tracks), len(asset.Hierarchy.Nodes()))
	}
	return asset
}

func (l *loader) Get(name string) *Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assetCache[name]
}

func (l *loader) Assets() map[string]*Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Asset, len(l.assetCache))
	for k, v := range l.assetCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported animation format: %s", ext)
	}
}
