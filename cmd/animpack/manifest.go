package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Manifest lists the files packed into one resource file.
type Manifest struct {
	Assets []AssetMeta `yaml:"assets"`
	Graphs []GraphMeta `yaml:"graphs"`
}

// AssetMeta is a glTF file whose animations become stored tracks. A non-empty Prefix is
// prepended to every track name as "<prefix>/<track>".
type AssetMeta struct {
	Path   string `yaml:"path"`
	Prefix string `yaml:"prefix"`
}

// GraphMeta is an authored graph stored under Name, or under the file's base name.
type GraphMeta struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ReadManifest parses a manifest and resolves its relative paths against the manifest's
// directory.
func ReadManifest(path string) (*Manifest, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.UnmarshalStrict(contents, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range m.Assets {
		if m.Assets[i].Path == "" {
			return nil, fmt.Errorf("asset %d has no path", i)
		}
		m.Assets[i].Path = resolve(dir, m.Assets[i].Path)
	}
	for i := range m.Graphs {
		g := &m.Graphs[i]
		if g.Path == "" {
			return nil, fmt.Errorf("graph %d has no path", i)
		}
		g.Path = resolve(dir, g.Path)
		if g.Name == "" {
			base := filepath.Base(g.Path)
			g.Name = base[:len(base)-len(filepath.Ext(base))]
		}
	}
	return &m, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
