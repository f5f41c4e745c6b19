// Command animpack imports glTF animations and authored state graphs into a single
// resource file that the runtime can open with engine/store.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
	"github.com/Carmen-Shannon/oxy-anim/engine/anim/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
	"github.com/Carmen-Shannon/oxy-anim/engine/store"
)

var (
	manifestPath     string
	resourceFilePath string
	debug            bool
)

func parseFlags() {
	flag.StringVar(&manifestPath, "manifest", "./manifest.yml",
		"Path to the manifest listing glTF files and graphs.")
	flag.StringVar(&resourceFilePath, "out", "./anim.res",
		"Resource file to store tracks and graphs.")
	flag.BoolVar(&debug, "debug", false, "Log every stored item.")

	flag.Parse()
}

func main() {
	parseFlags()

	manifest, err := ReadManifest(manifestPath)
	handleError(err)
	handleError(pack(manifest, resourceFilePath, debug))
}

// pack writes every track and graph of m into the resource file at out.
func pack(m *Manifest, out string, debug bool) error {
	resourceFile, err := store.Open(out, store.WithDebug(debug))
	if err != nil {
		return err
	}
	defer resourceFile.Close()

	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithDebug(debug))
	tracks := 0
	for _, meta := range m.Assets {
		asset, err := l.Load(meta.Path)
		if err != nil {
			return err
		}
		for _, track := range asset.Tracks {
			if meta.Prefix != "" {
				if track, err = renameTrack(track, meta.Prefix+"/"+track.Name()); err != nil {
					return err
				}
			}
			if err := resourceFile.PutTrack(track); err != nil {
				return fmt.Errorf("%s: %w", meta.Path, err)
			}
			tracks++
		}
	}

	for _, meta := range m.Graphs {
		g, err := graph.DecodeFile(meta.Path)
		if err != nil {
			return err
		}
		if err := resourceFile.PutGraph(meta.Name, g); err != nil {
			return fmt.Errorf("%s: %w", meta.Path, err)
		}
	}

	log.Printf("[AnimPack] wrote %d tracks and %d graphs to %s", tracks, len(m.Graphs), out)
	return nil
}

func renameTrack(t *evaluator.Track, name string) (*evaluator.Track, error) {
	return evaluator.NewTrack(name, t.Duration(), t.Inputs(), t.Outputs(), t.Curves(), t.Events())
}

func handleError(err error) {
	if err != nil {
		log.Fatalf("[AnimPack] %v", err)
	}
}
