package store

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
	"github.com/Carmen-Shannon/oxy-anim/engine/anim/graph"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketTracks = []byte("tracks")
	bucketGraphs = []byte("graphs")
)

// ErrNotFound is returned when a key is absent from the store.
var ErrNotFound = errors.New("not found")

// store is the implementation of the Store interface.
type store struct {
	db      *bolt.DB
	options *bolt.Options
	debug   bool
}

// Store is a resource file holding imported tracks and authored graphs. It is safe for
// concurrent use; writes are serialized by the underlying database.
type Store interface {
	// PutTrack writes track under its name, replacing any previous track of that name.
	//
	// Parameters:
	//   - track: the track to store
	//
	// Returns:
	//   - error: error if encoding or writing fails
	PutTrack(track *evaluator.Track) error

	// Track reads the track stored under name.
	//
	// Parameters:
	//   - name: the track name
	//
	// Returns:
	//   - *evaluator.Track: a freshly decoded track
	//   - error: ErrNotFound if absent, or a decode error
	Track(name string) (*evaluator.Track, error)

	// Tracks lists the stored track names in ascending order.
	//
	// Returns:
	//   - []string: the names
	//   - error: error if the read fails
	Tracks() ([]string, error)

	// PutGraph validates g and writes it under name.
	//
	// Parameters:
	//   - name: the graph key
	//   - g: the graph to store
	//
	// Returns:
	//   - error: a validation error or a write error
	PutGraph(name string, g *graph.Graph) error

	// Graph reads the graph stored under name.
	//
	// Parameters:
	//   - name: the graph key
	//
	// Returns:
	//   - *graph.Graph: the decoded graph
	//   - error: ErrNotFound if absent, or a decode error
	Graph(name string) (*graph.Graph, error)

	// Graphs lists the stored graph names in ascending order.
	//
	// Returns:
	//   - []string: the names
	//   - error: error if the read fails
	Graphs() ([]string, error)

	// Close releases the database file.
	Close() error
}

var _ Store = &store{}

// Open opens or creates the resource file at path.
//
// Parameters:
//   - path: the database file
//   - options: a variadic list of StoreBuilderOption functions
//
// Returns:
//   - Store: the opened store
//   - error: error if the file cannot be opened or initialized
func Open(path string, options ...StoreBuilderOption) (Store, error) {
	s := &store{}
	for _, option := range options {
		option(s)
	}

	db, err := bolt.Open(path, 0666, s.options)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	s.db = db

	if s.options == nil || !s.options.ReadOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			for _, name := range [][]byte{bucketTracks, bucketGraphs} {
				if _, err := tx.CreateBucketIfNotExists(name); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize store %s: %w", path, err)
		}
	}

	if s.debug {
		log.Printf("[Store] opened %s", path)
	}
	return s, nil
}

func (s *store) PutTrack(track *evaluator.Track) error {
	data, err := encodeTrack(track)
	if err != nil {
		return err
	}
	if err := s.put(bucketTracks, track.Name(), data); err != nil {
		return err
	}
	if s.debug {
		log.Printf("[Store] wrote track %q (%d bytes)", track.Name(), len(data))
	}
	return nil
}

func (s *store) Track(name string) (*evaluator.Track, error) {
	data, err := s.get(bucketTracks, name)
	if err != nil {
		return nil, err
	}
	return decodeTrack(data)
}

func (s *store) Tracks() ([]string, error) {
	return s.keys(bucketTracks)
}

func (s *store) PutGraph(name string, g *graph.Graph) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("graph %q: %w", name, err)
	}
	data, err := graph.Marshal(g, graph.FormatJSON)
	if err != nil {
		return fmt.Errorf("failed to encode graph %q: %w", name, err)
	}
	if err := s.put(bucketGraphs, name, data); err != nil {
		return err
	}
	if s.debug {
		log.Printf("[Store] wrote graph %q (%d layers)", name, len(g.Layers))
	}
	return nil
}

func (s *store) Graph(name string) (*graph.Graph, error) {
	data, err := s.get(bucketGraphs, name)
	if err != nil {
		return nil, err
	}
	g, err := graph.Unmarshal(data, graph.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("graph %q: %w", name, err)
	}
	return g, nil
}

func (s *store) Graphs() ([]string, error) {
	return s.keys(bucketGraphs)
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) put(bucket []byte, key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucket)
		if buck == nil {
			return fmt.Errorf("the %s bucket not found", bucket)
		}
		return buck.Put([]byte(key), value)
	})
}

// get copies the value out of the transaction; bbolt memory is only valid inside it.
func (s *store) get(bucket []byte, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucket)
		if buck == nil {
			return fmt.Errorf("the %s bucket not found", bucket)
		}
		v := buck.Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%s %q: %w", bucket, key, ErrNotFound)
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (s *store) keys(bucket []byte) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucket)
		if buck == nil {
			return nil
		}
		return buck.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
