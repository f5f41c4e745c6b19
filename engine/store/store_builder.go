package store

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

// StoreBuilderOption is a functional option for configuring a Store via Open.
type StoreBuilderOption func(*store)

// WithTimeout bounds how long Open waits for the file lock held by another process.
//
// Parameters:
//   - timeout: the lock wait, zero waits forever
//
// Returns:
//   - StoreBuilderOption: a function that applies the timeout option to a store
func WithTimeout(timeout time.Duration) StoreBuilderOption {
	return func(s *store) {
		s.boltOptions().Timeout = timeout
	}
}

// WithReadOnly opens the file with a shared lock. Put calls fail on a read-only store.
func WithReadOnly(readOnly bool) StoreBuilderOption {
	return func(s *store) {
		s.boltOptions().ReadOnly = readOnly
	}
}

// WithDebug logs every write.
func WithDebug(debug bool) StoreBuilderOption {
	return func(s *store) {
		s.debug = debug
	}
}

func (s *store) boltOptions() *bolt.Options {
	if s.options == nil {
		s.options = &bolt.Options{}
	}
	return s.options
}
