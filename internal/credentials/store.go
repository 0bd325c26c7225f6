// Package credentials holds the Blinko credentials in effect and reloads them
// when the config file changes.
package credentials

import (
	"sync/atomic"

	"github.com/starford/blinko-mcp/internal/blinko"
)

// Store is a concurrency-safe holder of the current credentials.
type Store struct {
	current atomic.Pointer[blinko.Credentials]
}

// NewStore returns a store initialised with creds.
func NewStore(creds blinko.Credentials) *Store {
	s := &Store{}
	s.Set(creds)
	return s
}

// Credentials returns the credentials in effect.
func (s *Store) Credentials() blinko.Credentials {
	return *s.current.Load()
}

// Set replaces the credentials in effect.
func (s *Store) Set(creds blinko.Credentials) {
	s.current.Store(&creds)
}
