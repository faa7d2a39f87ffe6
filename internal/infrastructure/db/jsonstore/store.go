// Package jsonstore persists named JSON documents (users, token balances,
// reports) and builds the repositories on top of them.
//
// Every document is loaded and saved as a whole. A missing or corrupt document
// reads as the caller's default. Mutations go through Update, which serialises
// read-modify-write cycles per document so concurrent writers cannot lose each
// other's changes.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned by a Backend when the named document does not exist.
var ErrNotFound = errors.New("document not found")

// Backend reads and replaces raw documents. Write must be atomic: a concurrent
// Read observes either the old or the new document, never a partial one.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Ping(ctx context.Context) error
}

// Store adds typed access and per-document locking on top of a Backend.
type Store struct {
	backend Backend
	log     zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(backend Backend, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Load returns the named document, or newDefault() when it is absent, null or
// cannot be decoded. Read errors other than absence are logged and also yield the default.
func Load[T any](ctx context.Context, s *Store, name string, newDefault func() T) T {
	raw, err := s.backend.Read(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("document", name).Msg("document read failed, using default")
		}
		return newDefault()
	}

	// A literal null would decode maps and slices to nil.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		s.log.Warn().Str("document", name).Msg("document is null, using default")
		return newDefault()
	}

	doc := newDefault()
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn().Err(err).Str("document", name).Msg("document is corrupt, using default")
		return newDefault()
	}
	return doc
}

// Save replaces the named document.
func Save[T any](ctx context.Context, s *Store, name string, doc T) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	return write(ctx, s, name, doc)
}

// Update loads the named document, applies fn and saves the result while holding
// the document lock. When fn returns an error nothing is written and the error
// is returned unchanged.
func Update[T any](ctx context.Context, s *Store, name string, newDefault func() T, fn func(doc *T) error) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	doc := Load(ctx, s, name, newDefault)
	if err := fn(&doc); err != nil {
		return err
	}
	return write(ctx, s, name, doc)
}

func write[T any](ctx context.Context, s *Store, name string, doc T) error {
	data, err := encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.backend.Write(ctx, name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// encode renders documents with four-space indentation and unescaped text.
func encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
