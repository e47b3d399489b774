package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"nagapos/internal/domain"
)

// ErrNoDocument is returned by a Backend when nothing has been persisted yet.
var ErrNoDocument = errors.New("document does not exist")

// Backend persists the serialized document. Write must replace the previous
// body atomically: a concurrent Read sees either the old or the new body.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, body []byte) error
}

// Store owns the single JSON document. Every read goes to the backend so
// writes made by another process are picked up. Writers in this process are
// serialized by mu.
type Store struct {
	backend Backend
	now     func() time.Time
	seed    func() domain.Document
	mu      sync.Mutex
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithSeed(seed func() domain.Document) Option {
	return func(s *Store) { s.seed = seed }
}

// Open reads the current document from backend, writing the seed document
// first if none exists.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		now:     time.Now,
		seed:    SeedDocument,
	}
	for _, opt := range opts {
		opt(s)
	}

	body, err := backend.Read(ctx)
	if errors.Is(err, ErrNoDocument) {
		if err := s.Save(ctx, s.seed()); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "read", Err: err}
	}
	if _, err := decodeDocument(body); err != nil {
		return nil, &domain.StorageError{Op: "decode", Err: err}
	}
	return s, nil
}

// Load returns the document as currently persisted.
func (s *Store) Load(ctx context.Context) (domain.Document, error) {
	return s.read(ctx)
}

func (s *Store) Save(ctx context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, doc)
}

// Update re-reads the persisted document, runs fn against it and writes the
// result. Nothing is written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(*domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return s.saveLocked(ctx, doc)
}

// read falls back to the seed document when the backend has been emptied
// since Open.
func (s *Store) read(ctx context.Context) (domain.Document, error) {
	body, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNoDocument) {
		return s.seed(), nil
	}
	if err != nil {
		return domain.Document{}, &domain.StorageError{Op: "read", Err: err}
	}
	doc, err := decodeDocument(body)
	if err != nil {
		return domain.Document{}, &domain.StorageError{Op: "decode", Err: err}
	}
	return doc, nil
}

func (s *Store) saveLocked(ctx context.Context, doc domain.Document) error {
	doc = doc.Clone()
	doc.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "encode", Err: err}
	}
	if err := s.backend.Write(ctx, body); err != nil {
		return &domain.StorageError{Op: "write", Err: err}
	}
	return nil
}

func decodeDocument(body []byte) (domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("parse document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}
