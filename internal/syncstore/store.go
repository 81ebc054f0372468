// Package syncstore keeps the most recent client sync blob in memory.
package syncstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmpty is returned by Get before anything has been stored.
	ErrEmpty = errors.New("sync store is empty")
	// ErrInvalidPayload indicates the value is not a single JSON document.
	ErrInvalidPayload = errors.New("invalid sync payload")
)

// Snapshot is the stored value together with its revision metadata.
type Snapshot struct {
	Revision  string          `json:"revision"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Data      json.RawMessage `json:"-"`
}

// Store is a single-slot, last-write-wins holder for one JSON value.
// The zero value is ready to use.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Put replaces the stored value. The payload is kept verbatim; it is only
// checked to be well-formed JSON.
func (s *Store) Put(data []byte) (Snapshot, error) {
	if !json.Valid(data) {
		return Snapshot{}, fmt.Errorf("%w: body is not valid JSON", ErrInvalidPayload)
	}

	snap := Snapshot{
		Revision:  uuid.NewString(),
		UpdatedAt: s.clock().UTC(),
		Data:      append(json.RawMessage(nil), data...),
	}

	s.mu.Lock()
	s.current = &snap
	s.mu.Unlock()
	return snap, nil
}

// Get returns the last stored snapshot.
func (s *Store) Get() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Snapshot{}, ErrEmpty
	}
	snap := *s.current
	snap.Data = append(json.RawMessage(nil), s.current.Data...)
	return snap, nil
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
