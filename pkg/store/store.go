// Package store persists analysis reports so they can be fetched later by
// ID, for example through the HTTP API.
//
// # Backends
//
//   - [Memory]: process-local map, used by tests and by servers without a database
//   - [Mongo]: MongoDB collection, one document per report keyed by report ID
package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/matzehuels/pkgcycle/pkg/report"
)

// ErrNotFound is returned when no report has the requested ID.
var ErrNotFound = errors.New("report not found")

// Store saves and loads reports.
type Store interface {
	// Save stores r, replacing any report with the same ID.
	Save(ctx context.Context, r *report.Report) error

	// Get returns the report with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*report.Report, error)

	// List returns up to limit reports, newest first. A limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*report.Report, error)

	// Delete removes a report. Deleting a missing report is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases the backend.
	Close(ctx context.Context) error
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	reports map[string]*report.Report
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{reports: make(map[string]*report.Report)}
}

// Save implements Store.
func (s *Memory) Save(ctx context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return nil
}

// Get implements Store.
func (s *Memory) Get(ctx context.Context, id string) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// List implements Store.
func (s *Memory) List(ctx context.Context, limit int) ([]*report.Report, error) {
	s.mu.RLock()
	out := make([]*report.Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *report.Report) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete implements Store.
func (s *Memory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
	return nil
}

// Close implements Store.
func (s *Memory) Close(ctx context.Context) error { return nil }

var _ Store = (*Memory)(nil)
