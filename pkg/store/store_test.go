package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/report"
)

func newReport(created time.Time) *report.Report {
	return &report.Report{
		ID:        uuid.NewString(),
		CreatedAt: created.UTC().Truncate(time.Millisecond),
		Language:  "java",
		Summary:   analyzer.Summary{Packages: 2, Cycles: 1},
		Cycles:    [][]string{{"a", "b"}},
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	base := time.Now()
	older, newer := newReport(base.Add(-time.Hour)), newReport(base)
	for _, r := range []*report.Report{older, newer} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := s.Get(ctx, older.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != older.ID || got.Summary.Cycles != 1 || len(got.Cycles) != 1 {
		t.Errorf("Get() = %+v, want %+v", got, older)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Errorf("List() = %d reports, first %v; want 2, newest first", len(list), list)
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) = %d reports, want 1", len(list))
	}

	older.Language = "go"
	if err := s.Save(ctx, older); err != nil {
		t.Fatalf("Save() replace error = %v", err)
	}
	if got, _ := s.Get(ctx, older.ID); got.Language != "go" {
		t.Errorf("Save() should replace, Language = %q", got.Language)
	}

	if err := s.Delete(ctx, older.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, older.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, older.ID); err != nil {
		t.Errorf("Delete() of missing report error = %v", err)
	}
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close(context.Background())
	testStore(t, s)
}

func TestMongo(t *testing.T) {
	uri := os.Getenv("PKGCYCLE_MONGO_URI")
	if uri == "" {
		t.Skip("PKGCYCLE_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewMongo(ctx, uri, "pkgcycle_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("NewMongo() error = %v", err)
	}
	defer func() {
		_ = s.coll.Database().Drop(ctx)
		_ = s.Close(ctx)
	}()
	testStore(t, s)
}
