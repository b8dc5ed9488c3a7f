package cache

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_PutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	vec := []float32{0.25, -1.5, 3}
	if err := s.Put("acme/tiny", "hello", vec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get("acme/tiny", "hello")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("dim %d: got %f, want %f", i, got[i], vec[i])
		}
	}
}

func TestSQLiteStore_MissAndModelIsolation(t *testing.T) {
	s := newTestStore(t)
	if err := s.Put("acme/tiny", "hello", []float32{1}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("acme/tiny", "other text"); ok {
		t.Error("unexpected hit for unknown text")
	}
	if _, ok, _ := s.Get("acme/other", "hello"); ok {
		t.Error("entries must be keyed by model")
	}
}

func TestSQLiteStore_ReplaceAndCount(t *testing.T) {
	s := newTestStore(t)
	_ = s.Put("m", "t", []float32{1})
	_ = s.Put("m", "t", []float32{2})
	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	got, _, _ := s.Get("m", "t")
	if got[0] != 2 {
		t.Errorf("got %v, want replaced value", got)
	}
}
