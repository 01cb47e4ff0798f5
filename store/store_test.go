package store

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
)

func newStores(t *testing.T) []core.Store {
	t.Helper()

	mem := NewMemoryStore()
	bdg, err := OpenBadgerStore("")
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	t.Cleanup(func() {
		_ = mem.Close()
		_ = bdg.Close()
	})
	return []core.Store{mem, bdg}
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	for _, s := range newStores(t) {
		t.Run(s.Name(), func(t *testing.T) {
			if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
				t.Fatalf("Get(missing) error = %v, want not found", err)
			}

			if err := s.Set(ctx, "k", []byte("v")); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := s.Get(ctx, "k")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != "v" {
				t.Errorf("Get() = %q, want %q", got, "v")
			}

			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
				t.Errorf("Get() after Delete error = %v, want not found", err)
			}
		})
	}
}

func TestStore_Batch(t *testing.T) {
	ctx := context.Background()
	for _, s := range newStores(t) {
		t.Run(s.Name(), func(t *testing.T) {
			kvs := map[string][]byte{
				"a": []byte("1"),
				"b": []byte("2"),
			}
			if err := s.BatchSet(ctx, kvs, 60); err != nil {
				t.Fatalf("BatchSet() error = %v", err)
			}

			got, err := s.BatchGet(ctx, []string{"a", "b", "c"})
			if err != nil {
				t.Fatalf("BatchGet() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("BatchGet() returned %d keys, want 2", len(got))
			}
			if string(got["a"]) != "1" || string(got["b"]) != "2" {
				t.Errorf("BatchGet() = %v", got)
			}
			if _, ok := got["c"]; ok {
				t.Errorf("BatchGet() returned absent key c")
			}
		})
	}
}

func TestMemoryStore_Expired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	s.data["old"] = &entry{value: []byte("x")}
	s.data["old"].expire = s.data["old"].expire.AddDate(1, 0, 0) // year 2, long past

	if _, err := s.Get(ctx, "old"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(expired) error = %v, want not found", err)
	}
	if n := s.Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}
