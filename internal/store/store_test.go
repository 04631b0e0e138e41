package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"stepline/internal/procgraph"
)

func sampleRecord(key string) *Record {
	return &Record{
		Key:       key,
		Source:    "/exports/" + key + ".csv",
		RunID:     "7c1f3a52-0c5e-4b8e-9d59-3b8b6f0d2a11",
		CreatedAt: time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
		NodeCount: 12,
		Steps: []procgraph.Step{
			{BlockID: "1", Role: "Clerk", ObjectName: "A on SYS1", Next: "B", ApplicationSystem: "SYS1",
				Rows: procgraph.RowSpan{Start: 3, End: 11}},
			{BlockID: "2", Previous: "A", ObjectName: "B on SYS2", ApplicationSystem: "SYS2"},
		},
		Applications: []string{"SYS1", "SYS2"},
	}
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "files"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	sq, err := OpenSQL(filepath.Join(t.TempDir(), "db", DBName))
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	all := map[string]Store{"file": fs, "sqlite": sq, "memory": NewMemStore()}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestStore_SaveLoadList(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"order_to_cash", "invoice"} {
				if err := s.Save(ctx, sampleRecord(key)); err != nil {
					t.Fatalf("Save(%s): %v", key, err)
				}
			}

			keys, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if diff := cmp.Diff([]string{"invoice", "order_to_cash"}, keys); diff != "" {
				t.Errorf("keys mismatch (-want +got):\n%s", diff)
			}

			got, err := s.Load(ctx, "invoice")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(sampleRecord("invoice"), got); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save(ctx, sampleRecord("p")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			r := sampleRecord("p")
			r.RunID = "second"
			r.Steps = r.Steps[:1]
			if err := s.Save(ctx, r); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := s.Load(ctx, "p")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.RunID != "second" || len(got.Steps) != 1 {
				t.Errorf("Load = %+v, want replaced record", got)
			}
			keys, _ := s.List(ctx)
			if len(keys) != 1 {
				t.Errorf("List = %v, want one key", keys)
			}
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load(ctx, "nope"); !errors.Is(err, ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_RejectsKeylessRecord(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save(ctx, &Record{Source: "x.csv"}); err == nil {
				t.Error("Save without key should fail")
			}
		})
	}
}

func TestFileStore_ConcurrentSaves(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := sampleRecord("shared")
			r.NodeCount = i
			errs <- s.Save(ctx, r)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"shared"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Load(ctx, "shared"); err != nil {
		t.Errorf("Load after concurrent saves: %v", err)
	}
}

func TestSqlStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), DBName)
	s, err := OpenSQL(path)
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	if err := s.Save(context.Background(), sampleRecord("kept")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_ = s.Close()

	s, err = OpenSQL(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Load(context.Background(), "kept"); err != nil {
		t.Errorf("Load after reopen: %v", err)
	}
}

func TestOpen_Drivers(t *testing.T) {
	for _, driver := range []string{"file", "sqlite", "memory"} {
		s, err := Open(driver, t.TempDir())
		if err != nil {
			t.Errorf("Open(%s): %v", driver, err)
			continue
		}
		_ = s.Close()
	}
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Error("Open(redis) should fail")
	}
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/exports/Order to Cash.csv", "Order_to_Cash"},
		{"invoice.xlsx", "invoice"},
		{"Prüfung (v2).csv", "Pr_fung_v2_"},
		{"plain", "plain"},
		{".csv", "_"},
	}
	for _, tt := range tests {
		if got := KeyFor(tt.in); got != tt.want {
			t.Errorf("KeyFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIndex_Filter(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	if err := s.Save(ctx, sampleRecord("done")); err != nil {
		t.Fatal(err)
	}
	idx, err := LoadIndex(ctx, s)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}

	fresh, dupes := idx.Filter([]string{"in/done.csv", "in/new.csv", "other/new.csv"})
	if diff := cmp.Diff([]string{"in/new.csv"}, fresh); diff != "" {
		t.Errorf("fresh mismatch (-want +got):\n%s", diff)
	}
	if dupes != 2 {
		t.Errorf("dupes = %d, want 2", dupes)
	}
	if idx.Size() != 2 {
		t.Errorf("Size() = %d, want 2", idx.Size())
	}
}
