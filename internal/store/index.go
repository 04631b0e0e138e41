package store

import (
	"context"
	"fmt"
)

// Index tracks the keys of sources already processed so batch runs can
// skip them.
type Index struct {
	known map[string]bool
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{known: make(map[string]bool)}
}

// LoadIndex fills an index with every key in s.
func LoadIndex(ctx context.Context, s Store) (*Index, error) {
	keys, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: index: %w", err)
	}
	idx := NewIndex()
	for _, k := range keys {
		idx.known[k] = true
	}
	return idx, nil
}

// Contains reports whether the source's key is known.
func (x *Index) Contains(source string) bool {
	return x.known[KeyFor(source)]
}

// Add marks the source's key as known.
func (x *Index) Add(source string) {
	x.known[KeyFor(source)] = true
}

// Size returns the number of known keys.
func (x *Index) Size() int {
	return len(x.known)
}

// Filter returns the sources whose key is not in the index yet, adding
// them as it goes so a key repeated within sources is only kept once.
func (x *Index) Filter(sources []string) (fresh []string, dupes int) {
	for _, src := range sources {
		if x.Contains(src) {
			dupes++
			continue
		}
		x.Add(src)
		fresh = append(fresh, src)
	}
	return fresh, dupes
}
