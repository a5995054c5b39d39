package store

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/matzehuels/jarlens/pkg/fsutil"
)

// persister is the part of a table the Store drives generically.
type persister interface {
	label() string
	load(dir string) error
	save(dir string) (bool, error)
	reset()
	len() int
}

// table is one keyed store: an in-memory map mirrored to disk.
//
// Flat tables persist as a single <name>.json object. Sharded tables persist
// as <name>/index.json (key → file) plus one file per entry, so a single large
// entry never forces rewriting the others.
type table[V any] struct {
	name    string
	sharded bool

	mu      sync.RWMutex
	entries map[string]V
	changed map[string]struct{}
	dirty   bool
}

func newTable[V any](name string, sharded bool) *table[V] {
	return &table[V]{
		name:    name,
		sharded: sharded,
		entries: make(map[string]V),
		changed: make(map[string]struct{}),
	}
}

func (t *table[V]) label() string { return t.name }

func (t *table[V]) get(key string) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[key]
	return v, ok
}

func (t *table[V]) set(key string, v V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[key] = v
	t.changed[key] = struct{}{}
	t.dirty = true
}

func (t *table[V]) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]V)
	t.changed = make(map[string]struct{})
	t.dirty = false
}

func (t *table[V]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// load replaces the in-memory entries with the snapshot under dir.
// A missing snapshot is an empty table, not an error.
func (t *table[V]) load(dir string) error {
	if t.sharded {
		return t.loadSharded(dir)
	}
	data, err := os.ReadFile(filepath.Join(dir, t.name+".json"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	entries := make(map[string]V)
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%s snapshot corrupt: %w", t.name, err)
	}
	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
	return nil
}

func (t *table[V]) loadSharded(dir string) error {
	base := filepath.Join(dir, t.name)
	data, err := os.ReadFile(filepath.Join(base, indexFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var index map[string]string
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("%s index corrupt: %w", t.name, err)
	}

	entries := make(map[string]V, len(index))
	var skipped int
	for key, file := range index {
		raw, err := os.ReadFile(filepath.Join(base, filepath.Base(file)))
		if err != nil {
			skipped++
			continue
		}
		var rec shard[V]
		if err := json.Unmarshal(raw, &rec); err != nil || rec.Key != key {
			skipped++
			continue
		}
		entries[key] = rec.Value
	}

	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
	if skipped > 0 {
		return fmt.Errorf("%s: skipped %d unreadable entries", t.name, skipped)
	}
	return nil
}

// save writes the table if it changed since the last save. It reports
// whether anything was written.
func (t *table[V]) save(dir string) (bool, error) {
	t.mu.Lock()
	if !t.dirty {
		t.mu.Unlock()
		return false, nil
	}
	entries := maps.Clone(t.entries)
	changed := t.changed
	t.changed = make(map[string]struct{})
	t.dirty = false
	t.mu.Unlock()

	var err error
	if t.sharded {
		err = t.saveSharded(dir, entries, changed)
	} else {
		err = t.saveFlat(dir, entries)
	}
	if err != nil {
		t.mu.Lock()
		t.dirty = true
		for k := range changed {
			t.changed[k] = struct{}{}
		}
		t.mu.Unlock()
		return false, err
	}
	return true, nil
}

func (t *table[V]) saveFlat(dir string, entries map[string]V) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(filepath.Join(dir, t.name+".json"), data, 0o644)
}

func (t *table[V]) saveSharded(dir string, entries map[string]V, changed map[string]struct{}) error {
	base := filepath.Join(dir, t.name)
	for key := range changed {
		v, ok := entries[key]
		if !ok {
			continue
		}
		data, err := json.Marshal(shard[V]{Key: key, Value: v})
		if err != nil {
			return err
		}
		if err := fsutil.WriteFileAtomic(filepath.Join(base, shardFile(key)), data, 0o644); err != nil {
			return err
		}
	}

	index := make(map[string]string, len(entries))
	for key := range entries {
		index[key] = shardFile(key)
	}
	data, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(filepath.Join(base, indexFile), data, 0o644)
}

const indexFile = "index.json"

// shard is the on-disk form of one sharded entry. The key is stored so a
// hash collision or a stale file is detected on load.
type shard[V any] struct {
	Key   string `json:"key"`
	Value V      `json:"value"`
}

func shardFile(key string) string {
	return fmt.Sprintf("%016x.json", xxh3.HashString(key))
}
