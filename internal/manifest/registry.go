package manifest

import (
	"fmt"
	"sync"
)

// ConflictError means a registry key was inserted twice with different
// download descriptors. Marketplace versions are immutable once published,
// so this signals tampering or a version collision and is fatal for a run.
type ConflictError struct {
	Key      Key
	Existing Entry
	Incoming Entry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("registry conflict for %s: %+v does not match existing %+v", e.Key, e.Incoming, e.Existing)
}

// Registry is the deduplicated global table mapping registry keys to
// download descriptors. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key]Entry)}
}

// Insert adds an entry. Re-inserting an identical entry is a no-op;
// inserting a different entry under an existing key is a *ConflictError.
func (r *Registry) Insert(key Key, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[key]; ok {
		if existing != entry {
			return &ConflictError{Key: key, Existing: existing, Incoming: entry}
		}
		return nil
	}
	r.entries[key] = entry
	return nil
}

// Merge inserts every entry of m, stopping at the first conflict.
func (r *Registry) Merge(m map[Key]Entry) error {
	for key, entry := range m {
		if err := r.Insert(key, entry); err != nil {
			return err
		}
	}
	return nil
}

// Get looks up an entry.
func (r *Registry) Get(key Key) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[key]
	return entry, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot returns a copy of the registry contents.
func (r *Registry) Snapshot() map[Key]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Key]Entry, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Prune drops every entry whose key is not in used. Manifests are the only
// consumers of registry keys, so anything unreferenced is dead weight.
func (r *Registry) Prune(used map[Key]struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.entries {
		if _, ok := used[key]; !ok {
			delete(r.entries, key)
		}
	}
}
