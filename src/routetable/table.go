// Package routetable implements the Route Table: an ordered multimap from
// Network Prefix to owning Port Index, rebuilt on demand from a
// port.Registry and cached until something invalidates it.
package routetable

import (
	"sort"
	"sync"

	"github.com/HackLinux/freelan-all/src/address"
	"github.com/HackLinux/freelan-all/src/port"
)

// Entry is one (prefix, owning port index) pair in the Route Table.
type Entry struct {
	Prefix address.Prefix
	Port   port.Index
}

// registrySource is the subset of *port.Registry the table needs; defined
// as an interface so tests can substitute a fake registry.
type registrySource interface {
	Iter() []port.Entry
}

// Table is the derived, cached Route Table. A Table is safe for concurrent
// use: EachMatch and Invalidate may be called from any goroutine, though in
// practice a Router confines all calls to its own actor mailbox.
type Table struct {
	registry registrySource

	mu           sync.Mutex
	dirty        bool
	entries      []Entry
	rebuildCount int // observability/testing: counts actual rebuilds, not Invalidate calls
}

// New returns a Table derived from registry. The table starts dirty, so the
// first call to EachMatch or Snapshot triggers the initial build.
func New(registry registrySource) *Table {
	return &Table{registry: registry, dirty: true}
}

// Invalidate marks the cached table stale. Calling it any number of times
// before the next read still results in exactly one rebuild, because the
// rebuild only happens lazily, on read.
func (t *Table) Invalidate() {
	t.mu.Lock()
	t.dirty = true
	t.mu.Unlock()
}

// Snapshot returns the current entries in their native order (family
// ascending, then most-specific-prefix-first within a family), rebuilding
// first if the cache is dirty. The returned slice must not be mutated.
func (t *Table) Snapshot() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rebuildIfDirtyLocked()
	return t.entries
}

// EachMatch calls fn, in the table's native order, for every entry whose
// prefix contains dst and whose family matches dst's family. fn returning
// false stops the iteration early.
func (t *Table) EachMatch(dst address.Address, fn func(Entry) bool) {
	for _, e := range t.Snapshot() {
		if e.Prefix.Family() != dst.Family() {
			continue
		}
		if !e.Prefix.Contains(dst) {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// RebuildCount reports how many times the table has actually rebuilt its
// cache, as opposed to how many times Invalidate was called. Exposed for
// tests of the idempotent-invalidation invariant.
func (t *Table) RebuildCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rebuildCount
}

func (t *Table) rebuildIfDirtyLocked() {
	if !t.dirty {
		return
	}

	var entries []Entry
	for _, portEntry := range t.registry.Iter() {
		seen := make(map[address.Prefix]bool)
		for _, prefix := range portEntry.Port.LocalRoutes() {
			if seen[prefix] {
				// Duplicate prefixes advertised by the same port collapse
				// to a single entry.
				continue
			}
			seen[prefix] = true
			entries = append(entries, Entry{Prefix: prefix, Port: portEntry.Index})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Prefix.Less(entries[j].Prefix)
	})

	t.entries = entries
	t.dirty = false
	t.rebuildCount++
}
