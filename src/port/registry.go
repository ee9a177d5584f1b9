package port

import (
	"sort"
	"sync"
)

// Registry is the authoritative map from Index to Port. Reads (Lookup,
// Iter) go through a lock-free atomic snapshot; writes (Register,
// Deregister) replace the whole snapshot copy-on-write. This
// keeps Lookup and Iter callable from any goroutine without blocking on a
// writer, which matters because the Router may be invoked concurrently by
// many port goroutines even though it serialises their effects internally.
type Registry struct {
	mu    sync.Mutex // serialises writers only; readers never take it
	ports atomicPortMap
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.ports.store(map[Index]Port{})
	return r
}

// Register adds p to the registry under the lowest Index not currently in
// use and returns that index.
func (r *Registry) Register(p Port) Index {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.ports.load()
	next := make(map[Index]Port, len(old)+1)
	for k, v := range old {
		next[k] = v
	}

	var idx Index
	for i := Index(0); ; i++ {
		if _, used := next[i]; !used {
			idx = i
			break
		}
	}
	next[idx] = p
	r.ports.store(next)
	return idx
}

// Deregister removes idx from the registry. It reports whether a port was
// actually present. The caller (the Router) is responsible for ensuring any
// writes in flight on the removed port complete or are cancelled; the
// registry itself holds no reference to in-flight work.
func (r *Registry) Deregister(idx Index) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.ports.load()
	if _, ok := old[idx]; !ok {
		return false
	}

	next := make(map[Index]Port, len(old)-1)
	for k, v := range old {
		if k != idx {
			next[k] = v
		}
	}
	r.ports.store(next)
	return true
}

// Lookup returns the port registered under idx, if any.
func (r *Registry) Lookup(idx Index) (Port, bool) {
	p, ok := r.ports.load()[idx]
	return p, ok
}

// Entry pairs an Index with the Port registered under it.
type Entry struct {
	Index Index
	Port  Port
}

// Iter returns every registered (Index, Port) pair in ascending index
// order, giving deterministic iteration.
func (r *Registry) Iter() []Entry {
	snapshot := r.ports.load()
	entries := make([]Entry, 0, len(snapshot))
	for idx, p := range snapshot {
		entries = append(entries, Entry{Index: idx, Port: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	return entries
}
