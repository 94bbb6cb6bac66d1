// This file implements the identifier registry: hash-consed, reference-
// counted handles used to label dimensions. Two allocations with the same
// name and payload in one registry return the same handle, so handle
// equality is pointer equality. The registry is independent of the
// scanning core; the scanners never consult it.

package polyscan

import (
	"fmt"
	"sync"
)

// idKind distinguishes the identifier variants. The None sentinel is its
// own kind, so the rule that it is never counted, mutated, or freed is
// structural rather than a special refcount encoding.
type idKind int

const (
	idNamed idKind = iota
	idAnonymous
	idNone
)

// ID is a shared identifier handle. Handles from one registry with equal
// name and payload are pointer-identical; compare them with ==.
type ID struct {
	kind    idKind
	name    string
	payload any
	refs    int
	freeFn  func(payload any)
	reg     *Registry
}

// NoID is the distinguished "no identifier" sentinel. Copy and Free are
// no-ops on it and it belongs to no registry.
var NoID = &ID{kind: idNone, name: "#none"}

type idKey struct {
	name    string
	payload any
}

// Registry interns identifier handles. The zero value is not usable;
// create registries with NewRegistry. Safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	table map[idKey]*ID
}

// NewRegistry creates an empty identifier registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[idKey]*ID)}
}

// Alloc returns the handle for (name, payload), creating it on first use
// and incrementing its share count on every later one. At least one of
// name and payload must be set; the payload must be comparable, as it
// participates in the hash-consing key.
func (r *Registry) Alloc(name string, payload any) (*ID, error) {
	if name == "" && payload == nil {
		return nil, fmt.Errorf("Alloc: identifier needs a name or a payload")
	}
	key := idKey{name: name, payload: payload}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.table[key]; ok {
		id.refs++
		return id, nil
	}
	kind := idNamed
	if name == "" {
		kind = idAnonymous
	}
	id := &ID{kind: kind, name: name, payload: payload, refs: 1, reg: r}
	r.table[key] = id
	return id, nil
}

// Len returns the number of live interned identifiers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.table)
}

// Copy returns the handle with its share count incremented. Copying the
// None sentinel (or a nil handle) is a no-op.
func (id *ID) Copy() *ID {
	if id == nil || id.kind == idNone {
		return id
	}
	id.reg.mu.Lock()
	defer id.reg.mu.Unlock()
	id.refs++
	return id
}

// Free decrements the share count. When it reaches zero the handle is
// removed from its registry and the payload release callback, if any, is
// invoked. Freeing the None sentinel (or a nil handle) is a no-op.
func (id *ID) Free() {
	if id == nil || id.kind == idNone {
		return
	}
	id.reg.mu.Lock()
	id.refs--
	last := id.refs == 0
	if last {
		delete(id.reg.table, idKey{name: id.name, payload: id.payload})
	}
	id.reg.mu.Unlock()
	if last && id.freeFn != nil {
		id.freeFn(id.payload)
	}
}

// SetFreeFunc installs a release callback invoked on the payload when the
// handle's share count drops to zero. Returns the handle for chaining.
// A no-op on the None sentinel.
func (id *ID) SetFreeFunc(f func(payload any)) *ID {
	if id == nil || id.kind == idNone {
		return id
	}
	id.freeFn = f
	return id
}

// Name returns the identifier's name, or "" for anonymous identifiers.
func (id *ID) Name() string {
	if id == nil {
		return ""
	}
	if id.kind == idNone {
		return ""
	}
	return id.name
}

// Payload returns the user payload attached at allocation.
func (id *ID) Payload() any {
	if id == nil {
		return nil
	}
	return id.payload
}

// String renders the name, with the payload appended for anonymous or
// payload-carrying identifiers.
func (id *ID) String() string {
	if id == nil {
		return "<nil>"
	}
	switch id.kind {
	case idNone:
		return "#none"
	case idAnonymous:
		return fmt.Sprintf("@%v", id.payload)
	default:
		if id.payload != nil {
			return fmt.Sprintf("%s@%v", id.name, id.payload)
		}
		return id.name
	}
}
