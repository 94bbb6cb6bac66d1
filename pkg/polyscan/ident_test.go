package polyscan

import "testing"

func TestRegistryHashConsing(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Alloc("i", nil)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	b, err := reg.Alloc("i", nil)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if a != b {
		t.Fatal("equal (name, payload) allocations must return the same handle")
	}
	if reg.Len() != 1 {
		t.Fatalf("registry holds %d handles, want 1", reg.Len())
	}

	c, err := reg.Alloc("j", nil)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if c == a {
		t.Fatal("distinct names must not share a handle")
	}
	if reg.Len() != 2 {
		t.Fatalf("registry holds %d handles, want 2", reg.Len())
	}
}

func TestRegistryPayloadDistinguishes(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Alloc("i", 1)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	b, err := reg.Alloc("i", 2)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if a == b {
		t.Fatal("same name with different payloads must not share a handle")
	}
	if a.Payload() != 1 || b.Payload() != 2 {
		t.Fatalf("payloads = %v, %v, want 1, 2", a.Payload(), b.Payload())
	}
}

func TestRegistryRefCounting(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Alloc("i", nil)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	a.Copy()       // refs = 2
	reg.Alloc("i", nil) // refs = 3

	a.Free()
	a.Free()
	if reg.Len() != 1 {
		t.Fatalf("handle freed too early: registry holds %d, want 1", reg.Len())
	}
	a.Free()
	if reg.Len() != 0 {
		t.Fatalf("handle not released: registry holds %d, want 0", reg.Len())
	}

	// A fresh allocation after release is a new interning.
	b, err := reg.Alloc("i", nil)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if b == nil {
		t.Fatal("re-allocation after release returned nil")
	}
}

func TestRegistryFreeCallback(t *testing.T) {
	reg := NewRegistry()
	released := false
	id, err := reg.Alloc("buf", "payload")
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	id.SetFreeFunc(func(p any) {
		if p != "payload" {
			t.Fatalf("release callback got %v, want payload", p)
		}
		released = true
	})
	id.Copy()
	id.Free()
	if released {
		t.Fatal("callback ran while references remain")
	}
	id.Free()
	if !released {
		t.Fatal("callback did not run on last release")
	}
}

func TestRegistryAllocValidation(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Alloc("", nil); err == nil {
		t.Fatal("Alloc without name or payload should fail")
	}
}

func TestNoIDSentinel(t *testing.T) {
	if NoID.Copy() != NoID {
		t.Fatal("Copy of the sentinel must return the sentinel unchanged")
	}
	NoID.Free() // must be a no-op
	if NoID.Name() != "" {
		t.Fatalf("sentinel Name() = %q, want empty", NoID.Name())
	}
	if NoID.String() != "#none" {
		t.Fatalf("sentinel String() = %q, want #none", NoID.String())
	}
	NoID.SetFreeFunc(func(any) { t.Fatal("sentinel must not take a free func") })
	NoID.Free()
}

func TestAnonymousID(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Alloc("", 42)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if a.Name() != "" {
		t.Fatalf("anonymous id Name() = %q, want empty", a.Name())
	}
	if a.String() != "@42" {
		t.Fatalf("anonymous id String() = %q, want @42", a.String())
	}
	b, err := reg.Alloc("", 42)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if a != b {
		t.Fatal("anonymous ids with equal payloads must share a handle")
	}
}
