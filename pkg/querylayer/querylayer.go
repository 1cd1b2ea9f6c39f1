// Package querylayer is the memoizing layer that sits between the
// artifact/SQL pipeline and the orchestrating analysis engine. An Input
// holds a versioned value set once per run (a loaded manifest, a parsed
// AST); a Derived recomputes only when its upstream fingerprints change,
// and short-circuits propagation further downstream when its own output
// fingerprint comes out unchanged despite having recomputed.
package querylayer

import (
	"context"
	"sync"
	"sync/atomic"
)

// Hasher fingerprints a value of type T into a 64-bit digest used to
// detect whether it changed since the last evaluation. Callers typically
// build one from cespare/xxhash over a stable serialization of T.
type Hasher[T any] func(T) uint64

// node is the untyped interface every graph member satisfies, letting
// Graph schedule heterogeneous Input/Derived nodes together.
type node interface {
	fingerprint() uint64
	eval(ctx context.Context) error
	deps() []node
}

// Input is a versioned, externally-settable value: the leaves of a query
// graph. Set is safe to call from any goroutine; it bumps the stored
// fingerprint so that dependents recompute on the next EvaluateAll.
type Input[T any] struct {
	hash  Hasher[T]
	mu    sync.RWMutex
	value T
	fp    atomic.Uint64
}

// NewInput creates an Input seeded with initial, fingerprinted by hash.
func NewInput[T any](initial T, hash Hasher[T]) *Input[T] {
	in := &Input[T]{hash: hash, value: initial}
	in.fp.Store(hash(initial))
	return in
}

// Set replaces the input's value and fingerprint.
func (in *Input[T]) Set(v T) {
	in.mu.Lock()
	in.value = v
	in.mu.Unlock()
	in.fp.Store(in.hash(v))
}

// Get returns the input's current value.
func (in *Input[T]) Get() T {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.value
}

func (in *Input[T]) fingerprint() uint64 { return in.fp.Load() }
func (in *Input[T]) eval(context.Context) error { return nil }
func (in *Input[T]) deps() []node { return nil }

// Node is the type every *Input[T] and *Derived[T] satisfies; use it to
// hold heterogeneous nodes in a Graph or a dependency list.
type Node = node

// Derived is a pure function of its dependencies, memoized by the tuple of
// their fingerprints. Two cutoffs apply: eval is skipped entirely when no
// dependency's fingerprint moved since the last call (early cutoff on
// input), and a recompute that produces a value whose own fingerprint is
// unchanged does not mark the node "changed" for further propagation
// (early cutoff on output).
type Derived[T any] struct {
	hash    Hasher[T]
	compute func(ctx context.Context) (T, error)
	dependsOn []node

	mu       sync.Mutex
	computed bool
	value    T
	fp       uint64
	depFPs   []uint64
}

// NewDerived builds a Derived node. compute must be a pure function of the
// values reachable through deps; it receives ctx so long computations
// (e.g. parsing a large SQL file) can observe cancellation.
func NewDerived[T any](hash Hasher[T], compute func(ctx context.Context) (T, error), deps ...Node) *Derived[T] {
	return &Derived[T]{hash: hash, compute: compute, dependsOn: deps}
}

func (d *Derived[T]) fingerprint() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fp
}

func (d *Derived[T]) deps() []node { return d.dependsOn }

func (d *Derived[T]) eval(ctx context.Context) error {
	depFPs := make([]uint64, len(d.dependsOn))
	for i, dep := range d.dependsOn {
		depFPs[i] = dep.fingerprint()
	}

	d.mu.Lock()
	if d.computed && sameFingerprints(d.depFPs, depFPs) {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	v, err := d.compute(ctx)
	if err != nil {
		return err
	}
	newFP := d.hash(v)

	d.mu.Lock()
	d.depFPs = depFPs
	d.computed = true
	d.value = v
	d.fp = newFP
	d.mu.Unlock()
	return nil
}

// Get returns the node's most recently computed value. Call EvaluateAll
// first; Get does not itself trigger computation.
func (d *Derived[T]) Get() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

func sameFingerprints(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
