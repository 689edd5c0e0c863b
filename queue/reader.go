package queue

import "github.com/FFI-no/superflow/policy"

// Reader is a pull-strategy adapter over a single Bounded queue,
// parameterised by a read mode. Only Blocking and Latched apply to a single
// queue; ReadyOnly and AtLeastOneNew only make sense once there is more than
// one source to merge, so they are only implemented on MultiReader.
type Reader[T any] struct {
	mode      policy.GetMode
	cached    T
	hasCached bool
}

// NewReader creates a Reader for a single Bounded queue. It panics if mode is
// ReadyOnly or AtLeastOneNew, which require a Keyed queue (use MultiReader).
func NewReader[T any](mode policy.GetMode) *Reader[T] {
	switch mode {
	case policy.Blocking, policy.Latched:
	default:
		panic("queue: " + string(mode) + " is a keyed-only read mode, use MultiReader")
	}
	return &Reader[T]{mode: mode}
}

// Get pulls the next value from q according to the reader's mode.
func (r *Reader[T]) Get(q *Bounded[T]) (T, error) {
	switch r.mode {
	case policy.Latched:
		if !r.hasCached {
			v, err := q.Pop()
			if err != nil {
				return v, err
			}
			r.cached, r.hasCached = v, true
			return v, nil
		}
		if !q.IsEmpty() {
			if v, err := q.Pop(); err == nil {
				r.cached = v
			}
		}
		return r.cached, nil
	default: // Blocking
		return q.Pop()
	}
}

// HasNext reports whether a subsequent Get would succeed without blocking.
func (r *Reader[T]) HasNext(q *Bounded[T]) bool {
	switch r.mode {
	case policy.Latched:
		return r.hasCached || !q.IsEmpty()
	default: // Blocking
		return !q.IsEmpty()
	}
}

// Clear drops any cached value (Latched mode only; a no-op for Blocking).
func (r *Reader[T]) Clear() {
	var zero T
	r.cached, r.hasCached = zero, false
}

// MultiReader is the keyed counterpart of Reader, pulling merged snapshots
// out of a Keyed multi-queue according to one of the four read modes.
type MultiReader[K comparable, T any] struct {
	mode   policy.GetMode
	cache  map[K]T
	primed bool
}

// NewMultiReader creates a MultiReader for a Keyed multi-queue.
func NewMultiReader[K comparable, T any](mode policy.GetMode) *MultiReader[K, T] {
	return &MultiReader[K, T]{mode: mode, cache: map[K]T{}}
}

// Get pulls the next snapshot from q according to the reader's mode.
func (r *MultiReader[K, T]) Get(q *Keyed[K, T]) (map[K]T, error) {
	switch r.mode {
	case policy.ReadyOnly:
		return q.PopReady()

	case policy.Latched:
		if !r.primed {
			snap, err := q.PopAll()
			if err != nil {
				return nil, err
			}
			r.cache, r.primed = snap, true
			return cloneSnapshot(r.cache), nil
		}
		fresh, err := q.PopReady()
		if err != nil {
			return nil, err
		}
		for k, v := range fresh {
			r.cache[k] = v
		}
		return cloneSnapshot(r.cache), nil

	case policy.AtLeastOneNew:
		if !r.primed {
			snap, err := q.PopAll()
			if err != nil {
				return nil, err
			}
			r.cache, r.primed = snap, true
			return cloneSnapshot(r.cache), nil
		}
		fresh, err := q.PopAtLeastOne()
		if err != nil {
			return nil, err
		}
		for k, v := range fresh {
			r.cache[k] = v
		}
		return cloneSnapshot(r.cache), nil

	default: // Blocking
		return q.PopAll()
	}
}

// HasNext reports whether a subsequent Get would succeed without blocking.
func (r *MultiReader[K, T]) HasNext(q *Keyed[K, T]) bool {
	switch r.mode {
	case policy.ReadyOnly:
		return true
	case policy.Latched:
		if !r.primed {
			return q.HasAll()
		}
		return true
	case policy.AtLeastOneNew:
		if !r.primed {
			return q.HasAll()
		}
		return q.HasAny()
	default: // Blocking
		return q.HasAll()
	}
}

// Clear resets the cache (Latched/AtLeastOneNew modes only).
func (r *MultiReader[K, T]) Clear() {
	r.cache = map[K]T{}
	r.primed = false
}

func cloneSnapshot[K comparable, T any](m map[K]T) map[K]T {
	out := make(map[K]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
