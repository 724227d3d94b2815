package generic

import "sync"

// Pool is a typed sync.Pool. Values passed to Put are reset first when a
// reset function was given.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T) T
}

func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

// NewResetPool builds a pool whose values go through reset before reuse.
func NewResetPool[T any](generate func() T, reset func(T) T) *Pool[T] {
	p := NewPool(generate)
	p.reset = reset
	return p
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		value = p.reset(value)
	}
	p.pool.Put(value)
}

// NewSlicePool pools slice buffers of the given initial capacity. Returned
// buffers have length zero and are cleared so they keep no references.
func NewSlicePool[E any](capacity int) *Pool[*[]E] {
	return NewResetPool(
		func() *[]E {
			s := make([]E, 0, capacity)
			return &s
		},
		func(s *[]E) *[]E {
			clear(*s)
			*s = (*s)[:0]
			return s
		},
	)
}
