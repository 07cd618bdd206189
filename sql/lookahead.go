package sql

import "iter"

// Lookahead wraps a sequence and lets callers inspect upcoming items
// without consuming them.
type Lookahead[T any] struct {
	next   func() (T, bool)
	stop   func()
	buffer []T
}

func NewLookahead[T any](seq iter.Seq[T]) *Lookahead[T] {
	next, stop := iter.Pull(seq)
	return &Lookahead[T]{next: next, stop: stop}
}

// Peek returns the item n positions ahead (0 is the next item).
func (lookahead *Lookahead[T]) Peek(n int) (T, bool) {
	for len(lookahead.buffer) <= n {
		item, ok := lookahead.next()
		if !ok {
			var zero T
			return zero, false
		}
		lookahead.buffer = append(lookahead.buffer, item)
	}
	return lookahead.buffer[n], true
}

func (lookahead *Lookahead[T]) Next() (T, bool) {
	if len(lookahead.buffer) > 0 {
		item := lookahead.buffer[0]
		lookahead.buffer = lookahead.buffer[1:]
		return item, true
	}
	return lookahead.next()
}

func (lookahead *Lookahead[T]) Close() {
	lookahead.buffer = nil
	lookahead.stop()
}
