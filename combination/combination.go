// Package combination enumerates the ways to cut a token range into contiguous pieces and the Cartesian
// expansions over the candidates of each piece.
package combination

import (
	"fmt"
	"iter"
	"slices"
)

// Combination is a strictly increasing sequence of cut points. k marks cut a range into k+1 pieces.
type Combination struct {
	Marks []int
}

func (c Combination) String() string {
	return fmt.Sprintf("%v", c.Marks)
}

// All yields every strictly increasing count-length tuple drawn from [begin, end) in ascending
// lexicographic order.
func All(begin, end, count int) iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		if count < 0 || end-begin < count {
			return
		}
		if count == 0 {
			yield(Combination{Marks: []int{}})
			return
		}

		marks := make([]int, count)
		for i := range marks {
			marks[i] = begin + i
		}
		for {
			if !yield(Combination{Marks: slices.Clone(marks)}) {
				return
			}

			// The mark at position i can move up to end-count+i without colliding with its right neighbors.
			i := count - 1
			for i >= 0 && marks[i] >= end-count+i {
				i--
			}
			if i < 0 {
				return
			}
			marks[i]++
			for j := i + 1; j < count; j++ {
				marks[j] = marks[j-1] + 1
			}
		}
	}
}

// Generate is the eager form of All.
func Generate(begin, end, count int) []Combination {
	return slices.Collect(All(begin, end, count))
}

// Expand returns the Cartesian product of rows. The tuples are built breadth-first through a queue: the
// queue is seeded with one partial tuple per element of the first row, and the oldest partial tuple is
// repeatedly extended with every element of its next row until the oldest one is complete.
func Expand[T any](rows [][]T) [][]T {
	if len(rows) == 0 {
		return nil
	}

	queue := make([][]T, 0, len(rows[0]))
	for _, v := range rows[0] {
		queue = append(queue, []T{v})
	}
	for len(queue) > 0 {
		front := queue[0]
		if len(front) >= len(rows) {
			break
		}
		queue = queue[1:]
		for _, v := range rows[len(front)] {
			tuple := make([]T, len(front), len(front)+1)
			copy(tuple, front)
			queue = append(queue, append(tuple, v))
		}
	}
	if len(queue) == 0 {
		return nil
	}
	return queue
}

// ExpandSeq is the lazy form of Expand and yields the same tuples in the same order. The first row is
// streamed; the other rows are pulled only when a tuple needs them and are replayed from a buffer
// afterwards. Each yielded slice is owned by the consumer.
func ExpandSeq[T any](rows iter.Seq[iter.Seq[T]]) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		var first iter.Seq[T]
		var rest []*replay[T]
		n := 0
		for row := range rows {
			if n == 0 {
				first = row
			} else {
				rest = append(rest, newReplay(row))
			}
			n++
		}
		if n == 0 {
			return
		}
		defer func() {
			for _, r := range rest {
				r.stop()
			}
		}()

		var expand func(k int, prefix []T) bool
		expand = func(k int, prefix []T) bool {
			if k == len(rest) {
				return yield(slices.Clone(prefix))
			}
			for v := range rest[k].all() {
				if !expand(k+1, append(prefix, v)) {
					return false
				}
			}
			return true
		}

		prefix := make([]T, 0, n)
		for v := range first {
			if !expand(0, append(prefix[:0], v)) {
				return
			}
			// Once any later row turns out to be empty, no other tuple can be completed.
			for _, r := range rest {
				if r.empty() {
					return
				}
			}
		}
	}
}

type replay[T any] struct {
	next func() (T, bool)
	stop func()
	buf  []T
	done bool
}

func newReplay[T any](seq iter.Seq[T]) *replay[T] {
	next, stop := iter.Pull(seq)
	return &replay[T]{
		next: next,
		stop: stop,
	}
}

func (r *replay[T]) all() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; ; i++ {
			if i < len(r.buf) {
				if !yield(r.buf[i]) {
					return
				}
				continue
			}
			if r.done {
				return
			}
			v, ok := r.next()
			if !ok {
				r.done = true
				return
			}
			r.buf = append(r.buf, v)
			if !yield(v) {
				return
			}
		}
	}
}

func (r *replay[T]) empty() bool {
	return r.done && len(r.buf) == 0
}
