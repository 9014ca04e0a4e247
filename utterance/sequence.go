package utterance

import "fmt"

// Sequence is an insertion-ordered list of items of one level. Relations refer
// to items by index, so items are never reordered or removed.
type Sequence[T any] struct {
	items []T
}

// NewSequence creates a sequence holding items in order.
func NewSequence[T any](items ...T) *Sequence[T] {
	return &Sequence[T]{items: items}
}

// Add appends an item and returns its index.
func (s *Sequence[T]) Add(item T) int {
	s.items = append(s.items, item)
	return len(s.items) - 1
}

// Get returns the item at index i.
func (s *Sequence[T]) Get(i int) T {
	return s.items[i]
}

// Len returns the number of items.
func (s *Sequence[T]) Len() int {
	return len(s.items)
}

// Items returns the underlying items. Callers must not modify the slice.
func (s *Sequence[T]) Items() []T {
	return s.items
}

// Sized is implemented by every Sequence regardless of its item type.
type Sized interface {
	Len() int
}

// IntegerPair links an item of the source sequence to an item of the target
// sequence.
type IntegerPair struct {
	Left  int
	Right int
}

// Relation is an alignment between two sequences.
type Relation struct {
	source Sized
	target Sized
	pairs  []IntegerPair
}

// NewRelation creates a relation between source and target. Every pair must
// reference valid indices of both sequences.
func NewRelation(source, target Sized, pairs []IntegerPair) (*Relation, error) {
	for _, p := range pairs {
		if p.Left < 0 || p.Left >= source.Len() {
			return nil, fmt.Errorf("%w: source index %d not in [0,%d)", ErrIndexOutOfRange, p.Left, source.Len())
		}
		if p.Right < 0 || p.Right >= target.Len() {
			return nil, fmt.Errorf("%w: target index %d not in [0,%d)", ErrIndexOutOfRange, p.Right, target.Len())
		}
	}
	return &Relation{source: source, target: target, pairs: pairs}, nil
}

// Pairs returns the index pairs.
func (r *Relation) Pairs() []IntegerPair {
	return r.pairs
}

// Source returns the source sequence.
func (r *Relation) Source() Sized { return r.source }

// Target returns the target sequence.
func (r *Relation) Target() Sized { return r.target }

// RelatedIndices returns the target indices linked to source index i, in pair
// order.
func (r *Relation) RelatedIndices(i int) []int {
	var out []int
	for _, p := range r.pairs {
		if p.Left == i {
			out = append(out, p.Right)
		}
	}
	return out
}
