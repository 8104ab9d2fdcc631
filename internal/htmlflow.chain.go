package internal

import (
	"errors"
	"iter"
)

// Node is a single continuation of a chain. Static nodes carry literal
// markup in both indented and compact form. Dynamic and async nodes carry a
// step of type S plus the nesting depth at which the step was registered.
type Node[S any] struct {
	kind     NodeKind
	indented string
	compact  string
	depth    int
	step     S
}

// Kind returns the node variant.
func (n Node[S]) Kind() NodeKind {
	return n.kind
}

// IsStatic reports whether the node holds literal markup.
func (n Node[S]) IsStatic() bool {
	return n.kind == NodeKindStatic
}

// Text returns the literal markup of a static node for the given mode.
func (n Node[S]) Text(indented bool) string {
	if indented {
		return n.indented
	}
	return n.compact
}

// Depth returns the nesting depth recorded for a dynamic or async node.
func (n Node[S]) Depth() int {
	return n.depth
}

// Step returns the model dependent step of a dynamic or async node.
func (n Node[S]) Step() S {
	return n.step
}

// Chain is the frozen, ordered result of discovery. It has no mutating
// methods and may be shared by any number of goroutines.
type Chain[S any] struct {
	nodes []Node[S]
}

// Len returns the number of nodes.
func (c *Chain[S]) Len() int {
	return len(c.nodes)
}

// First returns the first node, if any.
func (c *Chain[S]) First() (Node[S], bool) {
	if len(c.nodes) == 0 {
		var zero Node[S]
		return zero, false
	}
	return c.nodes[0], true
}

// At returns the node at index i.
func (c *Chain[S]) At(i int) Node[S] {
	return c.nodes[i]
}

// All iterates the nodes in discovery order.
func (c *Chain[S]) All() iter.Seq2[int, Node[S]] {
	return func(yield func(int, Node[S]) bool) {
		for i, n := range c.nodes {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Count returns the number of nodes of the given kind.
func (c *Chain[S]) Count(kind NodeKind) int {
	count := 0
	for _, n := range c.nodes {
		if n.kind == kind {
			count++
		}
	}
	return count
}

// IsStatic reports whether the chain contains literal markup only.
func (c *Chain[S]) IsStatic() bool {
	return c.Count(NodeKindStatic) == len(c.nodes)
}

// ErrChainFinished is returned when appending to a finished builder.
var ErrChainFinished = errors.New(ErrMsgChainFinished)

// Builder accumulates nodes during discovery. It is append only and is
// owned by a single discovery pass.
type Builder[S any] struct {
	nodes    []Node[S]
	finished bool
}

// NewBuilder creates an empty chain builder.
func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{}
}

// AppendStatic appends literal markup. Empty fragments are dropped and
// consecutive fragments are merged, so a static node is always followed by
// a dynamic or async node or by the end of the chain.
func (b *Builder[S]) AppendStatic(indented, compact string) error {
	if b.finished {
		return ErrChainFinished
	}
	if indented == "" && compact == "" {
		return nil
	}
	if last := len(b.nodes) - 1; last >= 0 && b.nodes[last].kind == NodeKindStatic {
		b.nodes[last].indented += indented
		b.nodes[last].compact += compact
		return nil
	}
	b.nodes = append(b.nodes, Node[S]{
		kind:     NodeKindStatic,
		indented: indented,
		compact:  compact,
	})
	return nil
}

// AppendStep appends a model dependent step registered at depth.
func (b *Builder[S]) AppendStep(kind NodeKind, depth int, step S) error {
	if b.finished {
		return ErrChainFinished
	}
	if kind == NodeKindStatic {
		return errors.New(ErrMsgStaticStep)
	}
	b.nodes = append(b.nodes, Node[S]{
		kind:  kind,
		depth: depth,
		step:  step,
	})
	return nil
}

// Len returns the number of nodes appended so far.
func (b *Builder[S]) Len() int {
	return len(b.nodes)
}

// Finish freezes the builder and returns the chain. Finish may be called
// only once; later appends fail with ErrChainFinished.
func (b *Builder[S]) Finish() (*Chain[S], error) {
	if b.finished {
		return nil, ErrChainFinished
	}
	b.finished = true
	nodes := make([]Node[S], len(b.nodes))
	copy(nodes, b.nodes)
	b.nodes = nil
	return &Chain[S]{nodes: nodes}, nil
}
