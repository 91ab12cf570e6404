// Package rangetree holds reference ranges in a schema-ordered tree.
//
// Each level of the tree corresponds to one schema dimension. A node is
// either a Branch keyed by that dimension's labels or a Leaf holding the
// hand matrix for the situation described by the labels above it. Branches
// are sparse: a label may be absent where the situation cannot arise, and a
// Leaf may appear above the last dimension when the remaining dimensions do
// not apply (an open raise has no villain position).
//
// Nothing in this package is safe for concurrent use.
package rangetree

import (
	"errors"
	"fmt"

	"github.com/behrlich/range-trainer/pkg/hands"
)

// Node is either a Branch or a *Leaf.
type Node interface {
	isNode()
}

// Branch maps labels of one dimension to child nodes.
type Branch map[string]Node

// Leaf holds the reference range at the end of a path. Leaves are shared by
// pointer so edits through LeafAt change the tree in place.
type Leaf struct {
	Hands hands.Matrix
}

func (Branch) isNode() {}
func (*Leaf) isNode()  {}

// NewLeaf returns a leaf holding m.
func NewLeaf(m hands.Matrix) *Leaf {
	return &Leaf{Hands: m}
}

// present returns the labels of dim that are keys of b, in schema order.
func (b Branch) present(dim Dimension) []string {
	out := []string{}
	for _, l := range dim.Labels {
		if _, ok := b[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Clone returns a deep copy of b. Leaves are copied, not shared.
func (b Branch) Clone() Branch {
	out := make(Branch, len(b))
	for k, child := range b {
		switch n := child.(type) {
		case Branch:
			out[k] = n.Clone()
		case *Leaf:
			out[k] = NewLeaf(n.Hands)
		}
	}
	return out
}

// Shape controls the placeholder tree built by NewEmpty. Both functions are
// optional. prefix holds the labels chosen for every dimension above dim.
type Shape struct {
	// Include reports whether label exists for dim under prefix.
	Include func(prefix Path, dim, label string) bool
	// Terminal reports whether the node reached by prefix is a leaf even
	// though dimensions remain.
	Terminal func(prefix Path) bool
}

// NewEmpty builds a tree for s whose leaves are all empty ranges. With a
// zero Shape every label of every dimension is present and leaves sit at the
// last dimension.
func NewEmpty(s Schema, shape Shape) (Branch, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	root := buildEmpty(s, shape, Path{}, 0)
	if len(root) == 0 {
		return nil, errors.New("shape excludes every label of the first dimension")
	}
	return root, nil
}

func buildEmpty(s Schema, shape Shape, prefix Path, depth int) Branch {
	dim := s[depth]
	b := make(Branch, len(dim.Labels))
	for _, label := range dim.Labels {
		if shape.Include != nil && !shape.Include(prefix, dim.Name, label) {
			continue
		}
		next := prefix.With(dim.Name, label)
		if depth == len(s)-1 || (shape.Terminal != nil && shape.Terminal(next)) {
			b[label] = NewLeaf(hands.Matrix{})
			continue
		}
		child := buildEmpty(s, shape, next, depth+1)
		if len(child) == 0 {
			// nothing applies below; the situation is a leaf
			b[label] = NewLeaf(hands.Matrix{})
			continue
		}
		b[label] = child
	}
	return b
}

// Walk calls fn for every leaf in schema order, passing the labels that lead
// to it. Keys that are not schema labels are skipped; Validate reports them.
func (b Branch) Walk(s Schema, fn func(path Path, leaf *Leaf) error) error {
	return walk(b, s, Path{}, 0, fn)
}

func walk(b Branch, s Schema, prefix Path, depth int, fn func(Path, *Leaf) error) error {
	if depth >= len(s) {
		return nil
	}
	dim := s[depth]
	for _, label := range b.present(dim) {
		next := prefix.With(dim.Name, label)
		switch n := b[label].(type) {
		case *Leaf:
			if err := fn(next, n); err != nil {
				return err
			}
		case Branch:
			if err := walk(n, s, next, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetLeaf stores m at the end of path, creating branches for labels that are
// missing. Walking into an existing leaf above the last dimension overwrites
// that leaf.
func (b Branch) SetLeaf(s Schema, path Path, m hands.Matrix) error {
	node := b
	for depth, dim := range s {
		label, ok := path[dim.Name]
		if !ok || !s.HasLabel(dim.Name, label) {
			return &PathNotFoundError{Dimension: dim.Name, Label: label, Depth: depth}
		}
		last := depth == len(s)-1
		switch n := node[label].(type) {
		case *Leaf:
			n.Hands = m
			return nil
		case Branch:
			if last {
				return fmt.Errorf("%w: branch under %q at last dimension %q", ErrNotLeaf, label, dim.Name)
			}
			node = n
		default:
			if last {
				node[label] = NewLeaf(m)
				return nil
			}
			child := Branch{}
			node[label] = child
			node = child
		}
	}
	return ErrNotLeaf
}

// Validate checks that every key is a label of its depth's dimension, that
// no branch is empty and that no branch sits at the last dimension.
func Validate(root Branch, s Schema) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	var errs []error
	validate(root, s, Path{}, 0, &errs)
	return errors.Join(errs...)
}

func validate(b Branch, s Schema, prefix Path, depth int, errs *[]error) {
	where := prefix.Format(s)
	if where == "" {
		where = "root"
	}
	if depth >= len(s) {
		*errs = append(*errs, fmt.Errorf("%s: branch below the last dimension", where))
		return
	}
	dim := s[depth]
	if len(b) == 0 {
		*errs = append(*errs, fmt.Errorf("%s: empty branch for dimension %q", where, dim.Name))
		return
	}
	for label, child := range b {
		if !s.HasLabel(dim.Name, label) {
			*errs = append(*errs, fmt.Errorf("%s: %q is not a label of dimension %q", where, label, dim.Name))
			continue
		}
		switch n := child.(type) {
		case Branch:
			validate(n, s, prefix.With(dim.Name, label), depth+1, errs)
		case *Leaf:
			if n == nil {
				*errs = append(*errs, fmt.Errorf("%s: nil leaf under %q", where, label))
			}
		default:
			*errs = append(*errs, fmt.Errorf("%s: missing node under %q", where, label))
		}
	}
}
