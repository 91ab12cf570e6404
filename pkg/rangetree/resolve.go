package rangetree

import (
	"fmt"
	"math/rand"

	"github.com/behrlich/range-trainer/pkg/hands"
)

// LeafAt follows path from root in schema order and returns the leaf it ends
// at. The walk stops at the first leaf, so dimensions below it are ignored.
// A label absent at its depth yields a *PathNotFoundError.
func LeafAt(root Branch, s Schema, path Path) (*Leaf, error) {
	node := root
	for depth, dim := range s {
		label := path[dim.Name]
		child, ok := node[label]
		if !ok {
			return nil, &PathNotFoundError{Dimension: dim.Name, Label: label, Depth: depth}
		}
		switch n := child.(type) {
		case *Leaf:
			return n, nil
		case Branch:
			node = n
		default:
			return nil, fmt.Errorf("%w: no node under %q", ErrNotLeaf, label)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotLeaf, path.Format(s))
}

// MatrixAt returns a copy of the range at the end of path.
func MatrixAt(root Branch, s Schema, path Path) (hands.Matrix, error) {
	leaf, err := LeafAt(root, s, path)
	if err != nil {
		return hands.Matrix{}, err
	}
	return leaf.Hands, nil
}

// ApplicableLabels returns, per dimension, the labels selectable given the
// current path. The first dimension always offers its full schema list. A
// deeper dimension offers the labels present in the node reached by the path
// prefix, in schema order. A prefix label missing from its node is replaced
// by that node's first label before descending. Dimensions below the leaf
// the path reaches get an empty list.
func ApplicableLabels(root Branch, s Schema, path Path) map[string][]string {
	out := make(map[string][]string, len(s))
	for _, dim := range s {
		out[dim.Name] = []string{}
	}

	node := root
	for depth, dim := range s {
		present := node.present(dim)
		if depth == 0 {
			out[dim.Name] = append([]string(nil), dim.Labels...)
		} else {
			out[dim.Name] = present
		}

		label := path[dim.Name]
		if _, ok := node[label]; !ok {
			if len(present) == 0 {
				break
			}
			label = present[0]
		}
		child, ok := node[label].(Branch)
		if !ok {
			break
		}
		node = child
	}
	return out
}

// RepairPath returns a copy of path in which every label exists in the tree
// at its depth: a missing or stale label is replaced by the first label
// present in its node, in schema order. Dimensions absent from path start at
// their first schema label. Dimensions below the leaf keep their label.
// Repairing an already valid path returns an equal path.
func RepairPath(root Branch, s Schema, path Path) Path {
	out := path.Clone()
	for _, dim := range s {
		if _, ok := out[dim.Name]; !ok && len(dim.Labels) > 0 {
			out[dim.Name] = dim.Labels[0]
		}
	}

	node := root
	for _, dim := range s {
		label := out[dim.Name]
		if _, ok := node[label]; !ok {
			present := node.present(dim)
			if len(present) == 0 {
				break
			}
			label = present[0]
			out[dim.Name] = label
		}
		child, ok := node[label].(Branch)
		if !ok {
			break
		}
		node = child
	}
	return out
}

// RandomPath picks a label uniformly among those present at each depth
// until a leaf is reached. Dimensions below the leaf keep their first label.
func RandomPath(root Branch, s Schema, rng *rand.Rand) Path {
	out := s.DefaultPath()
	node := root
	for _, dim := range s {
		present := node.present(dim)
		if len(present) == 0 {
			break
		}
		label := present[rng.Intn(len(present))]
		out[dim.Name] = label
		child, ok := node[label].(Branch)
		if !ok {
			break
		}
		node = child
	}
	return out
}
