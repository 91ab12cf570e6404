package rangetree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Dimension is one decision axis of a schema (e.g. hero position) and its
// labels in display order.
type Dimension struct {
	Name   string
	Labels []string
}

// Schema is the ordered list of dimensions. Dimension 0 is the outermost
// level of the range tree.
type Schema []Dimension

// Names returns the dimension names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, d := range s {
		names[i] = d.Name
	}
	return names
}

// Index returns the position of the named dimension, or -1.
func (s Schema) Index(name string) int {
	for i, d := range s {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// Labels returns the labels of the named dimension, or nil.
func (s Schema) Labels(name string) []string {
	if i := s.Index(name); i >= 0 {
		return s[i].Labels
	}
	return nil
}

// HasLabel reports whether label is declared for the named dimension.
func (s Schema) HasLabel(name, label string) bool {
	for _, l := range s.Labels(name) {
		if l == label {
			return true
		}
	}
	return false
}

// Validate checks that the schema has at least one dimension, that names are
// unique and non-empty, and that every dimension has unique, non-empty labels.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return errors.New("schema has no dimensions")
	}
	var errs []error
	names := make(map[string]bool, len(s))
	for _, d := range s {
		if d.Name == "" {
			errs = append(errs, errors.New("dimension with empty name"))
			continue
		}
		if names[d.Name] {
			errs = append(errs, fmt.Errorf("duplicate dimension %q", d.Name))
		}
		names[d.Name] = true
		if len(d.Labels) == 0 {
			errs = append(errs, fmt.Errorf("dimension %q has no labels", d.Name))
		}
		seen := make(map[string]bool, len(d.Labels))
		for _, l := range d.Labels {
			if l == "" {
				errs = append(errs, fmt.Errorf("dimension %q has an empty label", d.Name))
			}
			if seen[l] {
				errs = append(errs, fmt.Errorf("dimension %q repeats label %q", d.Name, l))
			}
			seen[l] = true
		}
	}
	return errors.Join(errs...)
}

// DefaultPath selects the first label of every dimension.
func (s Schema) DefaultPath() Path {
	p := make(Path, len(s))
	for _, d := range s {
		if len(d.Labels) > 0 {
			p[d.Name] = d.Labels[0]
		}
	}
	return p
}

// Path is the current choice of one label per schema dimension. Its order is
// the schema's order.
type Path map[string]string

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// With returns a copy of p with dimension set to label.
func (p Path) With(dimension, label string) Path {
	out := p.Clone()
	out[dimension] = label
	return out
}

// Format renders p in schema order, e.g. "Position=HJ Action=Call RFI VS=UTG".
// Dimensions missing from the schema are appended in name order.
func (p Path) Format(s Schema) string {
	var parts []string
	used := make(map[string]bool, len(p))
	for _, d := range s {
		if v, ok := p[d.Name]; ok {
			parts = append(parts, d.Name+"="+v)
			used[d.Name] = true
		}
	}
	var extra []string
	for k := range p {
		if !used[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		parts = append(parts, k+"="+p[k])
	}
	return strings.Join(parts, " ")
}
