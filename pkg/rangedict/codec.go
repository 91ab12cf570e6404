// Package rangedict reads and writes range dicts and the registry that
// names them.
//
// A range dict file is JSON: the schema as an ordered list of dimensions and
// the tree as nested objects whose leaves are range notation strings, e.g.
//
//	{"version": "1.0",
//	 "schema": [{"name": "Position", "labels": ["UTG", "HJ"]}, ...],
//	 "contents": {"UTG": {"RFI": "77+,A9s+,AJo+"}}}
package rangedict

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/behrlich/range-trainer/pkg/notation"
	"github.com/behrlich/range-trainer/pkg/rangetree"
)

// FormatVersion is written to every range dict file.
const FormatVersion = "1.0"

// RangeDict is a schema and the range tree it orders, saved as one unit.
type RangeDict struct {
	Schema   rangetree.Schema
	Contents rangetree.Branch
}

// SerializableDimension is a JSON-friendly representation of a Dimension
type SerializableDimension struct {
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
}

// SerializableRangeDict is a JSON-friendly representation of a RangeDict
type SerializableRangeDict struct {
	Version  string                  `json:"version"`
	Schema   []SerializableDimension `json:"schema"`
	Contents map[string]any          `json:"contents"`
}

// ToJSON serializes the range dict. The tree is validated first so a file
// that could not be read back is never written.
func (d *RangeDict) ToJSON() ([]byte, error) {
	if err := rangetree.Validate(d.Contents, d.Schema); err != nil {
		return nil, err
	}
	out := SerializableRangeDict{
		Version:  FormatVersion,
		Schema:   make([]SerializableDimension, len(d.Schema)),
		Contents: encodeBranch(d.Contents),
	}
	for i, dim := range d.Schema {
		out.Schema[i] = SerializableDimension{Name: dim.Name, Labels: dim.Labels}
	}
	return json.MarshalIndent(out, "", "  ")
}

func encodeBranch(b rangetree.Branch) map[string]any {
	out := make(map[string]any, len(b))
	for label, child := range b {
		switch n := child.(type) {
		case rangetree.Branch:
			out[label] = encodeBranch(n)
		case *rangetree.Leaf:
			out[label] = notation.FormatRange(n.Hands)
		}
	}
	return out
}

// FromJSON deserializes a range dict and validates the tree against its
// schema.
func FromJSON(data []byte) (*RangeDict, error) {
	var in SerializableRangeDict
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	if in.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported range dict version %q", in.Version)
	}

	d := &RangeDict{Schema: make(rangetree.Schema, len(in.Schema))}
	for i, dim := range in.Schema {
		d.Schema[i] = rangetree.Dimension{Name: dim.Name, Labels: dim.Labels}
	}
	contents, err := decodeBranch(in.Contents)
	if err != nil {
		return nil, err
	}
	d.Contents = contents
	if err := rangetree.Validate(d.Contents, d.Schema); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeBranch(in map[string]any) (rangetree.Branch, error) {
	b := make(rangetree.Branch, len(in))
	for label, v := range in {
		switch n := v.(type) {
		case string:
			m, err := notation.ParseRange(n)
			if err != nil {
				return nil, fmt.Errorf("range under %q: %w", label, err)
			}
			b[label] = rangetree.NewLeaf(m)
		case map[string]any:
			child, err := decodeBranch(n)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", label, err)
			}
			b[label] = child
		default:
			return nil, fmt.Errorf("unexpected %T under %q", v, label)
		}
	}
	return b, nil
}

// SaveToFile writes the range dict to filename, creating its directory.
func (d *RangeDict) SaveToFile(filename string) error {
	data, err := d.ToJSON()
	if err != nil {
		return &PersistenceError{Op: "save", Path: filename, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return &PersistenceError{Op: "save", Path: filename, Err: err}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return &PersistenceError{Op: "save", Path: filename, Err: err}
	}
	return nil
}

// LoadFromFile reads a range dict written by SaveToFile.
func LoadFromFile(filename string) (*RangeDict, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: filename, Err: err}
	}
	d, err := FromJSON(data)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: filename, Err: err}
	}
	return d, nil
}
