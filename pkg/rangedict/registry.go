package rangedict

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Record names one range dict. Filepath is nil until the dict is saved.
type Record struct {
	Name     string  `json:"Name"`
	Filepath *string `json:"Filepath"`
}

// HasFile reports whether the record points at a saved file.
func (r Record) HasFile() bool {
	return r.Filepath != nil && *r.Filepath != ""
}

// Registry is the list of known range dicts, stored as a JSON array next
// to the range dict files. Relative file paths are resolved against the
// registry's directory.
type Registry struct {
	path    string
	records []Record
}

// NewRegistry returns an empty registry that saves to path.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// LoadRegistry reads the registry at path. A missing file is reported as a
// *PersistenceError wrapping fs.ErrNotExist.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	for i, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			return nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("record %d has no name", i)}
		}
	}
	return &Registry{path: path, records: records}, nil
}

// Path returns the registry file location.
func (r *Registry) Path() string { return r.path }

// Len returns the number of records.
func (r *Registry) Len() int { return len(r.records) }

// Records returns a copy of the records in registry order.
func (r *Registry) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Get returns record i.
func (r *Registry) Get(i int) (Record, error) {
	if i < 0 || i >= len(r.records) {
		return Record{}, fmt.Errorf("range dict index %d out of range [0,%d)", i, len(r.records))
	}
	return r.records[i], nil
}

// Add appends an unsaved record and returns its index.
func (r *Registry) Add(name string) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, errors.New("range dict name is empty")
	}
	r.records = append(r.records, Record{Name: name})
	return len(r.records) - 1, nil
}

// Remove deletes record i.
func (r *Registry) Remove(i int) error {
	if _, err := r.Get(i); err != nil {
		return err
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

// SetFilepath records where dict i was saved. An empty path clears it.
func (r *Registry) SetFilepath(i int, path string) error {
	if _, err := r.Get(i); err != nil {
		return err
	}
	if path == "" {
		r.records[i].Filepath = nil
		return nil
	}
	p := path
	r.records[i].Filepath = &p
	return nil
}

// Resolve returns the file location of rec, relative paths taken from the
// registry's directory.
func (r *Registry) Resolve(rec Record) (string, error) {
	if !rec.HasFile() {
		return "", fmt.Errorf("%w: %q", ErrNoFile, rec.Name)
	}
	p := *rec.Filepath
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(r.path), p)
	}
	return p, nil
}

// Load reads the range dict of record i.
func (r *Registry) Load(i int) (*RangeDict, error) {
	rec, err := r.Get(i)
	if err != nil {
		return nil, err
	}
	path, err := r.Resolve(rec)
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// Save rewrites the registry file.
func (r *Registry) Save() error {
	records := r.records
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: r.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return &PersistenceError{Op: "save", Path: r.path, Err: err}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return &PersistenceError{Op: "save", Path: r.path, Err: err}
	}
	return nil
}
