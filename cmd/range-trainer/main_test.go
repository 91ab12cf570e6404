package main

import (
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"

	"github.com/behrlich/range-trainer/pkg/rangedict"
	"github.com/behrlich/range-trainer/pkg/rangetree"
)

func TestNewSetShow(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	dir := t.TempDir()
	registry := filepath.Join(dir, "range_dict_list.json")
	flags := []string{"-registry", registry, "-history", filepath.Join(dir, "history.db")}
	cmd := func(args ...string) error {
		return run(append(append([]string{}, flags...), args...))
	}

	if err := cmd("new", "6max"); err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cmd("set", "6max", "Position=HJ", "VS=UTG", "Action=3bet", "QQ+,AKs"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cmd("show", "0", "Position=HJ", "Action=3bet"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if err := cmd("list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := cmd("stats", "6max"); err != nil {
		t.Fatalf("stats: %v", err)
	}

	reg, err := rangedict.LoadRegistry(registry)
	if err != nil {
		t.Fatal(err)
	}
	d, err := reg.Load(0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	m, err := rangetree.MatrixAt(d.Contents, d.Schema, rangetree.Path{"Position": "HJ", "Action": "3bet", "VS": "UTG"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Count() != 4 {
		t.Errorf("HJ 3bet vs UTG has %d hands, want 4", m.Count())
	}
}

func TestRunErrors(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	dir := t.TempDir()
	flags := []string{"-registry", filepath.Join(dir, "list.json"), "-history", ""}

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"deal"}},
		{"unknown dict", []string{"show", "missing"}},
		{"stats without history", []string{"stats", "x"}},
		{"bad seed", []string{"-seed", "-4", "list"}},
		{"new without name", []string{"new"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(append([]string{}, flags...), tt.args...)
			if err := run(args); err == nil {
				t.Errorf("run(%v) expected error", tt.args)
			}
		})
	}
}

func TestApplyPathRejectsBadPairs(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	dir := t.TempDir()
	registry := filepath.Join(dir, "list.json")
	if err := run([]string{"-registry", registry, "-history", "", "new", "6max"}); err != nil {
		t.Fatal(err)
	}
	for _, pair := range []string{"Position", "Street=Flop", "Position=MP"} {
		if err := run([]string{"-registry", registry, "-history", "", "show", "6max", pair}); err == nil {
			t.Errorf("show with %q expected error", pair)
		}
	}
}
