package hands

import (
	"errors"
	"math/rand"
	"testing"
)

func randomMatrix(rng *rand.Rand) Matrix {
	var m Matrix
	for i := range m {
		for j := range m[i] {
			m[i][j] = rng.Intn(2) == 1
		}
	}
	return m
}

func TestToggle(t *testing.T) {
	var m Matrix

	got, err := m.Toggle(0, 1)
	if err != nil {
		t.Fatalf("Toggle(0,1) error = %v", err)
	}
	if !got || !m[0][1] {
		t.Errorf("Toggle(0,1) = %v, want true", got)
	}

	got, _ = m.Toggle(0, 1)
	if got || m[0][1] {
		t.Errorf("second Toggle(0,1) = %v, want false", got)
	}
}

func TestToggleOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		i, j int
	}{
		{"negative row", -1, 0},
		{"negative col", 0, -1},
		{"row 13", 13, 0},
		{"col 13", 0, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Matrix
			_, err := m.Toggle(tt.i, tt.j)
			if !errors.Is(err, ErrIndex) {
				t.Fatalf("Toggle(%d,%d) error = %v, want ErrIndex", tt.i, tt.j, err)
			}
			var ie *IndexError
			if !errors.As(err, &ie) || ie.Row != tt.i || ie.Col != tt.j {
				t.Errorf("Toggle(%d,%d) error = %#v, want IndexError with coordinates", tt.i, tt.j, err)
			}
			if m != (Matrix{}) {
				t.Error("failed Toggle modified the matrix")
			}
		})
	}
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		m := randomMatrix(rng)
		orig := m
		i, j := rng.Intn(Size), rng.Intn(Size)
		m.Toggle(i, j)
		m.Toggle(i, j)
		if m != orig {
			t.Fatalf("toggle(toggle(m,%d,%d)) != m", i, j)
		}
	}
}

func TestInvert(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for n := 0; n < 200; n++ {
		m := randomMatrix(rng)
		orig := m
		inv := m.Invert()
		if m != orig {
			t.Fatal("Invert modified its receiver")
		}
		if inv.Count()+m.Count() != NumCells {
			t.Fatalf("Invert count = %d, want %d", inv.Count(), NumCells-m.Count())
		}
		if inv.Invert() != m {
			t.Fatal("invert(invert(m)) != m")
		}
	}
}

func TestDiff(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for n := 0; n < 200; n++ {
		entered := randomMatrix(rng)
		reference := randomMatrix(rng)
		d := Diff(entered, reference)

		if d.Match != entered.Intersect(reference) {
			t.Fatal("Diff().Match != entered AND reference")
		}
		if !d.Over.Intersect(d.Under).IsEmpty() ||
			!d.Over.Intersect(d.Match).IsEmpty() ||
			!d.Under.Intersect(d.Match).IsEmpty() {
			t.Fatal("Diff() outputs are not pairwise disjoint")
		}
		if d.Over.Union(d.Match) != entered {
			t.Fatal("Over OR Match != entered")
		}
		if d.Under.Union(d.Match) != reference {
			t.Fatal("Under OR Match != reference")
		}
	}
}

func TestDiffExample(t *testing.T) {
	var entered, reference Matrix
	entered[0][0] = true  // AA: correct
	entered[0][1] = true  // AKs: over
	reference[0][0] = true
	reference[1][1] = true // KK: under

	d := Diff(entered, reference)
	if !d.Match[0][0] || !d.Over[0][1] || !d.Under[1][1] {
		t.Errorf("Diff() = %+v, want AA match, AKs over, KK under", d)
	}
	if d.Perfect() {
		t.Error("Perfect() = true, want false")
	}
	if !Diff(reference, reference).Perfect() {
		t.Error("Diff(r, r).Perfect() = false, want true")
	}
}

func TestCombos(t *testing.T) {
	var m Matrix
	m[0][0] = true // AA: 6
	m[0][1] = true // AKs: 4
	m[1][0] = true // AKo: 12
	if got := m.Combos(); got != 22 {
		t.Errorf("Combos() = %d, want 22", got)
	}
	full := Full()
	if got := full.Combos(); got != 1326 {
		t.Errorf("Full().Combos() = %d, want 1326", got)
	}
}

func TestString(t *testing.T) {
	var m Matrix
	m[0][0] = true
	s := m.String()
	if len(s) != Size*Size+Size-1 {
		t.Fatalf("String() length = %d", len(s))
	}
	if s[0] != 'x' || s[1] != '.' {
		t.Errorf("String() starts %q, want \"x.\"", s[:2])
	}
}
