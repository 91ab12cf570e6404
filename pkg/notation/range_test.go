package notation

import (
	"math/rand"
	"testing"

	"github.com/behrlich/range-trainer/pkg/hands"
)

func TestParseRange_Counts(t *testing.T) {
	tests := []struct {
		input      string
		wantCells  int
		wantCombos int
	}{
		{"AA", 1, 6},
		{"KK-JJ", 3, 18},
		{"JJ-KK", 3, 18},
		{"77+", 8, 48},
		{"AKs", 1, 4},
		{"AKs-ATs", 4, 16},
		{"ATs-AKs", 4, 16},
		{"ATs+", 4, 16},
		{"AKo", 1, 12},
		{"AQo-AJo", 2, 24},
		{"AK", 2, 16},
		{"AA,KK,AKs", 3, 16},
		{" AA , KK ", 2, 12},
		{"", 0, 0},
		{"22+,A2s+,K2s+,Q2s+,J2s+,T2s+,92s+,82s+,72s+,62s+,52s+,42s+,32s,A2o+,K2o+,Q2o+,J2o+,T2o+,92o+,82o+,72o+,62o+,52o+,42o+,32o", 169, 1326},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseRange(tt.input)
			if err != nil {
				t.Fatalf("ParseRange(%q) error = %v", tt.input, err)
			}
			if got := m.Count(); got != tt.wantCells {
				t.Errorf("ParseRange(%q) has %d hands, want %d", tt.input, got, tt.wantCells)
			}
			if got := m.Combos(); got != tt.wantCombos {
				t.Errorf("ParseRange(%q) has %d combos, want %d", tt.input, got, tt.wantCombos)
			}
		})
	}
}

func TestParseRange_Cells(t *testing.T) {
	m, err := ParseRange("ATs+,KQo")
	if err != nil {
		t.Fatalf("ParseRange() error = %v", err)
	}
	for _, name := range []string{"AKs", "AQs", "AJs", "ATs", "KQo"} {
		c, _ := hands.ParseCell(name)
		if !m.Has(c) {
			t.Errorf("range missing %s", name)
		}
	}
	for _, name := range []string{"A9s", "AKo", "KQs", "AA"} {
		c, _ := hands.ParseCell(name)
		if m.Has(c) {
			t.Errorf("range unexpectedly contains %s", name)
		}
	}
}

func TestParseRange_Errors(t *testing.T) {
	tests := []string{
		"XX",
		"AAs",
		"AKx",
		"AKs-QJs",  // first rank differs
		"AKs-ATo",  // suitedness differs
		"KK-AKs",   // pair mixed with non-pair
		"AA-KK-QQ", // too many dashes
		"A",
		"AKQs",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseRange(input); err == nil {
				t.Errorf("ParseRange(%q) expected error, got nil", input)
			}
		})
	}
}

func TestFormatRange(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"AA", "AA"},
		{"QQ-99", "QQ-99"},
		{"77+", "77+"},
		{"ATs+", "ATs+"},
		{"AKs", "AKs"},
		{"AJs-A8s", "AJs-A8s"},
		{"KQo,AKo,AA", "AA,AKo,KQo"},
		{"AK", "AKs,AKo"},
		{"22", "22"},
		{"22+", "22+"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := MustParseRange(tt.input)
			if got := FormatRange(m); got != tt.want {
				t.Errorf("FormatRange(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatRange_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 500; n++ {
		var m hands.Matrix
		density := rng.Float64()
		for i := range m {
			for j := range m[i] {
				m[i][j] = rng.Float64() < density
			}
		}

		s := FormatRange(m)
		got, err := ParseRange(s)
		if err != nil {
			t.Fatalf("ParseRange(FormatRange(m)) error = %v (notation %q)", err, s)
		}
		if got != m {
			t.Fatalf("round trip mismatch for %q", s)
		}
	}
}

func TestCombos(t *testing.T) {
	tests := []struct {
		hand      string
		wantCount int
		suited    bool
	}{
		{"AA", 6, false},
		{"AKs", 4, true},
		{"T9o", 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			c, err := hands.ParseCell(tt.hand)
			if err != nil {
				t.Fatalf("ParseCell(%q) error = %v", tt.hand, err)
			}
			combos := Combos(c)
			if len(combos) != tt.wantCount {
				t.Fatalf("Combos(%s) returned %d combos, want %d", tt.hand, len(combos), tt.wantCount)
			}
			seen := make(map[Combo]bool)
			for _, combo := range combos {
				if seen[combo] {
					t.Errorf("duplicate combo %v", combo)
				}
				seen[combo] = true
				if (combo.Card1.Suit == combo.Card2.Suit) != tt.suited {
					t.Errorf("combo %v has wrong suitedness", combo)
				}
				if combo.Card1.Rank != c.High() || combo.Card2.Rank != c.Low() {
					t.Errorf("combo %v does not match hand %s", combo, tt.hand)
				}
			}
		})
	}
}

func TestDeal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c, _ := hands.ParseCell("QJs")
	for i := 0; i < 20; i++ {
		combo := Deal(c, rng)
		if combo.Card1.Suit != combo.Card2.Suit {
			t.Fatalf("Deal(QJs) = %v, want suited", combo)
		}
		if got := combo.String(); len(got) != 4 || got[0] != 'Q' || got[2] != 'J' {
			t.Fatalf("Deal(QJs) = %q", got)
		}
	}
}
