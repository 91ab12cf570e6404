package quiz

import (
	"slices"

	"github.com/behrlich/range-trainer/pkg/rangetree"
)

// Six-handed table positions in preflop acting order.
var SixMaxPositions = []string{"UTG", "HJ", "CO", "BN", "SB", "BB"}

// Preflop actions of the six-handed schema.
var SixMaxActions = []string{
	"RFI", "Call RFI", "3bet", "Call 3bet", "4bet",
	"Limp/fold", "Limp/call", "Limp/3bet", "Raise vs limp",
}

var limpActions = []string{"Limp/fold", "Limp/call", "Limp/3bet"}

// SixMaxSchema returns the Position / Action / VS schema used by the
// built-in quiz tables.
func SixMaxSchema() rangetree.Schema {
	return rangetree.Schema{
		{Name: "Position", Labels: slices.Clone(SixMaxPositions)},
		{Name: "Action", Labels: slices.Clone(SixMaxActions)},
		{Name: "VS", Labels: slices.Clone(SixMaxPositions)},
	}
}

// SixMaxShape restricts a new six-handed tree to situations that arise:
// opens have no villain, calls and 3bets face an earlier opener, 4bets face
// a later 3bettor, and limped pots are SB versus BB only.
func SixMaxShape() rangetree.Shape {
	seat := func(pos string) int { return slices.Index(SixMaxPositions, pos) }
	return rangetree.Shape{
		Include: func(prefix rangetree.Path, dim, label string) bool {
			hero := prefix["Position"]
			switch dim {
			case "Action":
				switch {
				case label == "RFI":
					return hero != "BB"
				case label == "Call RFI" || label == "3bet":
					return hero != "UTG"
				case label == "Call 3bet" || label == "4bet":
					return hero != "BB"
				case slices.Contains(limpActions, label):
					return hero == "SB"
				case label == "Raise vs limp":
					return hero == "BB"
				}
			case "VS":
				switch action := prefix["Action"]; {
				case action == "Call RFI" || action == "3bet":
					return seat(label) < seat(hero)
				case action == "Call 3bet" || action == "4bet":
					return seat(label) > seat(hero)
				case slices.Contains(limpActions, action):
					return label == "BB"
				case action == "Raise vs limp":
					return label == "SB"
				}
				return false
			}
			return true
		},
		Terminal: func(prefix rangetree.Path) bool {
			return prefix["Action"] == "RFI"
		},
	}
}

// DefaultConfig returns the quiz tables for SixMaxSchema.
func DefaultConfig() Config {
	limpOptions := []string{"Limp/fold", "Limp/call", "Limp/3bet", Fold}

	cfg := Config{
		ActionDimension:   "Action",
		PositionDimension: "Position",
		VSDimension:       "VS",
		Options: map[string][]string{
			"RFI":           {"Raise", Fold},
			"Call RFI":      {"Call", "3bet", Fold},
			"3bet":          {"Call", "3bet", Fold},
			"Call 3bet":     {"Call", "4bet", Fold},
			"4bet":          {"Call", "4bet", Fold},
			"Limp/fold":     slices.Clone(limpOptions),
			"Limp/call":     slices.Clone(limpOptions),
			"Limp/3bet":     slices.Clone(limpOptions),
			"Raise vs limp": {"Raise", Check},
		},
		Alternatives: map[string][]string{
			"RFI":           {},
			"Call RFI":      {"3bet"},
			"3bet":          {"Call RFI"},
			"Call 3bet":     {"4bet"},
			"4bet":          {"Call 3bet"},
			"Limp/fold":     {"RFI", "Limp/call", "Limp/3bet"},
			"Limp/call":     {"RFI", "Limp/fold", "Limp/3bet"},
			"Limp/3bet":     {"RFI", "Limp/fold", "Limp/call"},
			"Raise vs limp": {},
		},
		AnswerActions: map[string]map[string]string{
			"Call": {
				"Call RFI":  "Call RFI",
				"3bet":      "Call RFI",
				"Call 3bet": "Call 3bet",
				"4bet":      "Call 3bet",
			},
			"Raise": {
				"RFI":           "RFI",
				"Raise vs limp": "Raise vs limp",
			},
		},
		ActionOptions: map[string]string{
			"RFI":           "Raise",
			"Call RFI":      "Call",
			"Call 3bet":     "Call",
			"Raise vs limp": "Raise",
		},
		MarginalCompanions: map[string][]string{
			"Call RFI":  {"Call RFI", "3bet"},
			"3bet":      {"Call RFI", "3bet"},
			"Call 3bet": {"Call 3bet", "4bet"},
			"4bet":      {"Call 3bet", "4bet"},
			"Limp/fold": slices.Clone(limpActions),
			"Limp/call": slices.Clone(limpActions),
			"Limp/3bet": slices.Clone(limpActions),
		},
		CheckFallback: []string{"Raise vs limp"},
		Narratives: map[string]Narrative{
			"RFI": {
				Default:  "Folded down.",
				Position: map[string]string{"UTG": "None (First to act)"},
			},
			"Limp/fold":     {Default: "Folded down."},
			"Limp/call":     {Default: "Folded down."},
			"Limp/3bet":     {Default: "Folded down."},
			"Raise vs limp": {Default: "SB limps."},
		},
	}

	opens := map[string]string{}
	threeBets := map[string]string{}
	for _, v := range SixMaxPositions {
		if v != "BB" {
			opens[v] = v + " opens."
		}
		if v != "UTG" {
			threeBets[v] = "Hero opens. " + v + " 3bets."
		}
	}
	cfg.Narratives["Call RFI"] = Narrative{VS: opens}
	cfg.Narratives["3bet"] = Narrative{VS: opens}
	cfg.Narratives["Call 3bet"] = Narrative{VS: threeBets}
	cfg.Narratives["4bet"] = Narrative{VS: threeBets}
	return cfg
}
