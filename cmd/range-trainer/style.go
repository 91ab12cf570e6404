package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/behrlich/range-trainer/pkg/hands"
	"github.com/behrlich/range-trainer/pkg/notation"
	"github.com/behrlich/range-trainer/pkg/quiz"
	"github.com/behrlich/range-trainer/pkg/session"
)

func situationTitle(s *session.Session) string {
	return s.Path().Format(s.Schema())
}

// printLabels lists the selectable labels per dimension, current one
// highlighted.
func printLabels(s *session.Session) {
	labels, err := s.ApplicableLabels()
	if err != nil {
		return
	}
	path := s.Path()
	var b strings.Builder
	for _, dim := range s.Schema().Names() {
		shown := make([]string, len(labels[dim]))
		for i, l := range labels[dim] {
			if l == path[dim] {
				shown[i] = pterm.LightCyan(l)
			} else {
				shown[i] = pterm.Gray(l)
			}
		}
		b.WriteString(pterm.Sprintfln("%-9s %s", dim, strings.Join(shown, "  ")))
	}
	pterm.Print(b.String())
}

// renderGrid draws the 13x13 hand grid, coloring each cell with color.
func renderGrid(color func(hands.Cell) func(a ...any) string) string {
	var b strings.Builder
	for i := 0; i < hands.Size; i++ {
		for j := 0; j < hands.Size; j++ {
			c := hands.Cell{Row: i, Col: j}
			b.WriteString(color(c)(fmt.Sprintf("%-4s", c)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func printRange(title string, m hands.Matrix) {
	grid := renderGrid(func(c hands.Cell) func(a ...any) string {
		if m.Has(c) {
			return pterm.LightGreen
		}
		return pterm.Gray
	})
	r := notation.FormatRange(m)
	if r == "" {
		r = "(empty)"
	}
	summary := pterm.Sprintfln("%s\n%d hands, %d combos", r, m.Count(), m.Combos())
	pbox := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(pterm.LightYellow("|" + title + "|")).WithTitleTopCenter()
	pbox.Println(grid + summary)
}

func printComparison(title string, cmp hands.Comparison) {
	grid := renderGrid(func(c hands.Cell) func(a ...any) string {
		switch {
		case cmp.Match.Has(c):
			return pterm.LightGreen
		case cmp.Over.Has(c):
			return pterm.LightRed
		case cmp.Under.Has(c):
			return pterm.LightYellow
		}
		return pterm.Gray
	})
	pbox := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(pterm.LightYellow("|" + title + "|")).WithTitleTopCenter()
	pbox.Println(grid + pterm.Sprintfln("%s correct  %s extra  %s missing",
		pterm.LightGreen(cmp.Match.Count()), pterm.LightRed(cmp.Over.Count()), pterm.LightYellow(cmp.Under.Count())))
	if cmp.Perfect() {
		pterm.Success.Println("Perfect!")
		return
	}
	if !cmp.Over.IsEmpty() {
		pterm.Info.Printfln("Extra: %s", notation.FormatRange(cmp.Over))
	}
	if !cmp.Under.IsEmpty() {
		pterm.Info.Printfln("Missing: %s", notation.FormatRange(cmp.Under))
	}
}

func printQuestion(q quiz.Question) {
	info := pterm.Sprintfln("Situation: %s", q.Situation.Path.Format(q.Situation.Schema))
	if q.Narrative != "" {
		info += pterm.Sprintfln("Action:    %s", q.Narrative)
	}
	info += pterm.Sprintfln("Hand:      %s  %s", pterm.LightCyan(q.Combo), pterm.Gray("("+q.Hand.String()+")"))
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTitle(pterm.LightYellow("|" + q.Action + "|")).WithTitleTopCenter()
	pbox.Println(info)
}

func printResult(res quiz.Result) {
	if res.Correct {
		pterm.Success.Printfln("%s with %s", res.CorrectOption, res.Question.Hand)
	} else {
		pterm.Error.Printfln("%s with %s, not %s", res.CorrectOption, res.Question.Hand, res.Answer)
	}
	printRange(res.AnsweredAs+" range", res.Feedback)
}
