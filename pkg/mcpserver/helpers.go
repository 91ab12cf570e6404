package mcpserver

import (
	"fmt"
	"strings"

	"github.com/behrlich/range-trainer/pkg/cards"
	"github.com/behrlich/range-trainer/pkg/hands"
	"github.com/behrlich/range-trainer/pkg/notation"
	"github.com/behrlich/range-trainer/pkg/rangetree"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) (int, bool) {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal, false
	}
	return int(v), true
}

// writeRange renders a labelled range as notation plus a grid.
func writeRange(sb *strings.Builder, title string, m hands.Matrix) {
	r := notation.FormatRange(m)
	if r == "" {
		r = "(empty)"
	}
	fmt.Fprintf(sb, "**%s** (%d hands, %d combos): %s\n", title, m.Count(), m.Combos(), r)
}

func writeGrid(sb *strings.Builder, m hands.Matrix) {
	sb.WriteString("```\n")
	sb.WriteString("  " + spaced(cards.RankOrder) + "\n")
	for i, line := range strings.Split(m.String(), "\n") {
		fmt.Fprintf(sb, "%c %s\n", cards.RankOrder[i], spaced(line))
	}
	sb.WriteString("```\n")
}

func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}

func writePath(sb *strings.Builder, s rangetree.Schema, p rangetree.Path) {
	fmt.Fprintf(sb, "Situation: %s\n", p.Format(s))
}
