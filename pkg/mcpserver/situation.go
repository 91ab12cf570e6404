package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/behrlich/range-trainer/pkg/notation"
	"github.com/behrlich/range-trainer/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// LabelsTool handles applicable_labels.
type LabelsTool struct {
	g *Guard
}

// NewLabelsTool creates a LabelsTool.
func NewLabelsTool(g *Guard) *LabelsTool {
	return &LabelsTool{g: g}
}

// Definition returns the MCP tool definition for applicable_labels.
func (t *LabelsTool) Definition() mcp.Tool {
	return mcp.NewTool("applicable_labels",
		mcp.WithDescription("Show the current situation and, for every dimension, "+
			"the labels that can be selected given the labels chosen before it."),
	)
}

// Handle processes the applicable_labels tool call.
func (t *LabelsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	err := t.g.Do(func(s *session.Session) error {
		labels, err := s.ApplicableLabels()
		if err != nil {
			return err
		}
		path := s.Path()
		writePath(&sb, s.Schema(), path)
		sb.WriteString("\n")
		for _, dim := range s.Schema().Names() {
			opts := labels[dim]
			shown := make([]string, len(opts))
			for i, l := range opts {
				if l == path[dim] {
					shown[i] = "[" + l + "]"
				} else {
					shown[i] = l
				}
			}
			fmt.Fprintf(&sb, "- **%s**: %s\n", dim, strings.Join(shown, ", "))
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// SetLabelTool handles set_label.
type SetLabelTool struct {
	g *Guard
}

// NewSetLabelTool creates a SetLabelTool.
func NewSetLabelTool(g *Guard) *SetLabelTool {
	return &SetLabelTool{g: g}
}

// Definition returns the MCP tool definition for set_label.
func (t *SetLabelTool) Definition() mcp.Tool {
	return mcp.NewTool("set_label",
		mcp.WithDescription("Choose a label for one dimension. Later dimensions are moved "+
			"to their first applicable label when the old one no longer exists."),
		mcp.WithString("dimension",
			mcp.Required(),
			mcp.Description("Dimension name, e.g. Position"),
		),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Label to select, e.g. CO"),
		),
	)
}

// Handle processes the set_label tool call.
func (t *SetLabelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dim := req.GetString("dimension", "")
	label := req.GetString("label", "")
	if dim == "" || label == "" {
		return mcp.NewToolResultError("'dimension' and 'label' are required"), nil
	}

	var sb strings.Builder
	err := t.g.Do(func(s *session.Session) error {
		if err := s.SetLabel(dim, label); err != nil {
			return err
		}
		writePath(&sb, s.Schema(), s.Path())
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ShowTool handles show_range.
type ShowTool struct {
	g *Guard
}

// NewShowTool creates a ShowTool.
func NewShowTool(g *Guard) *ShowTool {
	return &ShowTool{g: g}
}

// Definition returns the MCP tool definition for show_range.
func (t *ShowTool) Definition() mcp.Tool {
	return mcp.NewTool("show_range",
		mcp.WithDescription("Show the reference range of the current situation "+
			"in range notation and as a 13x13 grid (x = in range)."),
	)
}

// Handle processes the show_range tool call.
func (t *ShowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	err := t.g.Do(func(s *session.Session) error {
		ref, err := s.Reference()
		if err != nil {
			return err
		}
		writePath(&sb, s.Schema(), s.Path())
		writeRange(&sb, "Range", ref)
		writeGrid(&sb, ref)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// CheckTool handles check_range.
type CheckTool struct {
	g *Guard
}

// NewCheckTool creates a CheckTool.
func NewCheckTool(g *Guard) *CheckTool {
	return &CheckTool{g: g}
}

// Definition returns the MCP tool definition for check_range.
func (t *CheckTool) Definition() mcp.Tool {
	return mcp.NewTool("check_range",
		mcp.WithDescription("Grade a range entered from memory against the reference "+
			"range of the current situation."),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description(`Range notation, e.g. "77+,A9s+,KQs,AJo+"`),
		),
	)
}

// Handle processes the check_range tool call.
func (t *CheckTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entered, err := notation.ParseRange(req.GetString("range", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid range: %v", err)), nil
	}

	var sb strings.Builder
	err = t.g.Do(func(s *session.Session) error {
		s.EnterRange(entered)
		cmp, err := s.Check()
		if err != nil {
			return err
		}
		writePath(&sb, s.Schema(), s.Path())
		if cmp.Perfect() {
			sb.WriteString("Perfect.\n")
		}
		writeRange(&sb, "Correct", cmp.Match)
		writeRange(&sb, "Extra", cmp.Over)
		writeRange(&sb, "Missing", cmp.Under)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}
