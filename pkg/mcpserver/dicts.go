package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/behrlich/range-trainer/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListTool handles list_range_dicts.
type ListTool struct {
	g *Guard
}

// NewListTool creates a ListTool.
func NewListTool(g *Guard) *ListTool {
	return &ListTool{g: g}
}

// Definition returns the MCP tool definition for list_range_dicts.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("list_range_dicts",
		mcp.WithDescription("List the registered range dicts with their index and file. "+
			"Dicts without a file have never been saved and cannot be selected."),
	)
}

// Handle processes the list_range_dicts tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	t.g.Do(func(s *session.Session) error {
		current, _ := s.Current()
		recs := s.RangeDicts()
		if len(recs) == 0 {
			sb.WriteString("No range dicts registered.\n")
			return nil
		}
		sb.WriteString("## Range dicts\n\n")
		for i, rec := range recs {
			file := "(unsaved)"
			if rec.HasFile() {
				file = *rec.Filepath
			}
			marker := ""
			if i == current {
				marker = " (selected)"
			}
			fmt.Fprintf(&sb, "%d. **%s** %s%s\n", i, rec.Name, file, marker)
		}
		return nil
	})
	return mcp.NewToolResultText(sb.String()), nil
}

// SelectTool handles select_range_dict.
type SelectTool struct {
	g *Guard
}

// NewSelectTool creates a SelectTool.
func NewSelectTool(g *Guard) *SelectTool {
	return &SelectTool{g: g}
}

// Definition returns the MCP tool definition for select_range_dict.
func (t *SelectTool) Definition() mcp.Tool {
	return mcp.NewTool("select_range_dict",
		mcp.WithDescription("Select a range dict by its index from list_range_dicts. "+
			"The situation resets to the first applicable label of every dimension."),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Index of the range dict"),
		),
	)
}

// Handle processes the select_range_dict tool call.
func (t *SelectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	i, ok := intArg(req, "index", 0)
	if !ok {
		return mcp.NewToolResultError("'index' is required"), nil
	}

	var sb strings.Builder
	err := t.g.Do(func(s *session.Session) error {
		if err := s.SelectRangeDict(i); err != nil {
			return err
		}
		_, name := s.Current()
		fmt.Fprintf(&sb, "Selected **%s**.\n", name)
		writePath(&sb, s.Schema(), s.Path())
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("select failed: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}
