package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/behrlich/range-trainer/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// QuizNextTool handles quiz_next.
type QuizNextTool struct {
	g *Guard
}

// NewQuizNextTool creates a QuizNextTool.
func NewQuizNextTool(g *Guard) *QuizNextTool {
	return &QuizNextTool{g: g}
}

// Definition returns the MCP tool definition for quiz_next.
func (t *QuizNextTool) Definition() mcp.Tool {
	return mcp.NewTool("quiz_next",
		mcp.WithDescription("Deal a quiz hand for the current situation and list the answers "+
			"to choose from. Answer with quiz_answer."),
		mcp.WithBoolean("randomize",
			mcp.Description("Pick a random situation for this and later hands"),
		),
		mcp.WithBoolean("marginal_only",
			mcp.Description("Deal only hands on the edge of the range"),
		),
	)
}

// Handle processes the quiz_next tool call.
func (t *QuizNextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var sb strings.Builder
	err := t.g.Do(func(s *session.Session) error {
		if v, ok := args["randomize"].(bool); ok {
			s.SetRandomizePath(v)
		}
		if v, ok := args["marginal_only"].(bool); ok {
			s.SetMarginalOnly(v)
		}
		q, err := s.NextHand()
		if err != nil {
			return err
		}
		writePath(&sb, q.Situation.Schema, q.Situation.Path)
		if q.Narrative != "" {
			fmt.Fprintf(&sb, "Action: %s\n", q.Narrative)
		}
		fmt.Fprintf(&sb, "Hand: **%s** (%s)\n", q.Combo, q.Hand)
		fmt.Fprintf(&sb, "Options: %s\n", strings.Join(q.Options, ", "))
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// QuizAnswerTool handles quiz_answer.
type QuizAnswerTool struct {
	g *Guard
}

// NewQuizAnswerTool creates a QuizAnswerTool.
func NewQuizAnswerTool(g *Guard) *QuizAnswerTool {
	return &QuizAnswerTool{g: g}
}

// Definition returns the MCP tool definition for quiz_answer.
func (t *QuizAnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("quiz_answer",
		mcp.WithDescription("Answer the hand dealt by quiz_next with one of its options."),
		mcp.WithString("answer",
			mcp.Required(),
			mcp.Description("One of the options listed by quiz_next, e.g. Raise or Fold"),
		),
	)
}

// Handle processes the quiz_answer tool call.
func (t *QuizAnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answer := req.GetString("answer", "")
	if answer == "" {
		return mcp.NewToolResultError("'answer' is required"), nil
	}

	var sb strings.Builder
	err := t.g.Do(func(s *session.Session) error {
		res, err := s.Answer(ctx, answer)
		if err != nil {
			return err
		}
		if res.Correct {
			fmt.Fprintf(&sb, "Correct: %s with %s.\n", res.CorrectOption, res.Question.Hand)
		} else {
			fmt.Fprintf(&sb, "Wrong: %s with %s, not %s.\n", res.CorrectOption, res.Question.Hand, answer)
		}
		writeRange(&sb, res.AnsweredAs+" range", res.Feedback)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// StatsTool handles quiz_stats.
type StatsTool struct {
	g     *Guard
	stats StatsSource
}

// NewStatsTool creates a StatsTool. stats may be nil.
func NewStatsTool(g *Guard, stats StatsSource) *StatsTool {
	return &StatsTool{g: g, stats: stats}
}

// Definition returns the MCP tool definition for quiz_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("quiz_stats",
		mcp.WithDescription("Summarize past quiz answers for the selected range dict: "+
			"accuracy per action and the most missed hands."),
		mcp.WithString("action",
			mcp.Description("Only list missed hands for this action"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max missed hands (default: 10)"),
		),
	)
}

// Handle processes the quiz_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.stats == nil {
		return mcp.NewToolResultError("quiz history is disabled"), nil
	}
	var name string
	t.g.Do(func(s *session.Session) error {
		_, name = s.Current()
		return nil
	})
	if name == "" {
		return mcp.NewToolResultError(session.ErrNoRangeDict.Error()), nil
	}
	action := req.GetString("action", "")
	limit, _ := intArg(req, "limit", 10)

	actions, err := t.stats.ActionStats(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}
	missed, err := t.stats.MissedHands(ctx, name, action, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Quiz stats for %s\n\n", name)
	if len(actions) == 0 {
		sb.WriteString("No answers recorded yet.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}
	for _, a := range actions {
		fmt.Fprintf(&sb, "- **%s**: %d/%d (%.0f%%)\n", a.Action, a.Correct, a.Attempts, 100*a.Accuracy())
	}
	if len(missed) > 0 {
		sb.WriteString("\n### Most missed\n\n")
		for _, h := range missed {
			fmt.Fprintf(&sb, "- %s: missed %d of %d\n", h.Hand, h.Misses, h.Attempts)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
