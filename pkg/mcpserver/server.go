// Package mcpserver exposes a trainer session as MCP tools over stdio.
//
// Every tool shares one Guard, so calls reach the session one at a time.
package mcpserver

import (
	"context"
	"sync"

	"github.com/behrlich/range-trainer/pkg/history"
	"github.com/behrlich/range-trainer/pkg/session"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients.
var Version = "dev"

// StatsSource answers history queries. *history.Store implements it.
type StatsSource interface {
	ActionStats(ctx context.Context, rangeDict string) ([]history.ActionStats, error)
	MissedHands(ctx context.Context, rangeDict, action string, limit int) ([]history.HandStat, error)
}

// Guard serializes access to a session.
type Guard struct {
	mu   sync.Mutex
	sess *session.Session
}

// NewGuard wraps sess.
func NewGuard(sess *session.Session) *Guard {
	return &Guard{sess: sess}
}

// Do runs fn with the session locked.
func (g *Guard) Do(fn func(*session.Session) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.sess)
}

// New builds the MCP server with every trainer tool registered. stats may
// be nil, in which case quiz_stats reports that history is disabled.
func New(sess *session.Session, stats StatsSource) *server.MCPServer {
	s := server.NewMCPServer(
		"range-trainer",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	g := NewGuard(sess)

	listTool := NewListTool(g)
	s.AddTool(listTool.Definition(), listTool.Handle)

	selectTool := NewSelectTool(g)
	s.AddTool(selectTool.Definition(), selectTool.Handle)

	labelsTool := NewLabelsTool(g)
	s.AddTool(labelsTool.Definition(), labelsTool.Handle)

	setLabelTool := NewSetLabelTool(g)
	s.AddTool(setLabelTool.Definition(), setLabelTool.Handle)

	showTool := NewShowTool(g)
	s.AddTool(showTool.Definition(), showTool.Handle)

	checkTool := NewCheckTool(g)
	s.AddTool(checkTool.Definition(), checkTool.Handle)

	nextTool := NewQuizNextTool(g)
	s.AddTool(nextTool.Definition(), nextTool.Handle)

	answerTool := NewQuizAnswerTool(g)
	s.AddTool(answerTool.Definition(), answerTool.Handle)

	statsTool := NewStatsTool(g, stats)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	return s
}

// Serve runs the server on stdin and stdout until the client disconnects.
func Serve(sess *session.Session, stats StatsSource) error {
	return server.ServeStdio(New(sess, stats))
}

const instructions = `Preflop range trainer.

Pick a range dict with list_range_dicts and select_range_dict, then navigate
situations with applicable_labels and set_label. show_range prints the
reference range for the current situation; check_range grades a range you
enter in notation such as "77+,A9s+,KQs". quiz_next deals a hand and
quiz_answer grades your action. quiz_stats summarizes past quiz answers.`
