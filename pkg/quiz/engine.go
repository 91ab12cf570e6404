// Package quiz draws hands from a reference range and grades answers
// against it.
//
// The tables in Config decide which answers are offered, which sibling
// actions are consulted when a hand is outside the current range, and how
// answer labels such as "Call" map to actions. Engine is not safe for
// concurrent use.
package quiz

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/behrlich/range-trainer/pkg/hands"
	"github.com/behrlich/range-trainer/pkg/notation"
	"github.com/behrlich/range-trainer/pkg/rangetree"
)

// Situation is the tree and path a question is asked about.
type Situation struct {
	Root   rangetree.Branch
	Schema rangetree.Schema
	Path   rangetree.Path
}

// State of the quiz state machine.
type State int

const (
	// Idle means no hand has been drawn yet.
	Idle State = iota
	AwaitingAnswer
	Graded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingAnswer:
		return "awaiting answer"
	case Graded:
		return "graded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Question is a drawn hand together with what the player is shown.
type Question struct {
	Situation Situation
	Action    string
	Hand      hands.Cell
	Combo     notation.Combo
	Narrative string
	Options   []string
}

// Result is the outcome of grading one answer.
type Result struct {
	Question      Question
	Answer        string
	AnsweredAs    string // canonical action of Answer
	Correct       bool
	CorrectAction string
	CorrectOption string // answer label of CorrectAction
	Feedback      hands.Matrix
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used to draw hands and paths.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the logger used for grading events.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMarginalOnly restricts draws to the boundary cells of the current
// action's companion ranges.
func WithMarginalOnly(on bool) Option {
	return func(e *Engine) { e.marginalOnly = on }
}

// WithRandomizePath picks a random path through the tree before each draw.
func WithRandomizePath(on bool) Option {
	return func(e *Engine) { e.randomizePath = on }
}

// Engine grades answers with a Config and runs the question/answer cycle.
type Engine struct {
	cfg           Config
	rng           *rand.Rand
	log           *slog.Logger
	marginalOnly  bool
	randomizePath bool

	state    State
	question Question
}

// NewEngine returns an engine using cfg. cfg is not validated here; call
// Config.Validate against the schema first.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Config returns the engine's tables.
func (e *Engine) Config() Config { return e.cfg }

// SetMarginalOnly changes the draw pool for later questions.
func (e *Engine) SetMarginalOnly(on bool) { e.marginalOnly = on }

// SetRandomizePath changes whether later questions pick a random path.
func (e *Engine) SetRandomizePath(on bool) { e.randomizePath = on }

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Current returns the last question drawn, if any.
func (e *Engine) Current() (Question, bool) {
	return e.question, e.state != Idle
}

// Reset drops the current question and returns to Idle.
func (e *Engine) Reset() {
	e.state = Idle
	e.question = Question{}
}

// Action returns the current action of sit.
func (e *Engine) Action(sit Situation) string {
	return sit.Path[e.cfg.ActionDimension]
}

// ActionRange returns the range of action at sit's path with the action
// dimension replaced. An action absent at that path has an empty range.
func (e *Engine) ActionRange(sit Situation, action string) hands.Matrix {
	m, err := rangetree.MatrixAt(sit.Root, sit.Schema, sit.Path.With(e.cfg.ActionDimension, action))
	if err != nil {
		return hands.Matrix{}
	}
	return m
}

// CorrectAction returns the action hand belongs to: the current action if
// its range holds the hand, else the first alternative whose range does,
// else Check for check-fallback actions and Fold otherwise.
func (e *Engine) CorrectAction(sit Situation, hand hands.Cell) string {
	current := e.Action(sit)
	if e.ActionRange(sit, current).Has(hand) {
		return current
	}
	for _, alt := range e.cfg.Alternatives[current] {
		if e.ActionRange(sit, alt).Has(hand) {
			return alt
		}
	}
	if slices.Contains(e.cfg.CheckFallback, current) {
		return Check
	}
	return Fold
}

// CombinedAlternatives is the union of the current range and every
// alternative's range. Folding is correct only outside it.
func (e *Engine) CombinedAlternatives(sit Situation) hands.Matrix {
	current := e.Action(sit)
	combined := e.ActionRange(sit, current)
	for _, alt := range e.cfg.Alternatives[current] {
		combined = combined.Union(e.ActionRange(sit, alt))
	}
	return combined
}

// Grade reports whether answer is correct for hand.
func (e *Engine) Grade(sit Situation, hand hands.Cell, answer string) (bool, error) {
	current := e.Action(sit)
	action, err := e.cfg.Translate(sit.Schema, answer, current)
	if err != nil {
		return false, err
	}
	switch action {
	case current:
		return e.ActionRange(sit, current).Has(hand), nil
	case Check:
		return !e.ActionRange(sit, current).Has(hand), nil
	case Fold:
		return !e.CombinedAlternatives(sit).Has(hand), nil
	default:
		return e.ActionRange(sit, action).Has(hand), nil
	}
}

// FeedbackRange returns the range to display after answering: the combined
// alternatives for Fold, the current range for Check, and the answered
// action's range otherwise.
func (e *Engine) FeedbackRange(sit Situation, answer string) (hands.Matrix, error) {
	switch answer {
	case Fold:
		return e.CombinedAlternatives(sit), nil
	case Check:
		return e.ActionRange(sit, e.Action(sit)), nil
	}
	action, err := e.cfg.Translate(sit.Schema, answer, e.Action(sit))
	if err != nil {
		return hands.Matrix{}, err
	}
	return e.ActionRange(sit, action), nil
}

// MarginalPool returns the boundary cells of the current action's
// companion ranges.
func (e *Engine) MarginalPool(sit Situation) []hands.Cell {
	companions := e.cfg.Companions(e.Action(sit))
	ranges := make([]hands.Matrix, len(companions))
	for i, a := range companions {
		ranges[i] = e.ActionRange(sit, a)
	}
	return hands.MarginalCellsUnion(ranges...)
}

// DrawHand samples a cell uniformly, from the marginal pool when
// marginalOnly is set. A uniform range has no boundary, so an empty pool
// falls back to all cells.
func (e *Engine) DrawHand(sit Situation, marginalOnly bool) hands.Cell {
	var pool []hands.Cell
	if marginalOnly {
		pool = e.MarginalPool(sit)
	}
	if len(pool) == 0 {
		pool = hands.AllCells()
	}
	return pool[e.rng.Intn(len(pool))]
}

// Narrative describes the action before hero's decision, or "" when the
// tables have nothing for the situation.
func (e *Engine) Narrative(sit Situation) string {
	n, ok := e.cfg.Narratives[e.Action(sit)]
	if !ok {
		return ""
	}
	if e.cfg.PositionDimension != "" {
		if text, ok := n.Position[sit.Path[e.cfg.PositionDimension]]; ok {
			return text
		}
	}
	if e.cfg.VSDimension != "" {
		if text, ok := n.VS[sit.Path[e.cfg.VSDimension]]; ok {
			return text
		}
	}
	return n.Default
}

// Next draws a new question and moves to AwaitingAnswer. With path
// randomization the question's path may differ from sit.Path; callers
// should adopt Question.Situation.Path.
func (e *Engine) Next(sit Situation) (Question, error) {
	if e.randomizePath {
		sit.Path = rangetree.RandomPath(sit.Root, sit.Schema, e.rng)
	}
	if _, err := rangetree.LeafAt(sit.Root, sit.Schema, sit.Path); err != nil {
		return Question{}, fmt.Errorf("draw hand: %w", err)
	}

	action := e.Action(sit)
	hand := e.DrawHand(sit, e.marginalOnly)
	e.question = Question{
		Situation: sit,
		Action:    action,
		Hand:      hand,
		Combo:     notation.Deal(hand, e.rng),
		Narrative: e.Narrative(sit),
		Options:   slices.Clone(e.cfg.Options[action]),
	}
	e.state = AwaitingAnswer
	return e.question, nil
}

// Answer grades answer for the current question and moves to Graded.
// A translation failure leaves the question awaiting an answer.
func (e *Engine) Answer(answer string) (Result, error) {
	switch e.state {
	case Idle:
		return Result{}, ErrNoHand
	case Graded:
		return Result{}, ErrNotAwaitingAnswer
	}

	q := e.question
	correct, err := e.Grade(q.Situation, q.Hand, answer)
	if err != nil {
		return Result{}, err
	}
	answeredAs, _ := e.cfg.Translate(q.Situation.Schema, answer, q.Action)
	feedback, _ := e.FeedbackRange(q.Situation, answer)
	correctAction := e.CorrectAction(q.Situation, q.Hand)

	res := Result{
		Question:      q,
		Answer:        answer,
		AnsweredAs:    answeredAs,
		Correct:       correct,
		CorrectAction: correctAction,
		CorrectOption: e.cfg.OptionFor(correctAction),
		Feedback:      feedback,
	}
	e.state = Graded
	e.log.Info("quiz answer graded",
		slog.String("path", q.Situation.Path.Format(q.Situation.Schema)),
		slog.String("hand", q.Hand.String()),
		slog.String("answer", answer),
		slog.String("correct_action", correctAction),
		slog.Bool("correct", correct))
	return res, nil
}
