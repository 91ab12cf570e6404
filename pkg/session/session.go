// Package session is the controller behind every frontend: it owns the
// registry, the selected range dict, the selection path, editing and
// practice state, and the quiz.
//
// A Session is not safe for concurrent use. Drive it from one goroutine or
// guard it with a lock, as the MCP server does.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/behrlich/range-trainer/pkg/hands"
	"github.com/behrlich/range-trainer/pkg/history"
	"github.com/behrlich/range-trainer/pkg/notation"
	"github.com/behrlich/range-trainer/pkg/quiz"
	"github.com/behrlich/range-trainer/pkg/rangedict"
	"github.com/behrlich/range-trainer/pkg/rangetree"
	"github.com/google/uuid"
)

var (
	// ErrNoRangeDict is returned by operations that need a selected range dict.
	ErrNoRangeDict = errors.New("no range dict selected")
	// ErrNotEditing is returned by reference edits outside editing mode.
	ErrNotEditing = errors.New("not in editing mode")
	// ErrEmptyClipboard is returned by PasteRange before any CopyRange.
	ErrEmptyClipboard = errors.New("no range copied")
)

// FileExt is appended to save targets that lack it.
const FileExt = ".json"

// AttemptRecorder stores graded quiz answers. *history.Store implements it.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, a history.Attempt) (string, error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. It is also handed to the quiz engine.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithQuizConfig replaces the built-in six-handed quiz tables.
func WithQuizConfig(cfg quiz.Config) Option {
	return func(s *Session) { s.quizCfg = cfg }
}

// WithQuizOptions passes options to the session's quiz engine.
func WithQuizOptions(opts ...quiz.Option) Option {
	return func(s *Session) { s.quizOpts = append(s.quizOpts, opts...) }
}

// WithRecorder records every graded answer.
func WithRecorder(r AttemptRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

// Session holds the state of one user interacting with the trainer.
type Session struct {
	log      *slog.Logger
	registry *rangedict.Registry
	recorder AttemptRecorder
	runID    string

	// dicts caches every range dict loaded or created, by registry index.
	dicts map[int]*rangedict.RangeDict
	index int
	dict  *rangedict.RangeDict
	path  rangetree.Path

	editing    bool
	dragSelect bool
	clipboard  *hands.Matrix
	entered    hands.Matrix

	quizCfg  quiz.Config
	quizOpts []quiz.Option
	engine   *quiz.Engine
}

// New returns a session over reg with no range dict selected.
func New(reg *rangedict.Registry, opts ...Option) *Session {
	s := &Session{
		registry: reg,
		runID:    uuid.New().String(),
		dicts:    make(map[int]*rangedict.RangeDict),
		index:    -1,
		quizCfg:  quiz.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	engineOpts := append([]quiz.Option{quiz.WithLogger(s.log)}, s.quizOpts...)
	s.engine = quiz.NewEngine(s.quizCfg, engineOpts...)
	return s
}

// RunID identifies this session's quiz attempts in the history.
func (s *Session) RunID() string { return s.runID }

// RangeDicts returns the registry records.
func (s *Session) RangeDicts() []rangedict.Record {
	return s.registry.Records()
}

// Current returns the index and name of the selected range dict, or -1.
func (s *Session) Current() (int, string) {
	if s.dict == nil {
		return -1, ""
	}
	rec, _ := s.registry.Get(s.index)
	return s.index, rec.Name
}

// Schema returns the selected range dict's schema.
func (s *Session) Schema() rangetree.Schema {
	if s.dict == nil {
		return nil
	}
	return s.dict.Schema
}

// SelectRangeDict makes record i current, loading it on first use. The path
// starts at the first label of every dimension and is then repaired. On
// failure the previous selection is kept.
func (s *Session) SelectRangeDict(i int) error {
	d, ok := s.dicts[i]
	if !ok {
		loaded, err := s.registry.Load(i)
		if err != nil {
			return err
		}
		d = loaded
		s.dicts[i] = d
		rec, _ := s.registry.Get(i)
		s.log.Info("range dict loaded", slog.String("name", rec.Name), slog.String("file", *rec.Filepath))
	}

	s.index = i
	s.dict = d
	s.path = rangetree.RepairPath(d.Contents, d.Schema, d.Schema.DefaultPath())
	s.entered = hands.Matrix{}
	s.engine.Reset()
	return nil
}

// NewRangeDict registers a new, unsaved range dict with an empty tree,
// selects it and enters editing mode.
func (s *Session) NewRangeDict(name string, schema rangetree.Schema, shape rangetree.Shape) (int, error) {
	root, err := rangetree.NewEmpty(schema, shape)
	if err != nil {
		return 0, err
	}
	i, err := s.registry.Add(name)
	if err != nil {
		return 0, err
	}
	if err := s.registry.Save(); err != nil {
		s.registry.Remove(i)
		return 0, err
	}
	s.log.Info("registry written", slog.String("file", s.registry.Path()), slog.Int("records", s.registry.Len()))

	s.dicts[i] = &rangedict.RangeDict{Schema: schema, Contents: root}
	if err := s.SelectRangeDict(i); err != nil {
		return 0, err
	}
	s.editing = true
	return i, nil
}

// AddRangeDict registers an already decoded range dict under name and
// selects it. The registry file is not rewritten; call Save to persist.
func (s *Session) AddRangeDict(name string, d *rangedict.RangeDict) (int, error) {
	if err := d.Schema.Validate(); err != nil {
		return 0, err
	}
	if err := rangetree.Validate(d.Contents, d.Schema); err != nil {
		return 0, err
	}
	i, err := s.registry.Add(name)
	if err != nil {
		return 0, err
	}
	s.dicts[i] = d
	if err := s.SelectRangeDict(i); err != nil {
		return 0, err
	}
	return i, nil
}

// Save writes the selected range dict to target and records the location in
// the registry. FileExt is appended when missing. An empty target reuses
// the record's file, or <registry dir>/<name>.json for a new dict.
func (s *Session) Save(target string) (string, error) {
	if s.dict == nil {
		return "", ErrNoRangeDict
	}
	rec, err := s.registry.Get(s.index)
	if err != nil {
		return "", err
	}
	if target == "" {
		if rec.HasFile() {
			target, _ = s.registry.Resolve(rec)
		} else {
			target = filepath.Join(filepath.Dir(s.registry.Path()), rec.Name+FileExt)
		}
	}
	if !strings.HasSuffix(target, FileExt) {
		target += FileExt
	}

	if err := s.dict.SaveToFile(target); err != nil {
		return "", err
	}
	var old string
	if rec.HasFile() {
		old = *rec.Filepath
	}
	if err := s.registry.SetFilepath(s.index, s.registryRelative(target)); err != nil {
		return "", err
	}
	if err := s.registry.Save(); err != nil {
		s.registry.SetFilepath(s.index, old)
		return "", err
	}
	s.log.Info("range dict saved", slog.String("name", rec.Name), slog.String("file", target))
	return target, nil
}

// Export encodes the selected range dict in the file format written by Save.
func (s *Session) Export() ([]byte, error) {
	if s.dict == nil {
		return nil, ErrNoRangeDict
	}
	return s.dict.ToJSON()
}

// registryRelative expresses target relative to the registry directory
// when it lies inside it, and as an absolute path otherwise.
func (s *Session) registryRelative(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	dir, err := filepath.Abs(filepath.Dir(s.registry.Path()))
	if err != nil {
		return abs
	}
	if rel, err := filepath.Rel(dir, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return abs
}

// Path returns a copy of the selection path.
func (s *Session) Path() rangetree.Path {
	return s.path.Clone()
}

// ApplicableLabels returns the selectable labels per dimension.
func (s *Session) ApplicableLabels() (map[string][]string, error) {
	if s.dict == nil {
		return nil, ErrNoRangeDict
	}
	return rangetree.ApplicableLabels(s.dict.Contents, s.dict.Schema, s.path), nil
}

// SetLabel selects label for a dimension and repairs the rest of the path.
func (s *Session) SetLabel(dimension, label string) error {
	if s.dict == nil {
		return ErrNoRangeDict
	}
	if !s.dict.Schema.HasLabel(dimension, label) {
		return fmt.Errorf("%q is not a label of dimension %q", label, dimension)
	}
	want := s.path.With(dimension, label)
	s.path = rangetree.RepairPath(s.dict.Contents, s.dict.Schema, want)
	for _, dim := range s.dict.Schema.Names() {
		if want[dim] != s.path[dim] {
			s.log.Debug("path repaired",
				slog.String("dimension", dim),
				slog.String("from", want[dim]),
				slog.String("to", s.path[dim]))
		}
	}
	return nil
}

func (s *Session) leaf() (*rangetree.Leaf, error) {
	if s.dict == nil {
		return nil, ErrNoRangeDict
	}
	return rangetree.LeafAt(s.dict.Contents, s.dict.Schema, s.path)
}

// Reference returns the reference range at the selection path.
func (s *Session) Reference() (hands.Matrix, error) {
	l, err := s.leaf()
	if err != nil {
		return hands.Matrix{}, err
	}
	return l.Hands, nil
}

// Editing reports whether toggles change the reference range.
func (s *Session) Editing() bool { return s.editing }

// SetEditing switches between editing the reference and practicing.
func (s *Session) SetEditing(on bool) { s.editing = on }

// DragSelect reports whether pointer-enter toggles cells.
func (s *Session) DragSelect() bool { return s.dragSelect }

// SetDragSelect is driven by the modifier key going down and up.
func (s *Session) SetDragSelect(on bool) { s.dragSelect = on }

// ToggleCell flips cell (i,j) of the reference range in editing mode and of
// the entered practice range otherwise. It returns the new value.
func (s *Session) ToggleCell(i, j int) (bool, error) {
	if !s.editing {
		return s.entered.Toggle(i, j)
	}
	l, err := s.leaf()
	if err != nil {
		return false, err
	}
	return l.Hands.Toggle(i, j)
}

// PointerEnter toggles (i,j) while drag-select is active and reports
// whether it did.
func (s *Session) PointerEnter(i, j int) (bool, error) {
	if !s.dragSelect {
		return false, nil
	}
	if _, err := s.ToggleCell(i, j); err != nil {
		return false, err
	}
	return true, nil
}

// CopyRange copies the reference range at the selection path.
func (s *Session) CopyRange() error {
	m, err := s.Reference()
	if err != nil {
		return err
	}
	s.clipboard = &m
	return nil
}

// PasteRange overwrites the reference range with the copied one.
func (s *Session) PasteRange() error {
	if !s.editing {
		return ErrNotEditing
	}
	if s.clipboard == nil {
		return ErrEmptyClipboard
	}
	l, err := s.leaf()
	if err != nil {
		return err
	}
	l.Hands = *s.clipboard
	return nil
}

// SetReferenceFromNotation replaces the reference range with a parsed
// range such as "77+,A9s+,KQs".
func (s *Session) SetReferenceFromNotation(r string) error {
	if !s.editing {
		return ErrNotEditing
	}
	m, err := notation.ParseRange(r)
	if err != nil {
		return err
	}
	l, err := s.leaf()
	if err != nil {
		return err
	}
	l.Hands = m
	return nil
}

// Entered returns the practice range entered so far.
func (s *Session) Entered() hands.Matrix { return s.entered }

// EnterRange replaces the practice range.
func (s *Session) EnterRange(m hands.Matrix) { s.entered = m }

// Check compares the practice range with the reference range.
func (s *Session) Check() (hands.Comparison, error) {
	ref, err := s.Reference()
	if err != nil {
		return hands.Comparison{}, err
	}
	return hands.Diff(s.entered, ref), nil
}

// Reset clears the practice range.
func (s *Session) Reset() { s.entered = hands.Matrix{} }

// SetMarginalOnly changes the quiz draw pool.
func (s *Session) SetMarginalOnly(on bool) { s.engine.SetMarginalOnly(on) }

// SetRandomizePath changes whether each quiz hand picks a random situation.
func (s *Session) SetRandomizePath(on bool) { s.engine.SetRandomizePath(on) }

// QuizState returns the quiz state.
func (s *Session) QuizState() quiz.State { return s.engine.State() }

// QuizConfig returns the quiz tables in use.
func (s *Session) QuizConfig() quiz.Config { return s.quizCfg }

// NextHand draws a quiz hand for the current situation. The quiz tables
// are validated against the schema first. With path randomization the
// selection path moves to the drawn situation.
func (s *Session) NextHand() (quiz.Question, error) {
	if s.dict == nil {
		return quiz.Question{}, ErrNoRangeDict
	}
	if err := s.quizCfg.Validate(s.dict.Schema); err != nil {
		return quiz.Question{}, err
	}
	q, err := s.engine.Next(quiz.Situation{Root: s.dict.Contents, Schema: s.dict.Schema, Path: s.path.Clone()})
	if err != nil {
		return quiz.Question{}, err
	}
	s.path = q.Situation.Path.Clone()
	return q, nil
}

// Answer grades answer and records the attempt. Recording failures are
// logged, not returned.
func (s *Session) Answer(ctx context.Context, answer string) (quiz.Result, error) {
	res, err := s.engine.Answer(answer)
	if err != nil {
		return quiz.Result{}, err
	}
	if s.recorder != nil {
		_, name := s.Current()
		q := res.Question
		_, err := s.recorder.RecordAttempt(ctx, history.Attempt{
			RunID:         s.runID,
			RangeDict:     name,
			Path:          q.Situation.Path.Format(q.Situation.Schema),
			Action:        q.Action,
			Hand:          q.Hand.String(),
			Answer:        answer,
			CorrectAction: res.CorrectAction,
			Correct:       res.Correct,
		})
		if err != nil {
			s.log.Warn("recording quiz attempt failed", slog.String("error", err.Error()))
		}
	}
	return res, nil
}
