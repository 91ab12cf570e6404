package session

import (
	"context"
	"errors"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/behrlich/range-trainer/pkg/hands"
	"github.com/behrlich/range-trainer/pkg/history"
	"github.com/behrlich/range-trainer/pkg/notation"
	"github.com/behrlich/range-trainer/pkg/quiz"
	"github.com/behrlich/range-trainer/pkg/rangedict"
	"github.com/behrlich/range-trainer/pkg/rangetree"
)

type fakeRecorder struct {
	attempts []history.Attempt
	err      error
}

func (f *fakeRecorder) RecordAttempt(_ context.Context, a history.Attempt) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.attempts = append(f.attempts, a)
	return "id", nil
}

// fixture writes a registry holding a saved six-handed dict and a record
// that was never saved.
func fixture(t *testing.T, opts ...Option) (*Session, string) {
	t.Helper()
	dir := t.TempDir()
	s := quiz.SixMaxSchema()
	root, err := rangetree.NewEmpty(s, quiz.SixMaxShape())
	if err != nil {
		t.Fatal(err)
	}
	set := func(path rangetree.Path, r string) {
		if err := root.SetLeaf(s, path, notation.MustParseRange(r)); err != nil {
			t.Fatal(err)
		}
	}
	set(rangetree.Path{"Position": "UTG", "Action": "RFI"}, "77+,A9s+,KQs,AJo+")
	set(rangetree.Path{"Position": "HJ", "Action": "3bet", "VS": "UTG"}, "QQ+,AKs")
	set(rangetree.Path{"Position": "HJ", "Action": "Call RFI", "VS": "UTG"}, "JJ-99,AQs,KQs")

	d := &rangedict.RangeDict{Schema: s, Contents: root}
	if err := d.SaveToFile(filepath.Join(dir, "six_max.json")); err != nil {
		t.Fatal(err)
	}
	reg := rangedict.NewRegistry(filepath.Join(dir, "range_dict_list.json"))
	reg.Add("6max")
	reg.SetFilepath(0, "six_max.json")
	reg.Add("Never saved")
	if err := reg.Save(); err != nil {
		t.Fatal(err)
	}

	opts = append([]Option{WithQuizOptions(quiz.WithRand(rand.New(rand.NewSource(3))))}, opts...)
	sess := New(reg, opts...)
	if err := sess.SelectRangeDict(0); err != nil {
		t.Fatalf("SelectRangeDict(0) error = %v", err)
	}
	return sess, dir
}

func TestSelectRangeDict(t *testing.T) {
	s, _ := fixture(t)

	i, name := s.Current()
	if i != 0 || name != "6max" {
		t.Errorf("Current() = %d, %q", i, name)
	}
	want := rangetree.Path{"Position": "UTG", "Action": "RFI", "VS": "UTG"}
	if got := s.Path(); got.Format(s.Schema()) != want.Format(s.Schema()) {
		t.Errorf("Path() = %v, want %v", got, want)
	}
	ref, err := s.Reference()
	if err != nil {
		t.Fatalf("Reference() error = %v", err)
	}
	if notation.FormatRange(ref) != "77+,A9s+,KQs,AJo+" {
		t.Errorf("Reference() = %s", notation.FormatRange(ref))
	}
}

func TestSelectRangeDictFailureKeepsState(t *testing.T) {
	s, dir := fixture(t)
	s.SetLabel("Position", "HJ")
	before := s.Path()

	if err := s.SelectRangeDict(1); !errors.Is(err, rangedict.ErrNoFile) {
		t.Errorf("SelectRangeDict(unsaved) error = %v, want ErrNoFile", err)
	}
	if err := s.SelectRangeDict(9); err == nil {
		t.Error("SelectRangeDict(9) expected error")
	}

	// corrupt file behind a new record
	os.WriteFile(filepath.Join(dir, "corrupt.json"), []byte("{"), 0o644)
	reg, _ := rangedict.LoadRegistry(filepath.Join(dir, "range_dict_list.json"))
	reg.Add("Corrupt")
	reg.SetFilepath(2, "corrupt.json")
	s.registry = reg
	if err := s.SelectRangeDict(2); !errors.Is(err, rangedict.ErrPersistence) {
		t.Errorf("SelectRangeDict(corrupt) error = %v, want ErrPersistence", err)
	}

	if i, _ := s.Current(); i != 0 {
		t.Errorf("Current() = %d after failed selects, want 0", i)
	}
	if s.Path().Format(s.Schema()) != before.Format(s.Schema()) {
		t.Errorf("Path() = %v, want %v", s.Path(), before)
	}
}

func TestNoRangeDict(t *testing.T) {
	s := New(rangedict.NewRegistry(filepath.Join(t.TempDir(), "list.json")))
	if _, err := s.ApplicableLabels(); !errors.Is(err, ErrNoRangeDict) {
		t.Errorf("ApplicableLabels() error = %v", err)
	}
	if _, err := s.Reference(); !errors.Is(err, ErrNoRangeDict) {
		t.Errorf("Reference() error = %v", err)
	}
	if _, err := s.NextHand(); !errors.Is(err, ErrNoRangeDict) {
		t.Errorf("NextHand() error = %v", err)
	}
	if _, err := s.Save(""); !errors.Is(err, ErrNoRangeDict) {
		t.Errorf("Save() error = %v", err)
	}
	if i, _ := s.Current(); i != -1 {
		t.Errorf("Current() = %d, want -1", i)
	}
}

func TestSetLabelRepairsPath(t *testing.T) {
	s, _ := fixture(t)

	if err := s.SetLabel("Position", "BB"); err != nil {
		t.Fatalf("SetLabel() error = %v", err)
	}
	got := s.Path()
	if got["Position"] != "BB" || got["Action"] != "Call RFI" || got["VS"] != "UTG" {
		t.Errorf("Path() = %v, want BB / Call RFI / UTG", got)
	}

	labels, _ := s.ApplicableLabels()
	if len(labels["Action"]) != 3 {
		t.Errorf("ApplicableLabels()[Action] = %v", labels["Action"])
	}

	if err := s.SetLabel("Action", "Limp"); err == nil {
		t.Error("SetLabel(unknown label) expected error")
	}
	if err := s.SetLabel("Street", "Flop"); err == nil {
		t.Error("SetLabel(unknown dimension) expected error")
	}
}

func TestToggleCell(t *testing.T) {
	s, _ := fixture(t)
	aa := hands.Cell{Row: 0, Col: 0}

	// practice: the entered range changes, the reference does not
	on, err := s.ToggleCell(0, 0)
	if err != nil || !on {
		t.Fatalf("ToggleCell() = %v, %v", on, err)
	}
	if !s.Entered().Has(aa) {
		t.Error("practice toggle did not reach the entered range")
	}
	ref, _ := s.Reference()
	if !ref.Has(aa) {
		t.Error("practice toggle changed the reference")
	}

	// editing: the reference changes
	s.SetEditing(true)
	on, _ = s.ToggleCell(0, 0)
	ref, _ = s.Reference()
	if on || ref.Has(aa) {
		t.Error("editing toggle did not clear AA in the reference")
	}

	if _, err := s.ToggleCell(13, 0); !errors.Is(err, hands.ErrIndex) {
		t.Errorf("ToggleCell(13, 0) error = %v, want ErrIndex", err)
	}
}

func TestPointerEnter(t *testing.T) {
	s, _ := fixture(t)

	if toggled, _ := s.PointerEnter(5, 5); toggled {
		t.Error("PointerEnter toggled without drag-select")
	}
	s.SetDragSelect(true)
	if toggled, err := s.PointerEnter(5, 5); !toggled || err != nil {
		t.Errorf("PointerEnter() = %v, %v", toggled, err)
	}
	s.SetDragSelect(false)
	s.PointerEnter(6, 6)

	want := hands.Matrix{}
	want[5][5] = true
	if s.Entered() != want {
		t.Errorf("Entered() = \n%v", s.Entered())
	}
}

func TestCopyPaste(t *testing.T) {
	s, _ := fixture(t)

	if err := s.PasteRange(); !errors.Is(err, ErrNotEditing) {
		t.Errorf("PasteRange() outside editing error = %v", err)
	}
	s.SetEditing(true)
	if err := s.PasteRange(); !errors.Is(err, ErrEmptyClipboard) {
		t.Errorf("PasteRange() before copy error = %v", err)
	}

	if err := s.CopyRange(); err != nil {
		t.Fatal(err)
	}
	copied, _ := s.Reference()

	// editing the source after copying does not change the clipboard
	s.ToggleCell(12, 12)

	s.SetLabel("Position", "CO")
	if err := s.PasteRange(); err != nil {
		t.Fatalf("PasteRange() error = %v", err)
	}
	got, _ := s.Reference()
	if got != copied {
		t.Errorf("pasted range = %s, want %s", notation.FormatRange(got), notation.FormatRange(copied))
	}
}

func TestSetReferenceFromNotation(t *testing.T) {
	s, _ := fixture(t)

	if err := s.SetReferenceFromNotation("AA"); !errors.Is(err, ErrNotEditing) {
		t.Errorf("SetReferenceFromNotation() outside editing error = %v", err)
	}
	s.SetEditing(true)
	if err := s.SetReferenceFromNotation("ZZ"); err == nil {
		t.Error("SetReferenceFromNotation(ZZ) expected error")
	}
	if err := s.SetReferenceFromNotation("TT+,AQs+"); err != nil {
		t.Fatalf("SetReferenceFromNotation() error = %v", err)
	}
	ref, _ := s.Reference()
	if ref.Count() != 7 {
		t.Errorf("Reference().Count() = %d, want 7", ref.Count())
	}
}

func TestCheckAndReset(t *testing.T) {
	s, _ := fixture(t)
	s.SetLabel("Position", "HJ")
	s.SetLabel("Action", "3bet")

	s.EnterRange(notation.MustParseRange("KK+,JJ"))
	cmp, err := s.Check()
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if got := notation.FormatRange(cmp.Match); got != "KK+" {
		t.Errorf("Match = %s, want KK+", got)
	}
	if got := notation.FormatRange(cmp.Over); got != "JJ" {
		t.Errorf("Over = %s, want JJ", got)
	}
	if got := notation.FormatRange(cmp.Under); got != "QQ,AKs" {
		t.Errorf("Under = %s, want QQ,AKs", got)
	}

	s.Reset()
	if !s.Entered().IsEmpty() {
		t.Error("Reset() left hands entered")
	}
}

func TestNewRangeDictAndSave(t *testing.T) {
	s, dir := fixture(t)

	i, err := s.NewRangeDict("Fresh", quiz.SixMaxSchema(), quiz.SixMaxShape())
	if err != nil {
		t.Fatalf("NewRangeDict() error = %v", err)
	}
	if i != 2 || !s.Editing() {
		t.Errorf("NewRangeDict() = %d, editing %v", i, s.Editing())
	}
	ref, _ := s.Reference()
	if !ref.IsEmpty() {
		t.Error("new range dict is not empty")
	}

	// registry on disk already lists the unsaved record
	reg, err := rangedict.LoadRegistry(filepath.Join(dir, "range_dict_list.json"))
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 3 || reg.Records()[2].HasFile() {
		t.Fatalf("registry after New = %+v", reg.Records())
	}

	s.SetReferenceFromNotation("22+")
	saved, err := s.Save("")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved != filepath.Join(dir, "Fresh.json") {
		t.Errorf("Save() wrote %s", saved)
	}

	reg, _ = rangedict.LoadRegistry(filepath.Join(dir, "range_dict_list.json"))
	rec := reg.Records()[2]
	if !rec.HasFile() || *rec.Filepath != "Fresh.json" {
		t.Errorf("record after Save = %+v", rec)
	}
	d, err := reg.Load(2)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	m, _ := rangetree.MatrixAt(d.Contents, d.Schema, d.Schema.DefaultPath())
	if m.Count() != 13 {
		t.Errorf("saved range has %d hands, want 13", m.Count())
	}
}

func TestSaveTargets(t *testing.T) {
	s, dir := fixture(t)

	saved, err := s.Save(filepath.Join(dir, "copy"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved != filepath.Join(dir, "copy.json") {
		t.Errorf("Save() wrote %s, want .json appended", saved)
	}

	other := t.TempDir()
	saved, err = s.Save(filepath.Join(other, "elsewhere.json"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rec := s.RangeDicts()[0]
	if !filepath.IsAbs(*rec.Filepath) {
		t.Errorf("file outside the registry dir stored as %q, want absolute", *rec.Filepath)
	}
	if _, err := os.Stat(saved); err != nil {
		t.Error(err)
	}
}

func TestSaveFailureKeepsRecord(t *testing.T) {
	s, dir := fixture(t)

	// a directory where the file should go makes the write fail
	blocked := filepath.Join(dir, "blocked.json")
	os.Mkdir(blocked, 0o755)
	if _, err := s.Save(blocked); !errors.Is(err, rangedict.ErrPersistence) {
		t.Fatalf("Save() error = %v, want ErrPersistence", err)
	}
	if rec := s.RangeDicts()[0]; *rec.Filepath != "six_max.json" {
		t.Errorf("record file = %q after failed save", *rec.Filepath)
	}
	if _, err := os.Stat(filepath.Join(dir, "six_max.json")); errors.Is(err, fs.ErrNotExist) {
		t.Error("original file removed")
	}
}

func TestQuizRecordsAttempts(t *testing.T) {
	rec := &fakeRecorder{}
	s, _ := fixture(t, WithRecorder(rec))
	s.SetLabel("Position", "HJ")
	s.SetLabel("Action", "3bet")

	q, err := s.NextHand()
	if err != nil {
		t.Fatalf("NextHand() error = %v", err)
	}
	if q.Action != "3bet" || q.Narrative != "UTG opens." {
		t.Errorf("NextHand() = %+v", q)
	}
	if s.QuizState() != quiz.AwaitingAnswer {
		t.Errorf("QuizState() = %v", s.QuizState())
	}

	res, err := s.Answer(context.Background(), "Call")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if len(rec.attempts) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(rec.attempts))
	}
	a := rec.attempts[0]
	if a.RangeDict != "6max" || a.Action != "3bet" || a.Answer != "Call" || a.Correct != res.Correct || a.RunID != s.RunID() {
		t.Errorf("recorded attempt = %+v", a)
	}
	if a.Hand != q.Hand.String() || a.Path != "Position=HJ Action=3bet VS=UTG" {
		t.Errorf("recorded hand/path = %q / %q", a.Hand, a.Path)
	}

	if _, err := s.Answer(context.Background(), "Call"); !errors.Is(err, quiz.ErrNotAwaitingAnswer) {
		t.Errorf("second Answer() error = %v", err)
	}
}

func TestQuizRecorderFailureIsNotFatal(t *testing.T) {
	s, _ := fixture(t, WithRecorder(&fakeRecorder{err: errors.New("disk full")}))
	if _, err := s.NextHand(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Answer(context.Background(), quiz.Fold); err != nil {
		t.Errorf("Answer() error = %v, want recorder failure swallowed", err)
	}
}

func TestQuizRandomizeMovesPath(t *testing.T) {
	s, _ := fixture(t)
	s.SetRandomizePath(true)
	s.SetMarginalOnly(false)

	moved := false
	for i := 0; i < 20; i++ {
		q, err := s.NextHand()
		if err != nil {
			t.Fatal(err)
		}
		if s.Path().Format(s.Schema()) != q.Situation.Path.Format(s.Schema()) {
			t.Fatal("session path does not follow the randomized question")
		}
		if q.Situation.Path["Position"] != "UTG" {
			moved = true
		}
	}
	if !moved {
		t.Error("randomized quiz never left UTG")
	}
}

func TestQuizConfigValidatedAgainstSchema(t *testing.T) {
	cfg := quiz.DefaultConfig()
	delete(cfg.Options, "RFI")
	s, _ := fixture(t, WithQuizConfig(cfg))

	var ce *quiz.ConfigError
	if _, err := s.NextHand(); !errors.As(err, &ce) {
		t.Errorf("NextHand() error = %v, want *quiz.ConfigError", err)
	}
}

func TestSelectResetsQuiz(t *testing.T) {
	s, _ := fixture(t)
	s.NextHand()
	s.SelectRangeDict(0)
	if s.QuizState() != quiz.Idle {
		t.Errorf("QuizState() = %v after selecting a dict, want idle", s.QuizState())
	}
}

func TestAddRangeDict(t *testing.T) {
	s, _ := fixture(t)
	schema := rangetree.Schema{{Name: "Position", Labels: []string{"BN", "SB"}}}
	d := &rangedict.RangeDict{
		Schema:   schema,
		Contents: rangetree.Branch{"SB": rangetree.NewLeaf(notation.MustParseRange("22+"))},
	}

	i, err := s.AddRangeDict("imported", d)
	if err != nil {
		t.Fatalf("AddRangeDict() error = %v", err)
	}
	if cur, name := s.Current(); cur != i || name != "imported" {
		t.Errorf("Current() = %d, %q", cur, name)
	}
	if s.Path()["Position"] != "SB" {
		t.Errorf("Path() = %v, want repaired to SB", s.Path())
	}
	if rec := s.RangeDicts()[i]; rec.HasFile() {
		t.Error("imported dict has a file before saving")
	}

	bad := &rangedict.RangeDict{Schema: schema, Contents: rangetree.Branch{"UTG": rangetree.NewLeaf(hands.Matrix{})}}
	if _, err := s.AddRangeDict("bad", bad); err == nil {
		t.Error("AddRangeDict(invalid tree) expected error")
	}
}

func TestExportIncludesEdits(t *testing.T) {
	s, _ := fixture(t)
	s.SetEditing(true)
	s.SetReferenceFromNotation("AA")

	data, err := s.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	d, err := rangedict.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	m, _ := rangetree.MatrixAt(d.Contents, d.Schema, s.Path())
	if notation.FormatRange(m) != "AA" {
		t.Errorf("exported range = %s, want AA", notation.FormatRange(m))
	}

	empty := New(rangedict.NewRegistry(filepath.Join(t.TempDir(), "list.json")))
	if _, err := empty.Export(); !errors.Is(err, ErrNoRangeDict) {
		t.Errorf("Export() without dict error = %v", err)
	}
}
