//go:build js && wasm
// +build js,wasm

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/behrlich/range-trainer/pkg/hands"
	"github.com/behrlich/range-trainer/pkg/notation"
	"github.com/behrlich/range-trainer/pkg/rangedict"
	"github.com/behrlich/range-trainer/pkg/rangetree"
	"github.com/behrlich/range-trainer/pkg/session"
)

// The browser has no registry file; range dicts arrive as JSON through load.
var sess = session.New(
	rangedict.NewRegistry("range_dict_list.json"),
	session.WithLogger(slog.New(slog.NewTextHandler(os.Stdout, nil))),
)

func main() {
	// Register JavaScript functions
	js.Global().Set("rangeTrainer", makeRangeTrainerAPI())

	// Prevent the Go program from exiting
	select {}
}

// makeRangeTrainerAPI creates the JavaScript API object
func makeRangeTrainerAPI() js.Value {
	api := make(map[string]interface{})

	api["load"] = js.FuncOf(wrap(loadWrapper))
	api["export"] = js.FuncOf(wrap(exportWrapper))
	api["applicableLabels"] = js.FuncOf(wrap(applicableLabelsWrapper))
	api["setLabel"] = js.FuncOf(wrap(setLabelWrapper))
	api["reference"] = js.FuncOf(wrap(referenceWrapper))
	api["setEditing"] = js.FuncOf(wrap(setEditingWrapper))
	api["toggle"] = js.FuncOf(wrap(toggleWrapper))
	api["check"] = js.FuncOf(wrap(checkWrapper))
	api["nextHand"] = js.FuncOf(wrap(nextHandWrapper))
	api["answer"] = js.FuncOf(wrap(answerWrapper))
	api["version"] = "0.1.0"

	return js.ValueOf(api)
}

// wrap turns a returned error, or a panic, into an {error: ...} object.
func wrap(fn func(args []js.Value) (interface{}, error)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) (out interface{}) {
		defer func() {
			if r := recover(); r != nil {
				out = errorValue(fmt.Errorf("panicked: %v", r))
			}
		}()
		result, err := fn(args)
		if err != nil {
			return errorValue(err)
		}
		return js.ValueOf(result)
	}
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func need(args []js.Value, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

// loadWrapper adopts a range dict file's contents.
// Arguments: name (string), json (string)
func loadWrapper(args []js.Value) (interface{}, error) {
	if err := need(args, 2, "load(name, json)"); err != nil {
		return nil, err
	}
	d, err := rangedict.FromJSON([]byte(args[1].String()))
	if err != nil {
		return nil, err
	}
	i, err := sess.AddRangeDict(args[0].String(), d)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"index": i,
		"path":  pathValue(sess.Path()),
	}, nil
}

// exportWrapper returns the selected range dict, edits included, as the
// JSON a range dict file holds.
func exportWrapper(args []js.Value) (interface{}, error) {
	data, err := sess.Export()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// applicableLabelsWrapper returns {path, labels: {dim: [label...]}}.
func applicableLabelsWrapper(args []js.Value) (interface{}, error) {
	labels, err := sess.ApplicableLabels()
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	for dim, ls := range labels {
		out[dim] = stringsValue(ls)
	}
	return map[string]interface{}{
		"path":   pathValue(sess.Path()),
		"labels": out,
	}, nil
}

// setLabelWrapper selects a label and returns the repaired path.
// Arguments: dimension (string), label (string)
func setLabelWrapper(args []js.Value) (interface{}, error) {
	if err := need(args, 2, "setLabel(dimension, label)"); err != nil {
		return nil, err
	}
	if err := sess.SetLabel(args[0].String(), args[1].String()); err != nil {
		return nil, err
	}
	return pathValue(sess.Path()), nil
}

// referenceWrapper returns the reference range of the current path.
func referenceWrapper(args []js.Value) (interface{}, error) {
	m, err := sess.Reference()
	if err != nil {
		return nil, err
	}
	return matrixValue(m), nil
}

// setEditingWrapper switches toggles between the reference and the
// practice range.
// Arguments: on (bool)
func setEditingWrapper(args []js.Value) (interface{}, error) {
	if err := need(args, 1, "setEditing(on)"); err != nil {
		return nil, err
	}
	sess.SetEditing(args[0].Bool())
	return sess.Editing(), nil
}

// toggleWrapper flips one grid cell and returns its new value.
// Arguments: row (number), col (number)
func toggleWrapper(args []js.Value) (interface{}, error) {
	if err := need(args, 2, "toggle(row, col)"); err != nil {
		return nil, err
	}
	return sess.ToggleCell(args[0].Int(), args[1].Int())
}

// checkWrapper grades the practice range against the reference. An
// optional range notation argument replaces the practice range first.
func checkWrapper(args []js.Value) (interface{}, error) {
	if len(args) >= 1 && args[0].Type() == js.TypeString {
		m, err := notation.ParseRange(args[0].String())
		if err != nil {
			return nil, err
		}
		sess.EnterRange(m)
	}
	cmp, err := sess.Check()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"match":   matrixValue(cmp.Match),
		"over":    matrixValue(cmp.Over),
		"under":   matrixValue(cmp.Under),
		"perfect": cmp.Perfect(),
	}, nil
}

// nextHandWrapper deals a quiz hand.
func nextHandWrapper(args []js.Value) (interface{}, error) {
	q, err := sess.NextHand()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"path":      pathValue(q.Situation.Path),
		"action":    q.Action,
		"hand":      q.Hand.String(),
		"row":       q.Hand.Row,
		"col":       q.Hand.Col,
		"combo":     q.Combo.String(),
		"narrative": q.Narrative,
		"options":   stringsValue(q.Options),
	}, nil
}

// answerWrapper grades an answer label.
// Arguments: answer (string)
func answerWrapper(args []js.Value) (interface{}, error) {
	if err := need(args, 1, "answer(label)"); err != nil {
		return nil, err
	}
	res, err := sess.Answer(context.Background(), args[0].String())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"correct":       res.Correct,
		"correctAction": res.CorrectAction,
		"correctOption": res.CorrectOption,
		"answeredAs":    res.AnsweredAs,
		"feedback":      matrixValue(res.Feedback),
	}, nil
}

// js.ValueOf only accepts []interface{} and map[string]interface{}.

func stringsValue(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func pathValue(p rangetree.Path) map[string]interface{} {
	out := make(map[string]interface{}, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func matrixValue(m hands.Matrix) map[string]interface{} {
	grid := make([]interface{}, hands.Size)
	for i := range m {
		row := make([]interface{}, hands.Size)
		for j := range m[i] {
			row[j] = m[i][j]
		}
		grid[i] = row
	}
	return map[string]interface{}{
		"range":  notation.FormatRange(m),
		"hands":  m.Count(),
		"combos": m.Combos(),
		"grid":   grid,
	}
}
