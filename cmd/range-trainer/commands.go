package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/behrlich/range-trainer/pkg/mcpserver"
	"github.com/behrlich/range-trainer/pkg/notation"
	"github.com/behrlich/range-trainer/pkg/quiz"
)

const quitOption = "Quit"

// selectDict selects a range dict by registry index or name.
func (a *app) selectDict(arg string) error {
	recs := a.sess.RangeDicts()
	if i, err := strconv.Atoi(arg); err == nil && i >= 0 && i < len(recs) {
		return a.sess.SelectRangeDict(i)
	}
	for i, rec := range recs {
		if rec.Name == arg {
			return a.sess.SelectRangeDict(i)
		}
	}
	return fmt.Errorf("no range dict %q (see 'range-trainer list')", arg)
}

// applyPath sets dim=label pairs in schema order so that each label is
// chosen below the ones before it.
func (a *app) applyPath(pairs []string) error {
	schema := a.sess.Schema()
	type choice struct {
		dim, label string
		index      int
	}
	choices := make([]choice, 0, len(pairs))
	for _, p := range pairs {
		dim, label, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("expected dim=label, got %q", p)
		}
		idx := schema.Index(dim)
		if idx < 0 {
			return fmt.Errorf("unknown dimension %q", dim)
		}
		choices = append(choices, choice{dim, label, idx})
	}
	sort.SliceStable(choices, func(i, j int) bool { return choices[i].index < choices[j].index })

	for _, c := range choices {
		if err := a.sess.SetLabel(c.dim, c.label); err != nil {
			return err
		}
	}
	path := a.sess.Path()
	for _, c := range choices {
		if path[c.dim] != c.label {
			pterm.Warning.Printfln("%s %s does not exist here, using %s", c.dim, c.label, path[c.dim])
		}
	}
	return nil
}

// open selects args[0] and applies the dim=label pairs that follow.
func (a *app) open(args []string) error {
	if len(args) < 1 {
		return errors.New("missing range dict")
	}
	if err := a.selectDict(args[0]); err != nil {
		return err
	}
	return a.applyPath(args[1:])
}

func (a *app) list() error {
	recs := a.sess.RangeDicts()
	if len(recs) == 0 {
		pterm.Info.Println("No range dicts registered. Create one with 'range-trainer new <name>'.")
		return nil
	}
	data := pterm.TableData{{"#", "Name", "File"}}
	for i, rec := range recs {
		file := pterm.Gray("(unsaved)")
		if rec.HasFile() {
			file = *rec.Filepath
		}
		data = append(data, []string{strconv.Itoa(i), rec.Name, file})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (a *app) show(args []string) error {
	if err := a.open(args); err != nil {
		return err
	}
	ref, err := a.sess.Reference()
	if err != nil {
		return err
	}
	printLabels(a.sess)
	printRange(situationTitle(a.sess), ref)
	return nil
}

func (a *app) set(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: set <dict> [dim=label ...] <range>")
	}
	r := args[len(args)-1]
	if err := a.open(args[:len(args)-1]); err != nil {
		return err
	}
	a.sess.SetEditing(true)
	if err := a.sess.SetReferenceFromNotation(r); err != nil {
		return err
	}
	file, err := a.sess.Save("")
	if err != nil {
		return err
	}
	ref, _ := a.sess.Reference()
	printRange(situationTitle(a.sess), ref)
	pterm.Success.Printfln("Saved %s", file)
	return nil
}

func (a *app) create(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: new <name>")
	}
	if _, err := a.sess.NewRangeDict(args[0], quiz.SixMaxSchema(), quiz.SixMaxShape()); err != nil {
		return err
	}
	file, err := a.sess.Save("")
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Created %s in %s", args[0], file)
	pterm.Info.Println("Fill it in with 'range-trainer set'.")
	return nil
}

func (a *app) practice(args []string) error {
	if err := a.open(args); err != nil {
		return err
	}
	for {
		printLabels(a.sess)
		text, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText("Enter the range for " + situationTitle(a.sess)).Show()
		entered, err := notation.ParseRange(text)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		a.sess.EnterRange(entered)
		cmp, err := a.sess.Check()
		if err != nil {
			return err
		}
		printComparison(situationTitle(a.sess), cmp)

		again, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Try again?").WithDefaultValue(true).Show()
		if !again {
			return nil
		}
		a.sess.Reset()
	}
}

func (a *app) runQuiz(args []string) error {
	if err := a.open(args); err != nil {
		return err
	}
	ctx := context.Background()
	var asked, correct int
	for {
		q, err := a.sess.NextHand()
		if err != nil {
			return err
		}
		printQuestion(q)

		options := append(append([]string{}, q.Options...), quitOption)
		answer, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Your action").WithOptions(options).Show()
		if answer == quitOption || answer == "" {
			break
		}
		res, err := a.sess.Answer(ctx, answer)
		if err != nil {
			return err
		}
		asked++
		if res.Correct {
			correct++
		}
		printResult(res)
	}
	if asked > 0 {
		pterm.Info.Printfln("%d/%d correct (%.0f%%)", correct, asked, 100*float64(correct)/float64(asked))
	}
	return nil
}

func (a *app) stats(args []string) error {
	if a.history == nil {
		return errors.New("quiz history is disabled (set -history)")
	}
	if len(args) < 1 {
		return errors.New("usage: stats <dict> [action]")
	}
	if err := a.selectDict(args[0]); err != nil {
		return err
	}
	_, name := a.sess.Current()
	var action string
	if len(args) > 1 {
		action = args[1]
	}

	ctx := context.Background()
	actions, err := a.history.ActionStats(ctx, name)
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		pterm.Info.Printfln("No quiz answers recorded for %s yet.", name)
		return nil
	}
	data := pterm.TableData{{"Action", "Correct", "Attempts", "Accuracy"}}
	for _, s := range actions {
		data = append(data, []string{
			s.Action, strconv.Itoa(s.Correct), strconv.Itoa(s.Attempts),
			fmt.Sprintf("%.0f%%", 100*s.Accuracy()),
		})
	}
	pterm.DefaultSection.Println("Accuracy for " + name)
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	missed, err := a.history.MissedHands(ctx, name, action, 10)
	if err != nil {
		return err
	}
	if len(missed) == 0 {
		return nil
	}
	data = pterm.TableData{{"Hand", "Missed", "Attempts"}}
	for _, h := range missed {
		data = append(data, []string{h.Hand, strconv.Itoa(h.Misses), strconv.Itoa(h.Attempts)})
	}
	pterm.DefaultSection.Println("Most missed hands")
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (a *app) serve() error {
	var stats mcpserver.StatsSource
	if a.history != nil {
		stats = a.history
	}
	a.log.Info("serving MCP tools on stdio", slog.Int("range_dicts", len(a.sess.RangeDicts())))
	return mcpserver.Serve(a.sess, stats)
}
