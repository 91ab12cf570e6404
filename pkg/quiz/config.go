package quiz

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/behrlich/range-trainer/pkg/rangetree"
	"gopkg.in/yaml.v3"
)

// Answers that are never schema actions.
const (
	Fold  = "Fold"
	Check = "Check"
)

// Narrative holds the prior-action text for one action. The most specific
// entry wins: hero position, then villain position, then Default.
type Narrative struct {
	Default  string            `yaml:"default,omitempty"`
	Position map[string]string `yaml:"position,omitempty"`
	VS       map[string]string `yaml:"vs,omitempty"`
}

// Config holds the static tables that drive the quiz. Every map is keyed by
// a canonical action, i.e. a label of the action dimension, unless noted.
type Config struct {
	// Dimension names used to read the current action, hero position and
	// villain position out of a path. Position and VS are only needed for
	// narratives.
	ActionDimension   string `yaml:"action_dimension"`
	PositionDimension string `yaml:"position_dimension,omitempty"`
	VSDimension       string `yaml:"vs_dimension,omitempty"`

	// Options lists the answer buttons offered for an action.
	Options map[string][]string `yaml:"options"`
	// Alternatives lists, most specific first, the actions checked when a
	// hand is not in the current action's range.
	Alternatives map[string][]string `yaml:"alternatives"`
	// AnswerActions maps an answer label that is not itself an action to
	// its canonical action, keyed by the current action.
	AnswerActions map[string]map[string]string `yaml:"answer_actions"`
	// ActionOptions maps a canonical action to the answer label that
	// represents it. Actions without an entry are their own label.
	ActionOptions map[string]string `yaml:"action_options"`
	// MarginalCompanions lists the actions whose boundaries form the
	// marginal pool for an action. Defaults to the action alone.
	MarginalCompanions map[string][]string `yaml:"marginal_companions"`
	// CheckFallback lists actions whose fallback answer is Check, not Fold.
	CheckFallback []string `yaml:"check_fallback"`

	Narratives map[string]Narrative `yaml:"narratives"`
}

// LoadConfig reads YAML quiz tables from path. Entries in the file are
// merged over DefaultConfig, so a file only needs the tables it changes.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read quiz config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse quiz config %s: %w", path, err)
	}
	return cfg, nil
}

// OptionFor returns the answer label representing action.
func (c Config) OptionFor(action string) string {
	if opt, ok := c.ActionOptions[action]; ok {
		return opt
	}
	return action
}

// Companions returns the actions whose ranges form action's marginal pool.
func (c Config) Companions(action string) []string {
	if comp := c.MarginalCompanions[action]; len(comp) > 0 {
		return comp
	}
	return []string{action}
}

// Translate maps an answer label to a canonical action. Schema actions,
// Fold and Check translate to themselves; anything else goes through
// AnswerActions for the current action.
func (c Config) Translate(s rangetree.Schema, answer, current string) (string, error) {
	if answer == Fold || answer == Check || s.HasLabel(c.ActionDimension, answer) {
		return answer, nil
	}
	if action, ok := c.AnswerActions[answer][current]; ok {
		return action, nil
	}
	return "", &UnsupportedAnswerError{Answer: answer, Action: current}
}

// Validate checks the tables against a schema. Every action of the schema
// needs options and alternatives, every referenced action must exist and
// every offered option must translate. All problems are reported at once
// as a *ConfigError.
func (c Config) Validate(s rangetree.Schema) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	actions := s.Labels(c.ActionDimension)
	if actions == nil {
		return &ConfigError{Problems: []string{fmt.Sprintf("schema has no action dimension %q", c.ActionDimension)}}
	}
	for _, dim := range []string{c.PositionDimension, c.VSDimension} {
		if dim != "" && s.Index(dim) < 0 {
			add("schema has no dimension %q", dim)
		}
	}

	isAction := func(a string) bool { return slices.Contains(actions, a) }
	isAnswerAction := func(a string) bool { return a == Fold || a == Check || isAction(a) }

	for _, a := range actions {
		opts, ok := c.Options[a]
		if !ok || len(opts) == 0 {
			add("action %q has no options", a)
		}
		for _, opt := range opts {
			if _, err := c.Translate(s, opt, a); err != nil {
				add("option %q of action %q does not translate to an action", opt, a)
			}
		}
		if _, ok := c.Alternatives[a]; !ok {
			add("action %q has no alternatives entry", a)
		}
	}

	for _, a := range sortedKeys(c.Alternatives) {
		if !isAction(a) {
			add("alternatives for unknown action %q", a)
		}
		for _, alt := range c.Alternatives[a] {
			if !isAction(alt) {
				add("alternative %q of action %q is not an action", alt, a)
			}
			if alt == a {
				add("action %q lists itself as an alternative", a)
			}
		}
	}
	for _, answer := range sortedKeys(c.AnswerActions) {
		for _, cur := range sortedKeys(c.AnswerActions[answer]) {
			if !isAction(cur) {
				add("answer %q keyed by unknown action %q", answer, cur)
			}
			if target := c.AnswerActions[answer][cur]; !isAction(target) {
				add("answer %q under %q maps to unknown action %q", answer, cur, target)
			}
		}
	}
	for _, a := range sortedKeys(c.ActionOptions) {
		if !isAnswerAction(a) {
			add("action option for unknown action %q", a)
		}
	}
	for _, a := range sortedKeys(c.MarginalCompanions) {
		for _, comp := range c.MarginalCompanions[a] {
			if !isAction(comp) {
				add("marginal companion %q of action %q is not an action", comp, a)
			}
		}
	}
	for _, a := range c.CheckFallback {
		if !isAction(a) {
			add("check fallback %q is not an action", a)
		}
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
