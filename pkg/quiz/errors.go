package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoHand is returned by Answer before any hand has been drawn.
	ErrNoHand = errors.New("no hand drawn")
	// ErrNotAwaitingAnswer is returned by Answer once the current hand is graded.
	ErrNotAwaitingAnswer = errors.New("quiz is not awaiting an answer")
	// ErrUnsupportedAnswer is matched by every UnsupportedAnswerError.
	ErrUnsupportedAnswer = errors.New("unsupported quiz answer")
)

// UnsupportedAnswerError means an answer label has no canonical action under
// the current action. It points at a gap in the quiz tables.
type UnsupportedAnswerError struct {
	Answer string
	Action string
}

func (e *UnsupportedAnswerError) Error() string {
	return fmt.Sprintf("answer %q cannot be translated while the action is %q", e.Answer, e.Action)
}

// Is reports whether target is ErrUnsupportedAnswer.
func (e *UnsupportedAnswerError) Is(target error) bool { return target == ErrUnsupportedAnswer }

// ConfigError lists every problem found while validating quiz tables.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid quiz config: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid quiz config (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}
