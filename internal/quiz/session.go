package quiz

// State of a quiz attempt.
type State int

const (
	// StateAnswering: the current question is shown, no answer validated yet.
	StateAnswering State = iota
	// StateChecked: the selected answer has been validated, feedback is visible.
	StateChecked
	// StateResult: all questions exhausted, the summary is shown. Terminal
	// except for Restart.
	StateResult
)

const noSelection = -1

// Session is one attempt at a module. It lives for a single screen: nothing
// is persisted and no I/O happens here. All mutating calls are no-ops when
// made in a state that does not allow them.
type Session struct {
	module     Module
	step       int
	selected   int
	checked    bool
	score      int
	showResult bool
}

func NewSession(m Module) *Session {
	return &Session{
		module:   m,
		selected: noSelection,
	}
}

func (s *Session) State() State {
	switch {
	case s.showResult:
		return StateResult
	case s.checked:
		return StateChecked
	default:
		return StateAnswering
	}
}

func (s *Session) Module() Module { return s.module }

// Step is the zero-based index of the current question.
func (s *Session) Step() int { return s.step }

func (s *Session) Score() int { return s.score }

// Question returns the question at the current step.
func (s *Session) Question() Question { return s.module.Questions[s.step] }

// SelectedOption returns the currently selected option index, if any.
func (s *Session) SelectedOption() (int, bool) {
	return s.selected, s.selected != noSelection
}

// Select picks an option for the current question. Ignored once the answer
// has been checked, or when idx is out of range.
func (s *Session) Select(idx int) {
	if s.State() != StateAnswering {
		return
	}
	if idx < 0 || idx >= len(s.Question().Options) {
		return
	}
	s.selected = idx
}

// Validate checks the selected answer against the question. A correct answer
// scores exactly 1, a wrong one scores nothing. Ignored without a selection.
func (s *Session) Validate() {
	if s.State() != StateAnswering || s.selected == noSelection {
		return
	}
	s.checked = true
	if s.selected == s.Question().CorrectAnswer {
		s.score++
	}
}

// Correct reports whether the checked answer was right. Only meaningful in
// StateChecked.
func (s *Session) Correct() bool {
	return s.checked && s.selected == s.Question().CorrectAnswer
}

// Next advances past a checked question: to the next question, or to the
// result view after the last one.
func (s *Session) Next() {
	if s.State() != StateChecked {
		return
	}
	if s.step == len(s.module.Questions)-1 {
		s.showResult = true
		return
	}
	s.step++
	s.selected = noSelection
	s.checked = false
}

// Restart resets the session to the first question. Valid from any state.
func (s *Session) Restart() {
	s.step = 0
	s.selected = noSelection
	s.checked = false
	s.score = 0
	s.showResult = false
}

// Passed reports success at the result view: at least half the questions,
// rounding the threshold up. The rule is fixed, modules cannot override it.
func (s *Session) Passed() bool {
	n := len(s.module.Questions)
	return s.score >= (n+1)/2
}
