package grading

import "errors"

var ErrAnswerMismatch = errors.New("answer does not match question kind")

// NoChoice marks an unanswered choice question.
const NoChoice = -1

// Q is the minimal view of a question needed for scoring. Callers map their
// own question type onto it.
type Q struct {
	Kind         string // "choice" | "text"
	Points       int
	OptionCount  int // choice only
	CorrectIndex int // choice only
}

// A is the minimal view of a captured answer entry.
type A struct {
	Kind   string
	Choice int // choice only; NoChoice when unanswered
	Text   string
}

// Result is the outcome of scoring a single answer entry.
type Result struct {
	AutoPoints  int
	MaxPoints   int
	NeedsManual bool
}

// Strategy scores one answer entry against its question.
type Strategy interface {
	Grade(q Q, a A) (Result, error)
}

// Grader routes by question kind to the right strategy.
type Grader struct {
	strategies map[string]Strategy
}

// NewGrader installs the built-in strategies.
func NewGrader() *Grader {
	return &Grader{
		strategies: map[string]Strategy{
			"choice": choiceStrategy{},
			"text":   textStrategy{},
		},
	}
}

func (g *Grader) Grade(q Q, a A) (Result, error) {
	s, ok := g.strategies[q.Kind]
	if !ok {
		// Unknown kinds fall back to manual review rather than failing capture.
		return Result{MaxPoints: q.Points, NeedsManual: true}, nil
	}
	return s.Grade(q, a)
}

// Totals is the scoring summary of a complete answer vector.
type Totals struct {
	AutoScore   int
	TotalPoints int
	NeedsManual bool
}

// Score runs a full answer vector through the grader. The vector must be
// positionally aligned with questions.
func (g *Grader) Score(questions []Q, answers []A) (Totals, error) {
	if len(answers) != len(questions) {
		return Totals{}, errors.New("answer vector length does not match question count")
	}
	var t Totals
	for i, q := range questions {
		res, err := g.Grade(q, answers[i])
		if err != nil {
			return Totals{}, err
		}
		t.AutoScore += res.AutoPoints
		t.TotalPoints += res.MaxPoints
		if res.NeedsManual {
			t.NeedsManual = true
		}
	}
	return t, nil
}

type choiceStrategy struct{}

func (choiceStrategy) Grade(q Q, a A) (Result, error) {
	res := Result{MaxPoints: q.Points}
	if a.Kind != "choice" {
		return res, ErrAnswerMismatch
	}
	if a.Choice == NoChoice {
		return res, nil
	}
	if a.Choice < 0 || a.Choice >= q.OptionCount {
		return res, errors.New("selected option out of range")
	}
	if a.Choice == q.CorrectIndex {
		res.AutoPoints = q.Points
	}
	return res, nil
}

type textStrategy struct{}

func (textStrategy) Grade(q Q, a A) (Result, error) {
	res := Result{MaxPoints: q.Points, NeedsManual: true}
	if a.Kind != "text" {
		return res, ErrAnswerMismatch
	}
	return res, nil
}
