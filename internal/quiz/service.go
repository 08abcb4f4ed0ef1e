package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/classleaf/quizport/internal/grading"
)

var (
	// ErrInvalid wraps all validation failures rejected before any write.
	ErrInvalid = errors.New("invalid input")
	// ErrWindowNotOpen rejects capture attempts before the quiz opens. The
	// window is re-evaluated server-side at the point of insert; a stale
	// client-held "active" state is never trusted.
	ErrWindowNotOpen = errors.New("quiz has not opened yet")
)

// Service implements the assessment lifecycle: quiz authoring, answer
// capture with auto-scoring, and the deferred manual-grading workflow.
type Service struct {
	store  Store
	grader *grading.Grader
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, grader: grading.NewGrader(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// --- Quiz authoring ---

// QuizInput is the issuer-supplied definition of a quiz.
type QuizInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	OpensAt     time.Time  `json:"opens_at"`
	ClosesAt    time.Time  `json:"closes_at"`
	Questions   []Question `json:"questions"`
}

func (in QuizInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title required", ErrInvalid)
	}
	if !in.OpensAt.Before(in.ClosesAt) {
		return fmt.Errorf("%w: opening time must precede closing time", ErrInvalid)
	}
	if len(in.Questions) == 0 {
		return fmt.Errorf("%w: at least one question required", ErrInvalid)
	}
	for i, q := range in.Questions {
		if err := validateQuestion(q); err != nil {
			return fmt.Errorf("%w: question %d: %v", ErrInvalid, i+1, err)
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("prompt required")
	}
	if q.Points <= 0 {
		return errors.New("points must be positive")
	}
	switch q.Kind {
	case KindChoice:
		if len(q.Options) < 2 {
			return errors.New("choice question needs at least 2 options")
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return errors.New("correct option index out of range")
		}
	case KindText:
		if len(q.Options) != 0 {
			return errors.New("text question carries no options")
		}
	default:
		return fmt.Errorf("unknown question kind %q", q.Kind)
	}
	return nil
}

func (s *Service) CreateQuiz(ctx context.Context, issuerID string, in QuizInput) (Quiz, error) {
	if err := in.validate(); err != nil {
		return Quiz{}, err
	}
	q := Quiz{
		ID:          uuid.NewString(),
		IssuerID:    issuerID,
		Title:       in.Title,
		Description: in.Description,
		OpensAt:     in.OpensAt.UTC(),
		ClosesAt:    in.ClosesAt.UTC(),
		Questions:   in.Questions,
		CreatedAt:   s.now().UTC(),
	}
	for i := range q.Questions {
		if q.Questions[i].ID == "" {
			q.Questions[i].ID = uuid.NewString()
		}
	}
	if err := s.store.PutQuiz(ctx, q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *Service) UpdateQuiz(ctx context.Context, issuerID, quizID string, in QuizInput) (Quiz, error) {
	if err := in.validate(); err != nil {
		return Quiz{}, err
	}
	q, err := s.ownedQuiz(ctx, issuerID, quizID)
	if err != nil {
		return Quiz{}, err
	}
	q.Title = in.Title
	q.Description = in.Description
	q.OpensAt = in.OpensAt.UTC()
	q.ClosesAt = in.ClosesAt.UTC()
	q.Questions = in.Questions
	for i := range q.Questions {
		if q.Questions[i].ID == "" {
			q.Questions[i].ID = uuid.NewString()
		}
	}
	if err := s.store.UpdateQuiz(ctx, q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// DeleteQuiz removes the quiz only. Existing submissions are orphaned, not
// cascade-deleted; their tokens stay resolvable.
func (s *Service) DeleteQuiz(ctx context.Context, issuerID, quizID string) error {
	if _, err := s.ownedQuiz(ctx, issuerID, quizID); err != nil {
		return err
	}
	return s.store.DeleteQuiz(ctx, quizID)
}

func (s *Service) ListQuizzes(ctx context.Context, issuerID string) ([]Quiz, error) {
	return s.store.ListQuizzesByIssuer(ctx, issuerID)
}

func (s *Service) GetOwnedQuiz(ctx context.Context, issuerID, quizID string) (Quiz, error) {
	return s.ownedQuiz(ctx, issuerID, quizID)
}

// StudentQuiz returns the respondent-facing view with correct-answer data
// stripped, plus the current window state.
func (s *Service) StudentQuiz(ctx context.Context, quizID string) (Quiz, WindowState, error) {
	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, WindowState{}, err
	}
	for i := range q.Questions {
		q.Questions[i].CorrectIndex = 0
	}
	return q, q.Window(s.now()), nil
}

// ownedQuiz resolves a quiz and enforces issuer scoping at the query
// boundary. Foreign quizzes surface as not found.
func (s *Service) ownedQuiz(ctx context.Context, issuerID, quizID string) (Quiz, error) {
	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	if q.IssuerID != issuerID {
		return Quiz{}, ErrQuizNotFound
	}
	return q, nil
}

// --- Answer capture & auto-scoring ---

// AnswerInput is one respondent answer, positionally aligned with the quiz's
// questions. A nil Choice on a choice question means unanswered.
type AnswerInput struct {
	Choice *int   `json:"choice,omitempty"`
	Text   string `json:"text,omitempty"`
}

// Submit captures a completed attempt: it re-evaluates the time window,
// scores the choice answers, freezes each question's identity and point cap
// into the answer vector, and performs exactly one store insert. A failed
// insert leaves no record.
func (s *Service) Submit(ctx context.Context, quizID string, ident Identity, answers []AnswerInput) (Submission, error) {
	if err := validateIdentity(ident); err != nil {
		return Submission{}, err
	}
	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Submission{}, err
	}
	now := s.now()
	if q.Window(now).Status == WindowNotStarted {
		// An attempt that began before closing may still finish after it;
		// only starting early is impossible, so only not-started rejects.
		return Submission{}, ErrWindowNotOpen
	}
	if len(answers) != len(q.Questions) {
		return Submission{}, fmt.Errorf("%w: expected %d answers, got %d", ErrInvalid, len(q.Questions), len(answers))
	}

	frozen := make([]Answer, len(q.Questions))
	gq := make([]grading.Q, len(q.Questions))
	ga := make([]grading.A, len(q.Questions))
	for i, qu := range q.Questions {
		a := Answer{QuestionID: qu.ID, Kind: qu.Kind, MaxPoints: qu.Points}
		switch qu.Kind {
		case KindText:
			a.Text = answers[i].Text
		default:
			a.Choice = NoChoice
			if answers[i].Choice != nil {
				a.Choice = *answers[i].Choice
			}
		}
		frozen[i] = a
		gq[i] = grading.Q{Kind: qu.Kind, Points: qu.Points, OptionCount: len(qu.Options), CorrectIndex: qu.CorrectIndex}
		ga[i] = grading.A{Kind: a.Kind, Choice: a.Choice, Text: a.Text}
	}

	totals, err := s.grader.Score(gq, ga)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	status := StatusGraded
	if totals.NeedsManual {
		status = StatusPending
	}
	sub := Submission{
		ID:          uuid.NewString(),
		QuizID:      q.ID,
		IssuerID:    q.IssuerID,
		FirstName:   strings.TrimSpace(ident.FirstName),
		LastName:    strings.TrimSpace(ident.LastName),
		Phone:       strings.TrimSpace(ident.Phone),
		Email:       strings.TrimSpace(ident.Email),
		Answers:     frozen,
		AutoScore:   totals.AutoScore,
		Score:       totals.AutoScore,
		TotalPoints: totals.TotalPoints,
		Status:      status,
		SubmittedAt: now.UTC(),
	}
	if err := s.store.PutSubmission(ctx, sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func validateIdentity(ident Identity) error {
	if strings.TrimSpace(ident.FirstName) == "" ||
		strings.TrimSpace(ident.LastName) == "" ||
		strings.TrimSpace(ident.Phone) == "" {
		return fmt.Errorf("%w: first name, last name and phone are required", ErrInvalid)
	}
	return nil
}

// --- Manual grading workflow ---

// ListPending returns the issuer's ungraded submissions, most recent first.
func (s *Service) ListPending(ctx context.Context, issuerID string) ([]Submission, error) {
	return s.store.ListPendingByIssuer(ctx, issuerID)
}

// ListByQuiz returns all submissions for one of the issuer's quizzes.
func (s *Service) ListByQuiz(ctx context.Context, issuerID, quizID string) ([]Submission, error) {
	if _, err := s.ownedQuiz(ctx, issuerID, quizID); err != nil {
		return nil, err
	}
	return s.store.ListSubmissionsByQuiz(ctx, quizID)
}

// GradingItems returns only the manually-gradable entries of a submission,
// read from the frozen answer vector rather than the live quiz. Choice
// answers were fixed at capture and are not re-reviewable here.
func (s *Service) GradingItems(ctx context.Context, issuerID, submissionID string) ([]grading.TextEntry, error) {
	sub, err := s.ownedSubmission(ctx, issuerID, submissionID)
	if err != nil {
		return nil, err
	}
	return textEntries(sub), nil
}

func textEntries(sub Submission) []grading.TextEntry {
	var out []grading.TextEntry
	for i, a := range sub.Answers {
		if a.Kind != KindText {
			continue
		}
		out = append(out, grading.TextEntry{
			Position:   i,
			QuestionID: a.QuestionID,
			Answer:     a.Text,
			MaxPoints:  a.MaxPoints,
			Awarded:    sub.ManualScore[i],
		})
	}
	return out
}

// ApplyManualGrades finalizes a pending submission: awards clamp to each
// entry's frozen point cap, missing positions default to zero, and the
// final score becomes autoScore plus the manual total. This is the only
// transition out of pending. Re-grading with a new map is allowed; repeating
// the same map is a no-op on the resulting score.
func (s *Service) ApplyManualGrades(ctx context.Context, issuerID, submissionID string, awards map[int]int) (Submission, error) {
	sub, err := s.ownedSubmission(ctx, issuerID, submissionID)
	if err != nil {
		return Submission{}, err
	}
	normalized, manualTotal, err := grading.ApplyAwards(textEntries(sub), awards)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	sub.ManualScore = normalized
	sub.Score = sub.AutoScore + manualTotal
	sub.Status = StatusGraded
	if err := s.store.UpdateSubmissionGrades(ctx, sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// ownedSubmission enforces issuer scoping on per-submission operations.
func (s *Service) ownedSubmission(ctx context.Context, issuerID, submissionID string) (Submission, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	if sub.IssuerID != issuerID {
		return Submission{}, ErrSubmissionNotFound
	}
	return sub, nil
}
