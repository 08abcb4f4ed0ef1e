package quiz

import (
	"context"
	"errors"
	"testing"
	"time"
)

var (
	testOpen  = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	testClose = testOpen.Add(time.Hour)
)

func newTestService(t *testing.T, now time.Time) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewService(store, WithClock(func() time.Time { return now }))
	return svc, store
}

func mixedQuizInput() QuizInput {
	return QuizInput{
		Title:    "Unit 4 checkpoint",
		OpensAt:  testOpen,
		ClosesAt: testClose,
		Questions: []Question{
			{Kind: KindChoice, Prompt: "Pick one", Points: 1, Options: []string{"a", "b"}, CorrectIndex: 0},
			{Kind: KindText, Prompt: "Explain", Points: 1},
		},
	}
}

func intp(v int) *int { return &v }

func identity() Identity {
	return Identity{FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100", Email: "ada@example.com"}
}

func TestSubmitAndGradeMixedQuiz(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen.Add(time.Minute))

	q, err := svc.CreateQuiz(ctx, "iss-1", mixedQuizInput())
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	// Correct choice, blank text.
	sub, err := svc.Submit(ctx, q.ID, identity(), []AnswerInput{{Choice: intp(0)}, {Text: ""}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.AutoScore != 1 || sub.TotalPoints != 2 || sub.Status != StatusPending {
		t.Fatalf("capture: auto=%d total=%d status=%s", sub.AutoScore, sub.TotalPoints, sub.Status)
	}

	graded, err := svc.ApplyManualGrades(ctx, "iss-1", sub.ID, map[int]int{1: 1})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if graded.Score != 2 || graded.Status != StatusGraded {
		t.Fatalf("finalize: score=%d status=%s", graded.Score, graded.Status)
	}

	// Finalizing again with the identical map yields the same score.
	again, err := svc.ApplyManualGrades(ctx, "iss-1", sub.ID, map[int]int{1: 1})
	if err != nil {
		t.Fatalf("re-grade: %v", err)
	}
	if again.Score != graded.Score {
		t.Fatalf("idempotence: score %d then %d", graded.Score, again.Score)
	}
}

func TestSubmitWrongChoiceZeroAward(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen.Add(time.Minute))

	q, _ := svc.CreateQuiz(ctx, "iss-1", mixedQuizInput())
	sub, err := svc.Submit(ctx, q.ID, identity(), []AnswerInput{{Choice: intp(1)}, {Text: "attempt"}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.AutoScore != 0 {
		t.Fatalf("auto score = %d, want 0", sub.AutoScore)
	}
	graded, err := svc.ApplyManualGrades(ctx, "iss-1", sub.ID, map[int]int{1: 0})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if graded.Score != 0 || graded.Status != StatusGraded {
		t.Fatalf("finalize: score=%d status=%s", graded.Score, graded.Status)
	}
}

func TestAwardAboveCapClamps(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen.Add(time.Minute))

	in := mixedQuizInput()
	in.Questions[1].Points = 3
	q, _ := svc.CreateQuiz(ctx, "iss-1", in)
	sub, _ := svc.Submit(ctx, q.ID, identity(), []AnswerInput{{Choice: intp(0)}, {Text: "long answer"}})

	graded, err := svc.ApplyManualGrades(ctx, "iss-1", sub.ID, map[int]int{1: 5})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if graded.ManualScore[1] != 3 {
		t.Fatalf("stored award = %d, want clamped 3", graded.ManualScore[1])
	}
	if graded.Score > graded.TotalPoints {
		t.Fatalf("score %d exceeds total %d", graded.Score, graded.TotalPoints)
	}
}

func TestAllChoiceQuizGradedAtBirth(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen.Add(time.Minute))

	in := QuizInput{
		Title:    "Choice only",
		OpensAt:  testOpen,
		ClosesAt: testClose,
		Questions: []Question{
			{Kind: KindChoice, Prompt: "One", Points: 2, Options: []string{"x", "y"}, CorrectIndex: 1},
		},
	}
	q, _ := svc.CreateQuiz(ctx, "iss-1", in)
	sub, err := svc.Submit(ctx, q.ID, identity(), []AnswerInput{{Choice: intp(1)}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Status != StatusGraded {
		t.Fatalf("status = %s, want graded at creation", sub.Status)
	}
	if len(sub.ManualScore) != 0 {
		t.Fatalf("manual score map should be empty, got %v", sub.ManualScore)
	}
	if sub.Score != 2 || sub.AutoScore != 2 {
		t.Fatalf("score=%d auto=%d, want 2", sub.Score, sub.AutoScore)
	}
}

func TestSubmitRejectsBeforeOpening(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen.Add(-time.Minute))

	q, _ := svc.CreateQuiz(ctx, "iss-1", mixedQuizInput())
	_, err := svc.Submit(ctx, q.ID, identity(), []AnswerInput{{Choice: intp(0)}, {Text: ""}})
	if !errors.Is(err, ErrWindowNotOpen) {
		t.Fatalf("err = %v, want ErrWindowNotOpen", err)
	}
}

func TestSubmitAcceptedAfterClosing(t *testing.T) {
	// An attempt that started inside the window may finish after it; only
	// starting early is rejected.
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, WithClock(func() time.Time { return testClose.Add(time.Minute) }))

	q := Quiz{
		ID: "qz-1", IssuerID: "iss-1", Title: "T", OpensAt: testOpen, ClosesAt: testClose,
		Questions: []Question{{ID: "q1", Kind: KindChoice, Prompt: "p", Points: 1, Options: []string{"a", "b"}, CorrectIndex: 0}},
		CreatedAt: testOpen,
	}
	if err := store.PutQuiz(ctx, q); err != nil {
		t.Fatalf("put quiz: %v", err)
	}
	if _, err := svc.Submit(ctx, q.ID, identity(), []AnswerInput{{Choice: intp(0)}}); err != nil {
		t.Fatalf("late submit rejected: %v", err)
	}
}

func TestSubmitRequiresIdentityFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen.Add(time.Minute))
	q, _ := svc.CreateQuiz(ctx, "iss-1", mixedQuizInput())

	ident := identity()
	ident.Phone = "  "
	_, err := svc.Submit(ctx, q.ID, ident, []AnswerInput{{Choice: intp(0)}, {Text: ""}})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestForeignIssuerCannotGrade(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen.Add(time.Minute))

	q, _ := svc.CreateQuiz(ctx, "iss-1", mixedQuizInput())
	sub, _ := svc.Submit(ctx, q.ID, identity(), []AnswerInput{{Choice: intp(0)}, {Text: "x"}})

	if _, err := svc.ApplyManualGrades(ctx, "iss-2", sub.ID, map[int]int{1: 1}); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("err = %v, want ErrSubmissionNotFound for foreign issuer", err)
	}
	if _, err := svc.GradingItems(ctx, "iss-2", sub.ID); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("err = %v, want ErrSubmissionNotFound for foreign issuer", err)
	}

	pending, err := svc.ListPending(ctx, "iss-2")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("foreign issuer sees %d pending submissions", len(pending))
	}
}

func TestGradingUsesFrozenEntriesAfterReorder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen.Add(time.Minute))

	q, _ := svc.CreateQuiz(ctx, "iss-1", mixedQuizInput())
	sub, _ := svc.Submit(ctx, q.ID, identity(), []AnswerInput{{Choice: intp(0)}, {Text: "frozen essay"}})

	// Reverse the quiz's questions after the submission exists.
	in := mixedQuizInput()
	in.Questions = []Question{in.Questions[1], in.Questions[0]}
	if _, err := svc.UpdateQuiz(ctx, "iss-1", q.ID, in); err != nil {
		t.Fatalf("update quiz: %v", err)
	}

	items, err := svc.GradingItems(ctx, "iss-1", sub.ID)
	if err != nil {
		t.Fatalf("grading items: %v", err)
	}
	if len(items) != 1 || items[0].Position != 1 || items[0].Answer != "frozen essay" {
		t.Fatalf("frozen entries not used: %+v", items)
	}

	graded, err := svc.ApplyManualGrades(ctx, "iss-1", sub.ID, map[int]int{1: 1})
	if err != nil {
		t.Fatalf("grade after reorder: %v", err)
	}
	if graded.Score != 2 {
		t.Fatalf("score = %d, want 2", graded.Score)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen)

	bad := mixedQuizInput()
	bad.OpensAt, bad.ClosesAt = bad.ClosesAt, bad.OpensAt
	if _, err := svc.CreateQuiz(ctx, "iss-1", bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("inverted window accepted: %v", err)
	}

	bad = mixedQuizInput()
	bad.Questions = nil
	if _, err := svc.CreateQuiz(ctx, "iss-1", bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("empty question set accepted: %v", err)
	}

	bad = mixedQuizInput()
	bad.Questions[0].Options = []string{"only one"}
	if _, err := svc.CreateQuiz(ctx, "iss-1", bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("single-option choice accepted: %v", err)
	}

	bad = mixedQuizInput()
	bad.Questions[0].CorrectIndex = 7
	if _, err := svc.CreateQuiz(ctx, "iss-1", bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("out-of-range correct index accepted: %v", err)
	}

	bad = mixedQuizInput()
	bad.Questions[1].Points = 0
	if _, err := svc.CreateQuiz(ctx, "iss-1", bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("zero-point question accepted: %v", err)
	}
}

func TestDeleteQuizOrphansSubmissions(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, testOpen.Add(time.Minute))

	q, _ := svc.CreateQuiz(ctx, "iss-1", mixedQuizInput())
	sub, _ := svc.Submit(ctx, q.ID, identity(), []AnswerInput{{Choice: intp(0)}, {Text: "x"}})

	if err := svc.DeleteQuiz(ctx, "iss-1", q.ID); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	if _, err := store.GetSubmission(ctx, sub.ID); err != nil {
		t.Fatalf("submission should survive quiz deletion: %v", err)
	}
}

func TestStudentQuizStripsAnswerKey(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, testOpen.Add(time.Minute))

	in := mixedQuizInput()
	in.Questions[0].CorrectIndex = 1
	q, _ := svc.CreateQuiz(ctx, "iss-1", in)

	view, win, err := svc.StudentQuiz(ctx, q.ID)
	if err != nil {
		t.Fatalf("student quiz: %v", err)
	}
	if view.Questions[0].CorrectIndex != 0 {
		t.Fatal("correct index leaked to respondent view")
	}
	if win.Status != WindowActive {
		t.Fatalf("window = %s, want active", win.Status)
	}
}
