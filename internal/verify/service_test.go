package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classleaf/quizport/internal/quiz"
)

func seedStore(t *testing.T) (*quiz.MemoryStore, quiz.Submission) {
	t.Helper()
	ctx := context.Background()
	store := quiz.NewMemoryStore()

	q := quiz.Quiz{
		ID: "qz-1", IssuerID: "iss-1", Title: "Algebra review",
		OpensAt:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		ClosesAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Questions: []quiz.Question{
			{ID: "q1", Kind: quiz.KindChoice, Prompt: "p", Points: 1, Options: []string{"a", "b"}, CorrectIndex: 0},
		},
	}
	if err := store.PutQuiz(ctx, q); err != nil {
		t.Fatalf("put quiz: %v", err)
	}

	sub := quiz.Submission{
		ID: "tok-1", QuizID: q.ID, IssuerID: q.IssuerID,
		FirstName: "Grace", LastName: "Hopper", Phone: "555-0101", Email: "grace@example.com",
		Answers:     []quiz.Answer{{QuestionID: "q1", Kind: quiz.KindChoice, MaxPoints: 1, Choice: 0}},
		AutoScore:   1, Score: 1, TotalPoints: 1,
		Status:      quiz.StatusGraded,
		SubmittedAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	if err := store.PutSubmission(ctx, sub); err != nil {
		t.Fatalf("put submission: %v", err)
	}
	return store, sub
}

func TestByTokenAndNameMatchesCaseInsensitively(t *testing.T) {
	store, sub := seedStore(t)
	svc := NewService(store, nil)

	res, err := svc.ByTokenAndName(context.Background(), sub.ID, "grace HOPPER")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if res.Submission.ID != sub.ID || res.QuizTitle != "Algebra review" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestByTokenAndNameMismatchLooksLikeNotFound(t *testing.T) {
	store, sub := seedStore(t)
	svc := NewService(store, nil)

	_, err := svc.ByTokenAndName(context.Background(), sub.ID, "Someone Else")
	if !errors.Is(err, quiz.ErrSubmissionNotFound) {
		t.Fatalf("err = %v, want ErrSubmissionNotFound", err)
	}
}

func TestByIdentityReturnsAllMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store, sub := seedStore(t)
	svc := NewService(store, nil)

	base := sub.SubmittedAt
	for i, id := range []string{"tok-2", "tok-3"} {
		s := sub
		s.ID = id
		s.QuizID = "qz-other"
		s.SubmittedAt = base.Add(time.Duration(i+1) * time.Hour)
		if err := store.PutSubmission(ctx, s); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	res, err := svc.ByIdentity(ctx, "GRACE", "hopper", "555-0101")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("got %d results, want 3", len(res))
	}
	for i := 1; i < len(res); i++ {
		if res[i].Submission.SubmittedAt.After(res[i-1].Submission.SubmittedAt) {
			t.Fatal("results not ordered most recent first")
		}
	}
}

func TestByIdentityPhoneMustMatchExactly(t *testing.T) {
	store, _ := seedStore(t)
	svc := NewService(store, nil)

	res, err := svc.ByIdentity(context.Background(), "Grace", "Hopper", "555-9999")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("got %d results, want 0", len(res))
	}
}

func TestByEmailReturnsHistoryMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store, sub := seedStore(t)
	svc := NewService(store, nil)

	later := sub
	later.ID = "tok-2"
	later.QuizID = "qz-other"
	later.SubmittedAt = sub.SubmittedAt.Add(time.Hour)
	if err := store.PutSubmission(ctx, later); err != nil {
		t.Fatalf("put: %v", err)
	}

	res, err := svc.ByEmail(ctx, "GRACE@example.COM")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d results, want 2", len(res))
	}
	if res[0].Submission.ID != "tok-2" {
		t.Fatalf("first result = %s, want most recent", res[0].Submission.ID)
	}

	none, err := svc.ByEmail(ctx, "stranger@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("got %d results for unknown email, want 0", len(none))
	}
}

func TestPendingSubmissionIsProvisional(t *testing.T) {
	ctx := context.Background()
	store, sub := seedStore(t)
	svc := NewService(store, nil)

	s := sub
	s.ID = "tok-pending"
	s.Status = quiz.StatusPending
	if err := store.PutSubmission(ctx, s); err != nil {
		t.Fatalf("put: %v", err)
	}

	res, err := svc.ByToken(ctx, s.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !res.Provisional {
		t.Fatal("pending submission not marked provisional")
	}
}

func TestDeletedQuizDegradesToPlaceholder(t *testing.T) {
	ctx := context.Background()
	store, sub := seedStore(t)
	svc := NewService(store, nil)

	if err := store.DeleteQuiz(ctx, sub.QuizID); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	res, err := svc.ByToken(ctx, sub.ID)
	if err != nil {
		t.Fatalf("lookup after quiz deletion: %v", err)
	}
	if res.QuizTitle != UnknownQuizTitle {
		t.Fatalf("title = %q, want placeholder", res.QuizTitle)
	}
}
