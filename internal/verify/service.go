// Package verify is the public verification and lookup subsystem. Every
// path here is anonymous: the submission token is the capability, and the
// optional name check is a deterrent against casual guessing, not a
// security boundary.
package verify

import (
	"context"
	"strings"

	"github.com/classleaf/quizport/internal/quiz"
)

// UnknownQuizTitle stands in when the quiz behind a submission has been
// deleted; a missing quiz must degrade, never abort a lookup.
const UnknownQuizTitle = "(quiz no longer available)"

// Result is a verified submission together with its quiz context.
type Result struct {
	Submission quiz.Submission `json:"submission"`
	QuizTitle  string          `json:"quiz_title"`
	// Provisional marks a still-pending submission whose score excludes
	// manual awards and must not be presented as final.
	Provisional bool `json:"provisional"`
}

type Service struct {
	store quiz.Store
	cache *Cache // nil disables caching
}

func NewService(store quiz.Store, cache *Cache) *Service {
	return &Service{store: store, cache: cache}
}

// ByToken resolves a bare verification token (QR / share-link flow). No
// identity check: holding the token is the capability.
func (s *Service) ByToken(ctx context.Context, token string) (Result, error) {
	sub, err := s.lookupSubmission(ctx, token)
	if err != nil {
		return Result{}, err
	}
	return s.result(ctx, sub), nil
}

// ByTokenAndName resolves a token only when the claimed respondent full name
// matches the stored one case-insensitively. A mismatch is indistinguishable
// from an unknown token.
func (s *Service) ByTokenAndName(ctx context.Context, token, claimedName string) (Result, error) {
	sub, err := s.lookupSubmission(ctx, token)
	if err != nil {
		return Result{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(claimedName), sub.FullName()) {
		return Result{}, quiz.ErrSubmissionNotFound
	}
	return s.result(ctx, sub), nil
}

// ByIdentity is the respondent self-service history: all submissions
// matching the identity triple, most recent first.
func (s *Service) ByIdentity(ctx context.Context, firstName, lastName, phone string) ([]Result, error) {
	subs, err := s.store.ListSubmissionsByIdentity(ctx, quiz.IdentityFilter{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Phone:     strings.TrimSpace(phone),
	})
	if err != nil {
		return nil, err
	}
	return s.results(ctx, subs), nil
}

// ByEmail returns all submissions recorded under a contact email, most
// recent first.
func (s *Service) ByEmail(ctx context.Context, email string) ([]Result, error) {
	subs, err := s.store.ListSubmissionsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	return s.results(ctx, subs), nil
}

// Invalidate drops a token from the cache, called after grading finalizes.
func (s *Service) Invalidate(ctx context.Context, token string) {
	if s.cache != nil {
		s.cache.Delete(ctx, token)
	}
}

func (s *Service) lookupSubmission(ctx context.Context, token string) (quiz.Submission, error) {
	if s.cache != nil {
		if sub, ok := s.cache.Get(ctx, token); ok {
			return sub, nil
		}
	}
	sub, err := s.store.GetSubmission(ctx, token)
	if err != nil {
		return quiz.Submission{}, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, sub)
	}
	return sub, nil
}

func (s *Service) result(ctx context.Context, sub quiz.Submission) Result {
	title := UnknownQuizTitle
	if q, err := s.store.GetQuiz(ctx, sub.QuizID); err == nil {
		title = q.Title
	}
	return Result{
		Submission:  sub,
		QuizTitle:   title,
		Provisional: sub.Status == quiz.StatusPending,
	}
}

func (s *Service) results(ctx context.Context, subs []quiz.Submission) []Result {
	out := make([]Result, 0, len(subs))
	for _, sub := range subs {
		out = append(out, s.result(ctx, sub))
	}
	return out
}
