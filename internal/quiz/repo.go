package quiz

import (
	"context"
	"errors"
)

var (
	ErrIssuerNotFound     = errors.New("issuer not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// IdentityFilter selects submissions by the respondent's self-reported
// identity. Names match case-insensitively, phone exactly.
type IdentityFilter struct {
	FirstName string
	LastName  string
	Phone     string
}

// Store is the narrow CRUD surface over the record store. It offers
// per-record atomicity only; nothing here spans entities transactionally.
type Store interface {
	// Issuers
	GetIssuer(ctx context.Context, id string) (Issuer, error)
	// GetIssuerByCredential returns the single active issuer for a login
	// email, or ErrIssuerNotFound.
	GetIssuerByCredential(ctx context.Context, email string) (Issuer, error)
	ListIssuers(ctx context.Context) ([]Issuer, error)
	PutIssuer(ctx context.Context, is Issuer) error
	UpdateIssuer(ctx context.Context, is Issuer) error
	DeleteIssuer(ctx context.Context, id string) error

	// Quizzes
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	ListQuizzesByIssuer(ctx context.Context, issuerID string) ([]Quiz, error)
	PutQuiz(ctx context.Context, q Quiz) error
	UpdateQuiz(ctx context.Context, q Quiz) error
	DeleteQuiz(ctx context.Context, id string) error

	// Submissions. Submissions are never deleted by respondents; quiz
	// deletion intentionally leaves them addressable by token.
	GetSubmission(ctx context.Context, id string) (Submission, error)
	ListSubmissionsByQuiz(ctx context.Context, quizID string) ([]Submission, error)
	// ListPendingByIssuer returns ungraded submissions across the issuer's
	// quizzes, most recent first.
	ListPendingByIssuer(ctx context.Context, issuerID string) ([]Submission, error)
	// ListSubmissionsByIdentity returns all matches, most recent first.
	ListSubmissionsByIdentity(ctx context.Context, f IdentityFilter) ([]Submission, error)
	ListSubmissionsByEmail(ctx context.Context, email string) ([]Submission, error)
	PutSubmission(ctx context.Context, s Submission) error
	// UpdateSubmissionGrades writes the manual score map, final score and
	// status in a single record update.
	UpdateSubmissionGrades(ctx context.Context, s Submission) error
}
