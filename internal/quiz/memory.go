package quiz

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory Store used for tests and
// offline single-process runs.
type MemoryStore struct {
	mu          sync.RWMutex
	issuers     map[string]Issuer
	quizzes     map[string]Quiz
	submissions map[string]Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		issuers:     map[string]Issuer{},
		quizzes:     map[string]Quiz{},
		submissions: map[string]Submission{},
	}
}

func (m *MemoryStore) GetIssuer(_ context.Context, id string) (Issuer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	is, ok := m.issuers[id]
	if !ok {
		return Issuer{}, ErrIssuerNotFound
	}
	return is, nil
}

func (m *MemoryStore) GetIssuerByCredential(_ context.Context, email string) (Issuer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, is := range m.issuers {
		if is.Active && strings.EqualFold(is.Email, email) {
			return is, nil
		}
	}
	return Issuer{}, ErrIssuerNotFound
}

func (m *MemoryStore) ListIssuers(_ context.Context) ([]Issuer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Issuer, 0, len(m.issuers))
	for _, is := range m.issuers {
		out = append(out, is)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) PutIssuer(_ context.Context, is Issuer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issuers[is.ID] = is
	return nil
}

func (m *MemoryStore) UpdateIssuer(_ context.Context, is Issuer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.issuers[is.ID]; !ok {
		return ErrIssuerNotFound
	}
	m.issuers[is.ID] = is
	return nil
}

func (m *MemoryStore) DeleteIssuer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.issuers[id]; !ok {
		return ErrIssuerNotFound
	}
	delete(m.issuers, id)
	return nil
}

func (m *MemoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	return q, nil
}

func (m *MemoryStore) ListQuizzesByIssuer(_ context.Context, issuerID string) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Quiz
	for _, q := range m.quizzes {
		if q.IssuerID == issuerID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) PutQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

func (m *MemoryStore) UpdateQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[q.ID]; !ok {
		return ErrQuizNotFound
	}
	m.quizzes[q.ID] = q
	return nil
}

func (m *MemoryStore) DeleteQuiz(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return ErrQuizNotFound
	}
	delete(m.quizzes, id)
	return nil
}

func (m *MemoryStore) GetSubmission(_ context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	return s, nil
}

func (m *MemoryStore) ListSubmissionsByQuiz(_ context.Context, quizID string) ([]Submission, error) {
	return m.filterSubmissions(func(s Submission) bool { return s.QuizID == quizID })
}

func (m *MemoryStore) ListPendingByIssuer(_ context.Context, issuerID string) ([]Submission, error) {
	return m.filterSubmissions(func(s Submission) bool {
		return s.IssuerID == issuerID && s.Status == StatusPending
	})
}

func (m *MemoryStore) ListSubmissionsByIdentity(_ context.Context, f IdentityFilter) ([]Submission, error) {
	return m.filterSubmissions(func(s Submission) bool {
		return strings.EqualFold(s.FirstName, f.FirstName) &&
			strings.EqualFold(s.LastName, f.LastName) &&
			s.Phone == f.Phone
	})
}

func (m *MemoryStore) ListSubmissionsByEmail(_ context.Context, email string) ([]Submission, error) {
	return m.filterSubmissions(func(s Submission) bool { return strings.EqualFold(s.Email, email) })
}

func (m *MemoryStore) PutSubmission(_ context.Context, s Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[s.ID] = s
	return nil
}

func (m *MemoryStore) UpdateSubmissionGrades(_ context.Context, s Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.submissions[s.ID]
	if !ok {
		return ErrSubmissionNotFound
	}
	cur.ManualScore = s.ManualScore
	cur.Score = s.Score
	cur.Status = s.Status
	m.submissions[s.ID] = cur
	return nil
}

func (m *MemoryStore) filterSubmissions(keep func(Submission) bool) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Submission
	for _, s := range m.submissions {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}
