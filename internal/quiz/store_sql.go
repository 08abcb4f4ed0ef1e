package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore implements Store over database/sql (sqlite or postgres).
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// --- Issuers ---

const issuerCols = `id,email,password_hash,name,active,plan,settings_json,created_at`

func (s *SQLStore) GetIssuer(ctx context.Context, id string) (Issuer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+issuerCols+` FROM issuers WHERE id=$1`, id)
	return scanIssuer(row)
}

func (s *SQLStore) GetIssuerByCredential(ctx context.Context, email string) (Issuer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+issuerCols+` FROM issuers WHERE LOWER(email)=LOWER($1) AND active`, email)
	return scanIssuer(row)
}

func (s *SQLStore) ListIssuers(ctx context.Context) ([]Issuer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+issuerCols+` FROM issuers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Issuer
	for rows.Next() {
		is, err := scanIssuer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutIssuer(ctx context.Context, is Issuer) error {
	sj, err := json.Marshal(is.Settings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO issuers (`+issuerCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		is.ID, is.Email, is.PasswordHash, is.Name, is.Active, is.Plan, string(sj), is.CreatedAt.Unix())
	return err
}

func (s *SQLStore) UpdateIssuer(ctx context.Context, is Issuer) error {
	sj, err := json.Marshal(is.Settings)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE issuers SET email=$1,password_hash=$2,name=$3,active=$4,plan=$5,settings_json=$6 WHERE id=$7`,
		is.Email, is.PasswordHash, is.Name, is.Active, is.Plan, string(sj), is.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrIssuerNotFound)
}

func (s *SQLStore) DeleteIssuer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM issuers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrIssuerNotFound)
}

// --- Quizzes ---

const quizCols = `id,issuer_id,title,description,opens_at,closes_at,questions_json,created_at`

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+quizCols+` FROM quizzes WHERE id=$1`, id)
	return scanQuiz(row)
}

func (s *SQLStore) ListQuizzesByIssuer(ctx context.Context, issuerID string) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+quizCols+` FROM quizzes WHERE issuer_id=$1 ORDER BY created_at DESC`, issuerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (`+quizCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		q.ID, q.IssuerID, q.Title, q.Description, q.OpensAt.Unix(), q.ClosesAt.Unix(), string(qj), q.CreatedAt.Unix())
	return err
}

func (s *SQLStore) UpdateQuiz(ctx context.Context, q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET title=$1,description=$2,opens_at=$3,closes_at=$4,questions_json=$5 WHERE id=$6`,
		q.Title, q.Description, q.OpensAt.Unix(), q.ClosesAt.Unix(), string(qj), q.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrQuizNotFound)
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	// Submissions are intentionally left in place; the token keeps them
	// addressable after the quiz is gone.
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrQuizNotFound)
}

// --- Submissions ---

const subCols = `id,quiz_id,issuer_id,first_name,last_name,phone,email,answers_json,auto_score,manual_json,score,total_points,status,submitted_at`

func (s *SQLStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+subCols+` FROM submissions WHERE id=$1`, id)
	return scanSubmission(row)
}

func (s *SQLStore) ListSubmissionsByQuiz(ctx context.Context, quizID string) ([]Submission, error) {
	return s.querySubmissions(ctx,
		`SELECT `+subCols+` FROM submissions WHERE quiz_id=$1 ORDER BY submitted_at DESC`, quizID)
}

func (s *SQLStore) ListPendingByIssuer(ctx context.Context, issuerID string) ([]Submission, error) {
	return s.querySubmissions(ctx,
		`SELECT `+subCols+` FROM submissions WHERE issuer_id=$1 AND status=$2 ORDER BY submitted_at DESC`,
		issuerID, StatusPending)
}

func (s *SQLStore) ListSubmissionsByIdentity(ctx context.Context, f IdentityFilter) ([]Submission, error) {
	return s.querySubmissions(ctx,
		`SELECT `+subCols+` FROM submissions
		 WHERE LOWER(first_name)=LOWER($1) AND LOWER(last_name)=LOWER($2) AND phone=$3
		 ORDER BY submitted_at DESC`,
		f.FirstName, f.LastName, f.Phone)
}

func (s *SQLStore) ListSubmissionsByEmail(ctx context.Context, email string) ([]Submission, error) {
	return s.querySubmissions(ctx,
		`SELECT `+subCols+` FROM submissions WHERE LOWER(email)=LOWER($1) ORDER BY submitted_at DESC`, email)
}

func (s *SQLStore) PutSubmission(ctx context.Context, sub Submission) error {
	aj, mj, err := marshalSubmissionPayloads(sub)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (`+subCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		sub.ID, sub.QuizID, sub.IssuerID, sub.FirstName, sub.LastName, sub.Phone, sub.Email,
		aj, sub.AutoScore, mj, sub.Score, sub.TotalPoints, sub.Status, sub.SubmittedAt.Unix())
	return err
}

func (s *SQLStore) UpdateSubmissionGrades(ctx context.Context, sub Submission) error {
	_, mj, err := marshalSubmissionPayloads(sub)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET manual_json=$1,score=$2,status=$3 WHERE id=$4`,
		mj, sub.Score, sub.Status, sub.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSubmissionNotFound)
}

func (s *SQLStore) querySubmissions(ctx context.Context, query string, args ...any) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssuer(r rowScanner) (Issuer, error) {
	var is Issuer
	var sj string
	var created int64
	err := r.Scan(&is.ID, &is.Email, &is.PasswordHash, &is.Name, &is.Active, &is.Plan, &sj, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Issuer{}, ErrIssuerNotFound
		}
		return Issuer{}, err
	}
	if err := json.Unmarshal([]byte(sj), &is.Settings); err != nil {
		return Issuer{}, fmt.Errorf("decode issuer settings: %w", err)
	}
	is.CreatedAt = time.Unix(created, 0).UTC()
	return is, nil
}

func scanQuiz(r rowScanner) (Quiz, error) {
	var q Quiz
	var qj string
	var opens, closes, created int64
	err := r.Scan(&q.ID, &q.IssuerID, &q.Title, &q.Description, &opens, &closes, &qj, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qj), &q.Questions); err != nil {
		return Quiz{}, fmt.Errorf("decode questions: %w", err)
	}
	q.OpensAt = time.Unix(opens, 0).UTC()
	q.ClosesAt = time.Unix(closes, 0).UTC()
	q.CreatedAt = time.Unix(created, 0).UTC()
	return q, nil
}

func scanSubmission(r rowScanner) (Submission, error) {
	var sub Submission
	var aj, mj string
	var at int64
	err := r.Scan(&sub.ID, &sub.QuizID, &sub.IssuerID, &sub.FirstName, &sub.LastName, &sub.Phone, &sub.Email,
		&aj, &sub.AutoScore, &mj, &sub.Score, &sub.TotalPoints, &sub.Status, &at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrSubmissionNotFound
		}
		return Submission{}, err
	}
	if err := json.Unmarshal([]byte(aj), &sub.Answers); err != nil {
		return Submission{}, fmt.Errorf("decode answers: %w", err)
	}
	if mj != "" {
		if err := json.Unmarshal([]byte(mj), &sub.ManualScore); err != nil {
			return Submission{}, fmt.Errorf("decode manual scores: %w", err)
		}
	}
	sub.SubmittedAt = time.Unix(at, 0).UTC()
	return sub, nil
}

func marshalSubmissionPayloads(sub Submission) (answers, manual string, err error) {
	aj, err := json.Marshal(sub.Answers)
	if err != nil {
		return "", "", err
	}
	m := sub.ManualScore
	if m == nil {
		m = map[int]int{}
	}
	mj, err := json.Marshal(m)
	if err != nil {
		return "", "", err
	}
	return string(aj), string(mj), nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
