package quiz

import "time"

// Question kinds.
const (
	KindChoice = "choice"
	KindText   = "text"
)

// Submission statuses.
const (
	StatusPending = "pending"
	StatusGraded  = "graded"
)

// Unanswered sentinel for choice questions.
const NoChoice = -1

type Question struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"` // choice|text
	Prompt       string   `json:"prompt"`
	Points       int      `json:"points"`
	Options      []string `json:"options,omitempty"`       // choice only, min 2
	CorrectIndex int      `json:"correct_index,omitempty"` // choice only
}

type Quiz struct {
	ID          string     `json:"id"`
	IssuerID    string     `json:"issuer_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	OpensAt     time.Time  `json:"opens_at"`
	ClosesAt    time.Time  `json:"closes_at"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RequiresManualGrading reports whether any question needs manual review.
func (q Quiz) RequiresManualGrading() bool {
	for _, qu := range q.Questions {
		if qu.Kind == KindText {
			return true
		}
	}
	return false
}

// TotalPoints sums the point values of all questions.
func (q Quiz) TotalPoints() int {
	total := 0
	for _, qu := range q.Questions {
		total += qu.Points
	}
	return total
}

// Answer is one captured entry of a submission's answer vector. Besides the
// respondent's response it freezes the question's identity, kind and point
// cap at capture time, so grading never depends on the quiz's live question
// order.
type Answer struct {
	QuestionID string `json:"question_id"`
	Kind       string `json:"kind"`
	MaxPoints  int    `json:"max_points"`
	Choice     int    `json:"choice,omitempty"` // choice only; NoChoice when unanswered
	Text       string `json:"text,omitempty"`   // text only; empty when unanswered
}

// Identity is the self-reported respondent identity captured with a
// submission. There are no respondent accounts; these fields plus the
// submission token are the only correlation keys.
type Identity struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
}

type Submission struct {
	ID          string      `json:"id"` // public verification token
	QuizID      string      `json:"quiz_id"`
	IssuerID    string      `json:"issuer_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email,omitempty"`
	Answers     []Answer    `json:"answers"`
	AutoScore   int         `json:"auto_score"`
	ManualScore map[int]int `json:"manual_scores,omitempty"` // answer position -> awarded points
	Score       int         `json:"score"`
	TotalPoints int         `json:"total_points"`
	Status      string      `json:"status"` // pending|graded
	SubmittedAt time.Time   `json:"submitted_at"`
}

// FullName is the display name matched case-insensitively during
// verification lookups.
func (s Submission) FullName() string {
	return s.FirstName + " " + s.LastName
}

type Settings struct {
	SchoolName string `json:"school_name,omitempty"`
	BrandColor string `json:"brand_color,omitempty"`
	LogoURL    string `json:"logo_url,omitempty"`
	Language   string `json:"language,omitempty"`
	RTL        bool   `json:"rtl,omitempty"`
}

type Issuer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Active       bool      `json:"active"`
	Plan         string    `json:"plan"` // basic|pro|enterprise
	Settings     Settings  `json:"settings"`
	CreatedAt    time.Time `json:"created_at"`
}
