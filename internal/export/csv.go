package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/classleaf/quizport/internal/quiz"
)

// Row is one exported report line. Every field is populated; score never
// exceeds total.
type Row struct {
	FirstName   string
	LastName    string
	Phone       string
	Email       string
	Score       int
	TotalPoints int
	Status      string
	SubmittedAt time.Time
}

// RowsFromSubmissions maps submissions onto report rows.
func RowsFromSubmissions(subs []quiz.Submission) []Row {
	out := make([]Row, 0, len(subs))
	for _, s := range subs {
		out = append(out, Row{
			FirstName:   s.FirstName,
			LastName:    s.LastName,
			Phone:       s.Phone,
			Email:       s.Email,
			Score:       s.Score,
			TotalPoints: s.TotalPoints,
			Status:      s.Status,
			SubmittedAt: s.SubmittedAt,
		})
	}
	return out
}

// CSV renders rows into a report suitable for spreadsheet import.
func CSV(rows []Row) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"first_name", "last_name", "phone", "email", "score", "total_points", "status", "submitted_at"})
	for _, r := range rows {
		rec := []string{
			r.FirstName,
			r.LastName,
			r.Phone,
			r.Email,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.TotalPoints),
			r.Status,
			r.SubmittedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
