package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classleaf/quizport/internal/auth"
	"github.com/classleaf/quizport/internal/export"
	"github.com/classleaf/quizport/internal/quiz"
)

// GET /quizzes/{quizID}/export — issuer-scoped CSV report.
func ExportHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := svc.ListByQuiz(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		data, err := export.CSV(export.RowsFromSubmissions(subs))
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="submissions.csv"`)
		_, _ = w.Write(data)
	}
}
