package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classleaf/quizport/internal/auth"
	"github.com/classleaf/quizport/internal/quiz"
	"github.com/classleaf/quizport/internal/verify"
)

// GET /submissions/pending
func ListPendingHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListPending(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /quizzes/{quizID}/submissions
func ListByQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListByQuiz(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /submissions/{submissionID}/grading — the frozen text entries only;
// choice answers were fixed at capture and are not re-reviewable.
func GradingItemsHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.GradingItems(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "submissionID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

type applyGradesReq struct {
	Awards map[int]int `json:"awards"` // answer position -> points
}

// POST /submissions/{submissionID}/grading
func ApplyGradesHandler(svc *quiz.Service, verifier *verify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applyGradesReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		sub, err := svc.ApplyManualGrades(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "submissionID"), req.Awards)
		if err != nil {
			writeErr(w, err)
			return
		}
		// The public lookup cache may hold the pre-grading record.
		verifier.Invalidate(r.Context(), sub.ID)
		writeJSON(w, http.StatusOK, sub)
	}
}
