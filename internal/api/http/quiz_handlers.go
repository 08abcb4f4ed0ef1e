package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classleaf/quizport/internal/auth"
	"github.com/classleaf/quizport/internal/quiz"
)

// POST /quizzes
func CreateQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in quiz.QuizInput
		if err := decode(r, &in); err != nil {
			writeErr(w, err)
			return
		}
		q, err := svc.CreateQuiz(r.Context(), auth.SubjectFromContext(r.Context()), in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// PUT /quizzes/{quizID}
func UpdateQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in quiz.QuizInput
		if err := decode(r, &in); err != nil {
			writeErr(w, err)
			return
		}
		q, err := svc.UpdateQuiz(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "quizID"), in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// DELETE /quizzes/{quizID}
func DeleteQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteQuiz(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /quizzes
func ListQuizzesHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListQuizzes(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /quizzes/{quizID}/full — issuer view, answer keys included.
func GetOwnedQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := svc.GetOwnedQuiz(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

type studentQuizResp struct {
	Quiz   quiz.Quiz        `json:"quiz"`
	Window quiz.WindowState `json:"window"`
}

// GET /quizzes/{quizID} — public respondent view, correct-answer data
// stripped; includes the window state evaluated server-side.
func GetStudentQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, win, err := svc.StudentQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, studentQuizResp{Quiz: q, Window: win})
	}
}
