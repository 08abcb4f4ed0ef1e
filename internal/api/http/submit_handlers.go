package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classleaf/quizport/internal/quiz"
)

type submitReq struct {
	FirstName string             `json:"first_name" validate:"required"`
	LastName  string             `json:"last_name" validate:"required"`
	Phone     string             `json:"phone" validate:"required"`
	Email     string             `json:"email" validate:"omitempty,email"`
	Answers   []quiz.AnswerInput `json:"answers"`
}

type submitResp struct {
	Token       string `json:"token"`
	Score       int    `json:"score"`
	TotalPoints int    `json:"total_points"`
	Status      string `json:"status"`
	// VerifyPath is the shareable verification link fragment; the token is
	// the only secret it carries.
	VerifyPath string `json:"verify_path"`
}

// POST /quizzes/{quizID}/submissions — public, one-shot answer capture.
func SubmitHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		sub, err := svc.Submit(r.Context(), chi.URLParam(r, "quizID"), quiz.Identity{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Email:     req.Email,
		}, req.Answers)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, submitResp{
			Token:       sub.ID,
			Score:       sub.Score,
			TotalPoints: sub.TotalPoints,
			Status:      sub.Status,
			VerifyPath:  "/verify/" + sub.ID,
		})
	}
}
