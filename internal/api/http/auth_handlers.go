package http

import (
	"net/http"

	"github.com/classleaf/quizport/internal/auth"
	"github.com/classleaf/quizport/internal/quiz"
)

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	AccessToken string      `json:"access_token"`
	Issuer      quiz.Issuer `json:"issuer"`
}

// POST /auth/login
func LoginHandler(authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		is, tok, err := authSvc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResp{AccessToken: tok, Issuer: is})
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// POST /issuer/password
func ChangePasswordHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issuerID := auth.SubjectFromContext(r.Context())
		var req changePasswordReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		is, err := store.GetIssuer(r.Context(), issuerID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !auth.CheckPassword(is.PasswordHash, req.OldPassword) {
			http.Error(w, "incorrect old password", http.StatusForbidden)
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			writeErr(w, err)
			return
		}
		is.PasswordHash = hash
		if err := store.UpdateIssuer(r.Context(), is); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
