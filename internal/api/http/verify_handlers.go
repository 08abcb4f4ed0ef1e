package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classleaf/quizport/internal/verify"
)

// GET /verify/{token} — bare-token verification-link flow; the token itself
// is the capability.
func VerifyByTokenHandler(verifier *verify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := verifier.ByToken(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type lookupReq struct {
	Token string `json:"token" validate:"required"`
	Name  string `json:"name" validate:"required"`
}

// POST /lookup — token plus claimed full name; a mismatch looks identical
// to an unknown token.
func LookupHandler(verifier *verify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lookupReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		res, err := verifier.ByTokenAndName(r.Context(), strings.TrimSpace(req.Token), req.Name)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type historyReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

// POST /history — respondent self-service history by identity triple.
func HistoryHandler(verifier *verify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req historyReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		res, err := verifier.ByIdentity(r.Context(), req.FirstName, req.LastName, req.Phone)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type emailHistoryReq struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /history/email
func EmailHistoryHandler(verifier *verify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req emailHistoryReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		res, err := verifier.ByEmail(r.Context(), req.Email)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
