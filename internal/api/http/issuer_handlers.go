package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classleaf/quizport/internal/auth"
	"github.com/classleaf/quizport/internal/quiz"
)

// GET /issuer/settings
func GetIssuerHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		is, err := store.GetIssuer(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, is)
	}
}

type updateSettingsReq struct {
	Name     string        `json:"name" validate:"required"`
	Settings quiz.Settings `json:"settings"`
}

// PUT /issuer/settings
func UpdateIssuerSettingsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateSettingsReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		is, err := store.GetIssuer(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		is.Name = req.Name
		is.Settings = req.Settings
		if err := store.UpdateIssuer(r.Context(), is); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, is)
	}
}

// --- administrative provisioning surface ---

type provisionIssuerReq struct {
	Email    string        `json:"email" validate:"required,email"`
	Password string        `json:"password" validate:"required,min=8"`
	Name     string        `json:"name" validate:"required"`
	Plan     string        `json:"plan" validate:"omitempty,oneof=basic pro enterprise"`
	Settings quiz.Settings `json:"settings"`
}

// POST /admin/issuers
func ProvisionIssuerHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req provisionIssuerReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeErr(w, err)
			return
		}
		plan := req.Plan
		if plan == "" {
			plan = "basic"
		}
		is := quiz.Issuer{
			ID:           uuid.NewString(),
			Email:        req.Email,
			PasswordHash: hash,
			Name:         req.Name,
			Active:       true,
			Plan:         plan,
			Settings:     req.Settings,
			CreatedAt:    time.Now().UTC(),
		}
		if err := store.PutIssuer(r.Context(), is); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, is)
	}
}

// GET /admin/issuers
func ListIssuersHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListIssuers(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

type suspendReq struct {
	Active bool `json:"active"`
}

// PUT /admin/issuers/{issuerID}/active — soft enable/disable. A suspended
// issuer keeps its quizzes readable but can no longer log in.
func SuspendIssuerHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req suspendReq
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		is, err := store.GetIssuer(r.Context(), chi.URLParam(r, "issuerID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		is.Active = req.Active
		if err := store.UpdateIssuer(r.Context(), is); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, is)
	}
}

// DELETE /admin/issuers/{issuerID}
func DeleteIssuerHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteIssuer(r.Context(), chi.URLParam(r, "issuerID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
