package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/classleaf/quizport/internal/auth"
	"github.com/classleaf/quizport/internal/quiz"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode parses the request body and runs struct validation.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("bad json")
	}
	return validate.Struct(dst)
}

// writeErr maps domain errors onto HTTP statuses. Scoping failures surface
// as not-found so tokens and ids cannot be probed.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrIssuerNotFound),
		errors.Is(err, quiz.ErrQuizNotFound),
		errors.Is(err, quiz.ErrSubmissionNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, quiz.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, quiz.ErrWindowNotOpen):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, auth.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	default:
		var verr validator.ValidationErrors
		if errors.As(err, &verr) || err.Error() == "bad json" {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
