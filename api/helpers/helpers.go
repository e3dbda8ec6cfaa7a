package helpers

import (
	"context"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/pagedeck/pagedeck/db"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

func SetUserContext(r *http.Request, user db.User, session db.Session) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	ctx = context.WithValue(ctx, sessionContextKey, session)
	return r.WithContext(ctx)
}

// UserFromContext returns the authenticated user placed into the
// request by the auth middleware.
func UserFromContext(r *http.Request) (db.User, bool) {
	user, ok := r.Context().Value(userContextKey).(db.User)
	return user, ok
}

func SessionFromContext(r *http.Request) (db.Session, bool) {
	session, ok := r.Context().Value(sessionContextKey).(db.Session)
	return session, ok
}

// Bind decodes the JSON request body into target. On failure it
// writes a 400 and returns false.
func Bind(w http.ResponseWriter, r *http.Request, target any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(target); err != nil {
		WriteErrorStatus(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func WriteJSON(w http.ResponseWriter, code int, out any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.WithError(err).Error("cannot encode response body")
	}
}

// WriteErrorStatus writes a structured failure response. The body
// carries both failure flags used across the app.
func WriteErrorStatus(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]any{
		"success": false,
		"error":   true,
		"message": message,
	})
}

// WriteError translates an error into a response without leaking
// internals: validation errors become 400, missing records 404,
// everything else an opaque 500.
func WriteError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *db.ValidationError:
		WriteErrorStatus(w, e.Message, http.StatusBadRequest)
		return
	}

	if err == db.ErrNotFound {
		WriteErrorStatus(w, "Record not found", http.StatusNotFound)
		return
	}

	log.WithError(err).Error("internal server error")
	WriteErrorStatus(w, "Internal server error", http.StatusInternalServerError)
}
