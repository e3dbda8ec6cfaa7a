package api

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagedeck/pagedeck/api/helpers"
	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/services/sessions"
)

type UsersController struct {
	store    db.Store
	sessions *sessions.Service
}

func NewUsersController(store db.Store, sessionService *sessions.Service) *UsersController {
	return &UsersController{store: store, sessions: sessionService}
}

// GetAllUsers lists every user except the caller, as summaries for
// the invite picker.
func (c *UsersController) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	users, err := c.store.GetUsers(db.RetrieveQueryParams{})
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	summaries := []db.UserSummary{}
	for _, u := range users {
		if u.ID == user.ID {
			continue
		}
		summaries = append(summaries, u.Summary())
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"users": summaries,
	})
}

// GetSpecificUser searches users by username or email fragment.
func (c *UsersController) GetSpecificUser(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		helpers.WriteErrorStatus(w, "Search term is required", http.StatusBadRequest)
		return
	}

	users, err := c.store.SearchUsers(term)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	summaries := []db.UserSummary{}
	for _, u := range users {
		if u.ID == user.ID {
			continue
		}
		summaries = append(summaries, u.Summary())
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"users": summaries,
	})
}

// UpdateUserInfo changes profile fields of the authenticated user.
// Password changes on local accounts require the current password.
func (c *UsersController) UpdateUserInfo(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	var request struct {
		FirstName       *string `json:"firstname"`
		LastName        *string `json:"lastname"`
		Username        *string `json:"username"`
		Email           *string `json:"email"`
		Avatar          *string `json:"avatar"`
		Password        *string `json:"password"`
		CurrentPassword *string `json:"currentPassword"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	if request.FirstName != nil {
		user.FirstName = *request.FirstName
	}
	if request.LastName != nil {
		user.LastName = *request.LastName
	}
	if request.Username != nil {
		user.Username = *request.Username
	}
	if request.Avatar != nil {
		user.Avatar = *request.Avatar
	}

	if request.Email != nil && *request.Email != user.Email {
		if user.IsSocial() {
			helpers.WriteErrorStatus(w, "Email is managed by the identity provider", http.StatusBadRequest)
			return
		}
		user.Email = *request.Email
	}

	if request.Password != nil && *request.Password != "" {
		if user.IsSocial() {
			helpers.WriteErrorStatus(w, "Social accounts have no password", http.StatusBadRequest)
			return
		}
		if request.CurrentPassword == nil ||
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(*request.CurrentPassword)) != nil {
			helpers.WriteErrorStatus(w, "Current password is incorrect", http.StatusUnauthorized)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			helpers.WriteError(w, err)
			return
		}
		user.Password = string(hash)
	}

	if err := user.Validate(); err != nil {
		helpers.WriteError(w, err)
		return
	}

	if err := c.store.UpdateUser(user); err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"user":  user,
	})
}

// DeleteAccount removes the authenticated user together with their
// sessions and settings, and clears the session cookie.
func (c *UsersController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	if err := c.store.DeleteUser(user.ID); err != nil {
		helpers.WriteError(w, err)
		return
	}

	if err := c.sessions.ExpireAllForUser(user.ID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user": user.ID,
		}).Warn("failed to expire sessions of deleted account")
	}

	if err := c.store.DeleteSettings(user.ID); err != nil && err != db.ErrNotFound {
		log.WithError(err).WithFields(log.Fields{
			"user": user.ID,
		}).Warn("failed to delete settings of deleted account")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"message": "Account deleted",
	})
}

// DarkMode upserts the caller's dark mode preference.
func (c *UsersController) DarkMode(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	var request struct {
		DarkMode bool `json:"darkMode"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	settings, err := c.store.SetDarkMode(user.ID, request.DarkMode)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error":    false,
		"settings": settings,
	})
}

// GetSettings returns the caller's settings, defaulting when none
// were stored yet.
func (c *UsersController) GetSettings(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	settings, err := c.store.GetSettings(user.ID)
	if err == db.ErrNotFound {
		settings = db.Settings{UserID: user.ID}
	} else if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error":    false,
		"settings": settings,
	})
}
