package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagedeck/pagedeck/api/helpers"
	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/db/bolt"
	"github.com/pagedeck/pagedeck/services/sessions"
)

type usersFixture struct {
	store      db.Store
	controller *UsersController
	user       db.User
}

func newUsersFixture(t *testing.T) *usersFixture {
	store := bolt.CreateTestStore()

	hash, err := bcrypt.GenerateFromPassword([]byte("old password"), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := store.CreateUser(db.User{
		Username: "ada",
		Email:    "ada@example.com",
		Password: string(hash),
	})
	require.NoError(t, err)

	return &usersFixture{
		store:      store,
		controller: NewUsersController(store, sessions.NewService(store, 14)),
		user:       user,
	}
}

func (f *usersFixture) request(t *testing.T, method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, target, &buf)
	return helpers.SetUserContext(r, f.user, db.Session{})
}

func TestUpdateUserInfoProfileFields(t *testing.T) {
	f := newUsersFixture(t)

	w := httptest.NewRecorder()
	f.controller.UpdateUserInfo(w, f.request(t, "PATCH", "/updateUserInfo", map[string]any{
		"username": "lovelace",
		"avatar":   "https://example.com/ada.png",
	}))

	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.store.GetUser(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "lovelace", stored.Username)
	assert.Equal(t, "https://example.com/ada.png", stored.Avatar)
}

func TestUpdateUserInfoPasswordRequiresCurrent(t *testing.T) {
	f := newUsersFixture(t)

	w := httptest.NewRecorder()
	f.controller.UpdateUserInfo(w, f.request(t, "PATCH", "/updateUserInfo", map[string]any{
		"password":        "new password",
		"currentPassword": "wrong",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	f.controller.UpdateUserInfo(w, f.request(t, "PATCH", "/updateUserInfo", map[string]any{
		"password":        "new password",
		"currentPassword": "old password",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.store.GetUser(f.user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("new password")))
}

func TestDarkModeUpsert(t *testing.T) {
	f := newUsersFixture(t)

	w := httptest.NewRecorder()
	f.controller.DarkMode(w, f.request(t, "PATCH", "/settings/darkMode", map[string]any{
		"darkMode": true,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	settings, err := f.store.GetSettings(f.user.ID)
	require.NoError(t, err)
	assert.True(t, settings.DarkMode)

	w = httptest.NewRecorder()
	f.controller.DarkMode(w, f.request(t, "PATCH", "/settings/darkMode", map[string]any{
		"darkMode": false,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	settings, err = f.store.GetSettings(f.user.ID)
	require.NoError(t, err)
	assert.False(t, settings.DarkMode)
}

func TestDeleteAccount(t *testing.T) {
	f := newUsersFixture(t)

	w := httptest.NewRecorder()
	f.controller.DeleteAccount(w, f.request(t, "DELETE", "/deleteAccount", nil))
	require.Equal(t, http.StatusOK, w.Code)

	_, err := f.store.GetUser(f.user.ID)
	assert.Equal(t, db.ErrNotFound, err)
}

func TestGetAllUsersExcludesCaller(t *testing.T) {
	f := newUsersFixture(t)

	_, err := f.store.CreateUser(db.User{Username: "grace", Email: "grace@example.com"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.controller.GetAllUsers(w, f.request(t, "GET", "/getAllUsers", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Users []db.UserSummary `json:"users"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Users, 1)
	assert.Equal(t, "grace", body.Users[0].Username)
}
