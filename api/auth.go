package api

import (
	"net/http"

	"github.com/gorilla/securecookie"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagedeck/pagedeck/api/helpers"
	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/services/sessions"
	"github.com/pagedeck/pagedeck/util"
)

const sessionCookieName = "pagedeck"

type AuthController struct {
	store    db.Store
	sessions *sessions.Service
	cookie   *securecookie.SecureCookie
}

func NewAuthController(store db.Store, sessionService *sessions.Service) *AuthController {
	var encryptionKey []byte
	if util.Config.CookieEncryption != "" {
		encryptionKey = []byte(util.Config.CookieEncryption)
	}

	return &AuthController{
		store:    store,
		sessions: sessionService,
		cookie:   securecookie.New([]byte(util.Config.CookieHash), encryptionKey),
	}
}

// Middleware authenticates the request from its session cookie and
// attaches the user to the request context. Requests without a valid
// session are rejected with 401.
func (c *AuthController) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, session, ok := c.authenticate(r)
		if !ok {
			helpers.WriteErrorStatus(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, helpers.SetUserContext(r, user, session))
	})
}

// authenticate resolves the session cookie to a user without writing
// a response, so the websocket endpoint can share it.
func (c *AuthController) authenticate(r *http.Request) (user db.User, session db.Session, ok bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return
	}

	var sessionID string
	if err = c.cookie.Decode(sessionCookieName, cookie.Value, &sessionID); err != nil {
		return
	}

	session, err = c.sessions.Verify(sessionID)
	if err != nil {
		return
	}

	user, err = c.store.GetUser(session.UserID)
	if err != nil {
		return
	}

	ok = true
	return
}

// Authenticate exposes cookie authentication to the websocket
// endpoint, which cannot go through the middleware because a failed
// upgrade must stay silent.
func (c *AuthController) Authenticate(r *http.Request) (db.User, db.Session, bool) {
	return c.authenticate(r)
}

// startSession opens a session for the user and sets the cookie.
func (c *AuthController) startSession(w http.ResponseWriter, userID int) error {
	session, err := c.sessions.Create(userID)
	if err != nil {
		return err
	}

	encoded, err := c.cookie.Encode(sessionCookieName, session.ID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *AuthController) clearSession(w http.ResponseWriter, r *http.Request) {
	if session, ok := helpers.SessionFromContext(r); ok {
		if err := c.sessions.Expire(session.ID); err != nil {
			log.WithError(err).Warn("cannot expire session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// SignUp registers a local account and logs it in right away.
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Avatar    string `json:"avatar"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	if request.Email == "" || request.Password == "" {
		helpers.WriteErrorStatus(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	if _, err := c.store.GetUserByEmail(request.Email); err == nil {
		helpers.WriteErrorStatus(w, "Account already exists", http.StatusBadRequest)
		return
	} else if err != db.ErrNotFound {
		helpers.WriteError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	newUser := db.User{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Username:  request.Username,
		Email:     request.Email,
		Password:  string(hash),
		Avatar:    request.Avatar,
	}
	newUser.FillUsername()

	user, err := c.store.CreateUser(newUser)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	if err = c.startSession(w, user.ID); err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, map[string]any{
		"error":   false,
		"message": "User has signed up successfully",
		"user":    user,
	})
}

// Login authenticates a local account.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	user, err := c.store.GetUserByEmail(request.Email)
	if err == db.ErrNotFound {
		helpers.WriteErrorStatus(w, "Account does not exist", http.StatusBadRequest)
		return
	} else if err != nil {
		helpers.WriteError(w, err)
		return
	}

	if user.Password == "" {
		helpers.WriteErrorStatus(w,
			"This account was registered via social login. Please use Google or GitHub.",
			http.StatusBadRequest)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)) != nil {
		helpers.WriteErrorStatus(w, "Incorrect password", http.StatusUnauthorized)
		return
	}

	if err = c.startSession(w, user.ID); err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"message": "User has logged in successfully",
	})
}

// Logout expires the current session and clears the cookie.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.clearSession(w, r)

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"message": "Logged out successfully",
	})
}

// CurrentUser returns the authenticated user.
func (c *AuthController) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"user":  user,
	})
}
