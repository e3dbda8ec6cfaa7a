package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/go-github/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	oauth2github "golang.org/x/oauth2/github"

	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/util"
)

const oauthStateCookieName = "pagedeck_oauth_state"

// OAuthController handles the Google and GitHub sign-in flows. Both
// resolve the provider identity to a local user synchronously and
// reuse the regular session machinery afterwards.
type OAuthController struct {
	auth  *AuthController
	store db.Store

	googleConfig   *oauth2.Config
	googleVerifier *oidc.IDTokenVerifier
	githubConfig   *oauth2.Config
}

func NewOAuthController(auth *AuthController, store db.Store) *OAuthController {
	c := &OAuthController{auth: auth, store: store}

	if g := util.Config.GoogleOAuth; g != nil {
		provider, err := oidc.NewProvider(context.Background(), "https://accounts.google.com")
		if err != nil {
			log.WithError(err).Error("cannot initialize google oidc provider")
		} else {
			c.googleConfig = &oauth2.Config{
				ClientID:     g.ClientID,
				ClientSecret: g.ClientSecret,
				RedirectURL:  g.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			}
			c.googleVerifier = provider.Verifier(&oidc.Config{ClientID: g.ClientID})
		}
	}

	if g := util.Config.GithubOAuth; g != nil {
		c.githubConfig = &oauth2.Config{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  g.RedirectURL,
			Endpoint:     oauth2github.Endpoint,
			Scopes:       []string{"user:email"},
		}
	}

	return c
}

func (c *OAuthController) redirectToProvider(w http.ResponseWriter, r *http.Request, config *oauth2.Config) {
	if config == nil {
		providerNotConfigured(w)
		return
	}

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		http.Error(w, "cannot generate state", http.StatusInternalServerError)
		return
	}
	state := hex.EncodeToString(stateBytes)

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
	})

	http.Redirect(w, r, config.AuthCodeURL(state), http.StatusFound)
}

// checkState validates the callback against the state cookie.
func checkState(r *http.Request) bool {
	cookie, err := r.Cookie(oauthStateCookieName)
	if err != nil {
		return false
	}
	state := r.URL.Query().Get("state")
	return state != "" && state == cookie.Value
}

func (c *OAuthController) GoogleBegin(w http.ResponseWriter, r *http.Request) {
	c.redirectToProvider(w, r, c.googleConfig)
}

func (c *OAuthController) GithubBegin(w http.ResponseWriter, r *http.Request) {
	c.redirectToProvider(w, r, c.githubConfig)
}

func (c *OAuthController) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	user, err := c.resolveGoogleUser(r)
	if err != nil {
		log.WithError(err).Warn("google sign-in failed")
		c.redirectToFrontend(w, r, "/login")
		return
	}

	if err = c.auth.startSession(w, user.ID); err != nil {
		log.WithError(err).Error("cannot start session after google sign-in")
		c.redirectToFrontend(w, r, "/login")
		return
	}

	c.redirectToFrontend(w, r, "/home")
}

func (c *OAuthController) GithubCallback(w http.ResponseWriter, r *http.Request) {
	user, err := c.resolveGithubUser(r)
	if err != nil {
		log.WithError(err).Warn("github sign-in failed")
		c.redirectToFrontend(w, r, "/login")
		return
	}

	if err = c.auth.startSession(w, user.ID); err != nil {
		log.WithError(err).Error("cannot start session after github sign-in")
		c.redirectToFrontend(w, r, "/login")
		return
	}

	c.redirectToFrontend(w, r, "/home")
}

// resolveGoogleUser exchanges the callback code, verifies the id
// token and finds or creates the matching local user.
func (c *OAuthController) resolveGoogleUser(r *http.Request) (db.User, error) {
	if c.googleConfig == nil || !checkState(r) {
		return db.User{}, db.ErrInvalidOperation
	}

	ctx := r.Context()

	token, err := c.googleConfig.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		return db.User{}, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return db.User{}, db.ErrInvalidOperation
	}

	idToken, err := c.googleVerifier.Verify(ctx, rawIDToken)
	if err != nil {
		return db.User{}, err
	}

	var claims struct {
		Sub        string `json:"sub"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Email      string `json:"email"`
		Picture    string `json:"picture"`
	}
	if err = idToken.Claims(&claims); err != nil {
		return db.User{}, err
	}

	if user, err := c.store.GetUserByExternalID("google", claims.Sub); err == nil {
		return user, nil
	} else if err != db.ErrNotFound {
		return db.User{}, err
	}

	return c.store.CreateUser(db.User{
		GoogleID:  &claims.Sub,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
		Email:     claims.Email,
		Avatar:    claims.Picture,
	})
}

// resolveGithubUser exchanges the callback code and fetches the
// profile from the GitHub API.
func (c *OAuthController) resolveGithubUser(r *http.Request) (db.User, error) {
	if c.githubConfig == nil || !checkState(r) {
		return db.User{}, db.ErrInvalidOperation
	}

	ctx := r.Context()

	token, err := c.githubConfig.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		return db.User{}, err
	}

	client := github.NewClient(oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)))

	profile, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return db.User{}, err
	}

	externalID := profile.GetID()
	githubID := itoa(externalID)

	if user, err := c.store.GetUserByExternalID("github", githubID); err == nil {
		return user, nil
	} else if err != db.ErrNotFound {
		return db.User{}, err
	}

	email := profile.GetEmail()
	if email == "" {
		emails, _, eErr := client.Users.ListEmails(ctx, nil)
		if eErr == nil {
			for _, e := range emails {
				if e.GetPrimary() {
					email = e.GetEmail()
					break
				}
			}
		}
	}
	if email == "" {
		// profile email can be hidden
		email = profile.GetLogin() + "@users.noreply.github.com"
	}

	return c.store.CreateUser(db.User{
		GithubID: &githubID,
		Username: profile.GetLogin(),
		Email:    email,
		Avatar:   profile.GetAvatarURL(),
	})
}

func (c *OAuthController) redirectToFrontend(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, util.Config.FrontendURL+path, http.StatusFound)
}

func providerNotConfigured(w http.ResponseWriter) {
	http.Error(w, "provider not configured", http.StatusNotImplemented)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
