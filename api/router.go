package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/pagedeck/pagedeck/api/pages"
	"github.com/pagedeck/pagedeck/api/sockets"
	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/services/invites"
	"github.com/pagedeck/pagedeck/services/notify"
	"github.com/pagedeck/pagedeck/services/sessions"
	"github.com/pagedeck/pagedeck/util"
)

// Route builds the application router: public auth endpoints, the
// websocket endpoint, and the session-protected API.
func Route(store db.Store, sessionService *sessions.Service, inviteService *invites.Service, registry notify.ChannelRegistry) http.Handler {
	auth := NewAuthController(store, sessionService)
	oauth := NewOAuthController(auth, store)
	users := NewUsersController(store, sessionService)
	pagesController := pages.NewController(store)
	invitesController := NewInvitesController(inviteService)
	ws := sockets.NewHandler(auth, registry)

	r := mux.NewRouter()

	r.HandleFunc("/signup", auth.SignUp).Methods("POST")
	r.HandleFunc("/login", auth.Login).Methods("POST")
	r.HandleFunc("/auth/google", oauth.GoogleBegin).Methods("GET")
	r.HandleFunc("/auth/google/callback", oauth.GoogleCallback).Methods("GET")
	r.HandleFunc("/auth/github", oauth.GithubBegin).Methods("GET")
	r.HandleFunc("/auth/github/callback", oauth.GithubCallback).Methods("GET")

	// the socket authenticates itself from the cookie; an anonymous
	// connection is accepted but never receives events
	r.Handle("/ws", ws)

	protected := r.NewRoute().Subrouter()
	protected.Use(auth.Middleware)

	protected.HandleFunc("/api/user", auth.CurrentUser).Methods("GET")
	protected.HandleFunc("/logout", auth.Logout).Methods("POST")

	protected.HandleFunc("/createPage", pagesController.CreatePage).Methods("POST")
	protected.HandleFunc("/getPages", pagesController.GetPages).Methods("GET")
	protected.HandleFunc("/getSpecificPage/{page_id}", pagesController.GetSpecificPage).Methods("GET")
	protected.HandleFunc("/deletePage/{page_id}", pagesController.DeletePage).Methods("DELETE")
	protected.HandleFunc("/updatePage/{page_id}", pagesController.UpdatePage).Methods("PATCH")
	protected.HandleFunc("/deleteItem/{page_id}/{item_id}", pagesController.DeleteItem).Methods("DELETE")
	protected.HandleFunc("/updateItem/{page_id}/{item_id}", pagesController.UpdateItem).Methods("PATCH")
	protected.HandleFunc("/deleteKanbanCard/{page_id}/{column_id}/{card_id}", pagesController.DeleteKanbanCard).Methods("DELETE")
	protected.HandleFunc("/updateColumnSettings/{page_id}/{column_id}", pagesController.UpdateColumnSettings).Methods("PATCH")
	protected.HandleFunc("/addCard/{page_id}/{column_id}", pagesController.AddCard).Methods("POST")
	protected.HandleFunc("/updateColumns/{page_id}", pagesController.UpdateColumns).Methods("PATCH")
	protected.HandleFunc("/updateNotesOrders/{page_id}", pagesController.UpdateNotesOrders).Methods("PATCH")
	protected.HandleFunc("/updateColumnsOrders/{page_id}", pagesController.UpdateColumnsOrders).Methods("PATCH")
	protected.HandleFunc("/getLastTodos", pagesController.GetLastTodos).Methods("GET")
	protected.HandleFunc("/getAllTodos", pagesController.GetAllTodos).Methods("GET")
	protected.HandleFunc("/getAllEvents", pagesController.GetAllEvents).Methods("GET")
	protected.HandleFunc("/getAllColumns", pagesController.GetAllColumns).Methods("GET")
	protected.HandleFunc("/getAllNotes", pagesController.GetAllNotes).Methods("GET")

	protected.HandleFunc("/getAllUsers", users.GetAllUsers).Methods("GET")
	protected.HandleFunc("/getSpecificUser", users.GetSpecificUser).Methods("GET")
	protected.HandleFunc("/updateUserInfo", users.UpdateUserInfo).Methods("PATCH")
	protected.HandleFunc("/deleteAccount", users.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/settings", users.GetSettings).Methods("GET")
	protected.HandleFunc("/settings/darkMode", users.DarkMode).Methods("PATCH")

	protected.HandleFunc("/invite/sendInvites", invitesController.SendInvites).Methods("POST")
	protected.HandleFunc("/invite/getReceivedInvites", invitesController.GetReceivedInvites).Methods("GET")
	protected.HandleFunc("/invite/getSentInvites", invitesController.GetSentInvites).Methods("GET")
	protected.HandleFunc("/invite/respondToInvite/{invite_id}", invitesController.RespondToInvite).Methods("PATCH")
	protected.HandleFunc("/invite/cancelInvite/{invite_id}", invitesController.CancelInvite).Methods("PATCH")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{util.Config.FrontendURL}),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)

	return handlers.LoggingHandler(log.StandardLogger().Writer(), cors(r))
}
