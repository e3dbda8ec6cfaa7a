package db

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("no rows in result set")
var ErrInvalidOperation = errors.New("invalid operation")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RetrieveQueryParams control the ordering of list queries.
type RetrieveQueryParams struct {
	SortBy       string
	SortInverted bool
	Count        int
}

// Store is the database interface. Every durable entity of the
// application lives behind it: bolt keeps documents as JSON values,
// sql maps them to tables. Status transitions of invites go through
// UpdateInviteStatus, which matches on the current status so that
// concurrent writers are serialized by the backend's per-record
// atomicity.
type Store interface {
	Connect() error
	Close() error
	IsInitialized() (bool, error)
	Migrate() error

	GetUser(userID int) (User, error)
	GetUserByEmail(email string) (User, error)
	GetUserByExternalID(provider string, externalID string) (User, error)
	GetUsers(params RetrieveQueryParams) ([]User, error)
	GetUsersByIDs(userIDs []int) ([]User, error)
	SearchUsers(searchTerm string) ([]User, error)
	CreateUser(user User) (User, error)
	UpdateUser(user User) error
	DeleteUser(userID int) error

	GetPage(pageID int) (Page, error)
	GetPageByName(ownerID int, name string) (Page, error)
	GetPages(ownerID int) ([]Page, error)
	GetPagesByType(ownerID int, pageType PageType) ([]Page, error)
	CreatePage(page Page) (Page, error)
	UpdatePageContent(pageID int, content PageContent) (Page, error)
	DeletePage(pageID int) error

	GetInvite(inviteID int) (Invite, error)
	GetPendingInvite(senderID int, receiverID int, pageID *int) (Invite, error)
	GetReceivedInvites(receiverID int, status InviteStatus) ([]Invite, error)
	GetSentInvites(senderID int, status InviteStatus) ([]Invite, error)
	CreateInvite(invite Invite) (Invite, error)
	// UpdateInviteStatus transitions the invite identified by inviteID
	// from "pending" to the given status. Returns ErrNotFound when the
	// invite does not exist or is no longer pending.
	UpdateInviteStatus(inviteID int, status InviteStatus) (Invite, error)

	GetSession(sessionID string) (Session, error)
	CreateSession(session Session) (Session, error)
	TouchSession(sessionID string, now time.Time) error
	ExpireSession(sessionID string) error
	ExpireSessionsOlderThan(cutoff time.Time) (int, error)
	DeleteSessionsByUser(userID int) error

	GetSettings(userID int) (Settings, error)
	SetDarkMode(userID int, darkMode bool) (Settings, error)
	DeleteSettings(userID int) error
}
