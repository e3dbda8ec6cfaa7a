package sessions

import (
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/pagedeck/pagedeck/db"
)

// Service manages login sessions: creation on login, verification on
// every request, expiry on logout and periodic cleanup of stale
// records.
type Service struct {
	store    db.Store
	lifetime time.Duration

	cleanup *cron.Cron
}

func NewService(store db.Store, lifetimeDays int) *Service {
	return &Service{
		store:    store,
		lifetime: time.Duration(lifetimeDays) * 24 * time.Hour,
	}
}

// Create opens a new session for the user.
func (s *Service) Create(userID int) (db.Session, error) {
	now := time.Now()
	return s.store.CreateSession(db.Session{
		ID:       uuid.NewString(),
		UserID:   userID,
		Created:  now,
		LastUsed: now,
	})
}

// Verify resolves a session id to its user. An unknown or expired
// session yields db.ErrNotFound; a live one has its sliding expiry
// window refreshed.
func (s *Service) Verify(sessionID string) (db.Session, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return db.Session{}, err
	}

	now := time.Now()
	if session.IsExpired(s.lifetime, now) {
		return db.Session{}, db.ErrNotFound
	}

	if err = s.store.TouchSession(session.ID, now); err != nil {
		return db.Session{}, err
	}
	session.LastUsed = now

	return session, nil
}

// Expire invalidates one session (logout).
func (s *Service) Expire(sessionID string) error {
	return s.store.ExpireSession(sessionID)
}

// ExpireAllForUser invalidates every session of a user, used when the
// account is deleted.
func (s *Service) ExpireAllForUser(userID int) error {
	return s.store.DeleteSessionsByUser(userID)
}

// StartCleanup purges stale sessions once an hour until StopCleanup.
func (s *Service) StartCleanup() {
	s.cleanup = cron.New()
	_, err := s.cleanup.AddFunc("@hourly", func() {
		n, err := s.store.ExpireSessionsOlderThan(time.Now().Add(-s.lifetime))
		if err != nil {
			log.WithError(err).Error("session cleanup failed")
			return
		}
		if n > 0 {
			log.WithField("count", n).Info("purged stale sessions")
		}
	})
	if err != nil {
		log.WithError(err).Error("cannot schedule session cleanup")
		return
	}
	s.cleanup.Start()
}

func (s *Service) StopCleanup() {
	if s.cleanup != nil {
		s.cleanup.Stop()
	}
}
