package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobby0007/internal-CRM/internal/models"
	dashboard "github.com/bobby0007/internal-CRM/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoSession is returned when a token resolves to no live session.
var ErrNoSession = errors.New("no active session")

// Store keeps operator sessions server-side. Tokens are opaque uuids; a
// session is valid until its expiry, expired rows are deleted on touch.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

// Login mints a session for the given operator email.
func (s *Store) Login(email string) (*models.Session, error) {
	sess := &models.Session{
		Token:     uuid.NewString(),
		Email:     email,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Create(sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Get resolves a token to its session, deleting it when expired.
func (s *Store) Get(token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	var sess models.Session
	if err := s.db.First(&sess, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if time.Now().After(sess.ExpiresAt) {
		s.db.Delete(&models.Session{}, "token = ?", token)
		return nil, ErrNoSession
	}
	return &sess, nil
}

// IsAuthenticated reports whether the token belongs to a live session.
func (s *Store) IsAuthenticated(token string) bool {
	_, err := s.Get(token)
	return err == nil
}

// Logout removes the session. Unknown tokens are not an error.
func (s *Store) Logout(token string) error {
	return s.db.Delete(&models.Session{}, "token = ?", token).Error
}

// VerifyCallback checks the identity-widget result and returns the operator
// email when login is acceptable: status SUCCESS and the first identity
// ending with the allowed domain suffix.
func VerifyCallback(user dashboard.OtplessUser, allowedDomain string) (string, error) {
	if user.Status != "SUCCESS" {
		return "", errors.New("authentication failed")
	}
	if len(user.Identities) == 0 {
		return "", errors.New("no verified identity returned")
	}
	email := user.Identities[0].IdentityValue
	if !strings.HasSuffix(email, allowedDomain) {
		return "", fmt.Errorf("only %s email addresses are allowed to login", allowedDomain)
	}
	return email, nil
}
