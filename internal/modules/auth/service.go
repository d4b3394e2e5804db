package auth

import (
	"context"
	"errors"
	"time"

	"waterpermits/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService owns the local login session lifecycle. A login is a
// sessions row plus a signed cookie naming it; issuing always mints a fresh
// id (so adoption after an external hand-off can never reuse a fixated
// session) and revoking deletes the row server-side.
type SessionService struct {
	sessions SessionStore
	users    UserStore
	codec    *TokenCodec
	ttl      time.Duration
}

func NewSessionService(
	sessions SessionStore,
	users UserStore,
	codec *TokenCodec,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		codec:    codec,
		ttl:      ttl,
	}
}

// Issue creates a session for the user and returns it with the cookie value.
// The CSRF token is minted per session, so a new session always rotates it.
func (s *SessionService) Issue(ctx context.Context, userID int64) (*domain.Session, string, error) {
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CSRFToken: uuid.New().String(),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, "", err
	}

	token, err := s.codec.Encode(sess.ID)
	if err != nil {
		return nil, "", err
	}
	return sess, token, nil
}

// Resolve turns a cookie value into the live session and its user.
// Expired rows are swept on sight.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	sid, err := s.codec.Decode(token)
	if err != nil {
		return nil, nil, ErrInvalidSession
	}

	sess, err := s.sessions.GetByID(ctx, sid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidSession
	}
	if err != nil {
		return nil, nil, err
	}

	if sess.Expired(time.Now().UTC()) {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, nil, ErrInvalidSession
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidSession
	}
	if err != nil {
		return nil, nil, err
	}

	return sess, user, nil
}

func (s *SessionService) Revoke(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// RevokeUser deletes every session the user holds, across all browsers.
func (s *SessionService) RevokeUser(ctx context.Context, userID int64) error {
	return s.sessions.DeleteByUser(ctx, userID)
}

func (s *SessionService) RevokeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}
