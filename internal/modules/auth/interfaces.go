package auth

import (
	"context"

	"waterpermits/internal/domain"
)

// UserStore is what identity sync and session resolution need from the
// users table.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID int64) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SyncProfile(ctx context.Context, id int64, u *domain.User) error
}

type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}
