// Package coredb reads the agency core system's session and user tables.
// It is the only place that touches the core database, and it only reads.
package coredb

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrSessionNotFound means the session id does not exist, is expired, or
// belongs to a guest login.
var ErrSessionNotFound = errors.New("core session not found")

// Identity is the profile of a core user as joined from core_session and
// core_users. Position and DivisionID are raw (possibly absent) values;
// normalization is the caller's concern.
type Identity struct {
	ExternalUserID int64
	Username       string
	Email          string
	FirstName      string
	MiddleName     string
	LastName       string
	Position       *string
	DivisionID     *int64
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

type identityRow struct {
	ExternalUserID int64   `gorm:"column:external_user_id"`
	Username       string  `gorm:"column:username"`
	Email          *string `gorm:"column:email"`
	FirstName      *string `gorm:"column:first_name"`
	MiddleName     *string `gorm:"column:middle_name"`
	LastName       *string `gorm:"column:last_name"`
	Position       *string `gorm:"column:position"`
	DivisionID     *int64  `gorm:"column:division_id"`
}

// LookupSession resolves a non-guest core session to the owning user's
// profile. Returns ErrSessionNotFound on a miss; any other error means the
// core database itself failed and the caller must treat auth as unavailable.
func (s *Store) LookupSession(ctx context.Context, sessionID string) (*Identity, error) {
	var row identityRow
	err := s.db.WithContext(ctx).
		Table("core_session AS s").
		Select(`u.id AS external_user_id,
			u.username,
			u.email,
			u.first_name,
			u.middle_name,
			u.last_name,
			u.current_position AS position,
			u.division AS division_id`).
		Joins("JOIN core_users AS u ON s.userid = u.id").
		Where("s.session_id = ? AND s.guest = ?", sessionID, 0).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	ident := &Identity{
		ExternalUserID: row.ExternalUserID,
		Username:       row.Username,
		Position:       row.Position,
		DivisionID:     row.DivisionID,
	}
	if row.Email != nil {
		ident.Email = *row.Email
	}
	if row.FirstName != nil {
		ident.FirstName = *row.FirstName
	}
	if row.MiddleName != nil {
		ident.MiddleName = *row.MiddleName
	}
	if row.LastName != nil {
		ident.LastName = *row.LastName
	}
	return ident, nil
}
