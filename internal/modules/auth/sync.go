package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"waterpermits/internal/coredb"
	"waterpermits/internal/domain"

	"gorm.io/gorm"
)

const (
	externalEmailDomain = "external.local"
	defaultPosition     = "N/A"
)

// ExternalProfile is a core identity after normalization: email is never
// blank, position is never empty. This is the only shape IdentitySync
// accepts, so un-normalized core data cannot reach the users table.
type ExternalProfile struct {
	ExternalUserID int64
	Username       string
	FirstName      *string
	LastName       *string
	Position       string
	DivisionID     *int64
	Email          string
}

// NormalizeIdentity fills the defaults the core system leaves blank:
// a synthetic @external.local address when the email is missing, "N/A" for
// position, nil division. The email is lowercased here so the profile
// always carries the exact casing the users table stores.
func NormalizeIdentity(ident *coredb.Identity) ExternalProfile {
	p := ExternalProfile{
		ExternalUserID: ident.ExternalUserID,
		Username:       ident.Username,
		Position:       defaultPosition,
		DivisionID:     ident.DivisionID,
		Email:          strings.ToLower(strings.TrimSpace(ident.Email)),
	}
	if p.Email == "" {
		p.Email = strings.ToLower(ident.Username) + "@" + externalEmailDomain
	}
	if ident.Position != nil && strings.TrimSpace(*ident.Position) != "" {
		p.Position = *ident.Position
	}
	if ident.FirstName != "" {
		v := ident.FirstName
		p.FirstName = &v
	}
	if ident.LastName != "" {
		v := ident.LastName
		p.LastName = &v
	}
	return p
}

// IdentitySync maintains the local shadow users mirroring core identities.
type IdentitySync struct {
	users UserStore
}

func NewIdentitySync(users UserStore) *IdentitySync {
	return &IdentitySync{users: users}
}

// ResolveOrCreate finds the shadow user for an external id, creating it on
// first adoption and resyncing the core-owned profile fields otherwise.
// Core is authoritative for those fields; password, role and external id are
// never rewritten. Users are never deleted here.
//
// Two requests adopting the same brand-new identity can race on the insert;
// the unique index on external_user_id decides the winner and the loser
// falls back to the lookup-then-sync path.
func (s *IdentitySync) ResolveOrCreate(ctx context.Context, p ExternalProfile) (*domain.User, error) {
	existing, err := s.users.GetByExternalID(ctx, p.ExternalUserID)
	if err == nil {
		return s.syncProfile(ctx, existing, p)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := p.Email
	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		email = disambiguateEmail(email, p.Username, p.ExternalUserID)
	}

	externalID := p.ExternalUserID
	position := p.Position
	user := &domain.User{
		Name:           p.Username,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          email,
		Role:           domain.RoleUser,
		Position:       &position,
		DivisionID:     p.DivisionID,
		ExternalUserID: &externalID,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the first-adoption race; the winner's row is there now
			winner, lookupErr := s.users.GetByExternalID(ctx, p.ExternalUserID)
			if lookupErr != nil {
				return nil, err
			}
			return s.syncProfile(ctx, winner, p)
		}
		return nil, err
	}

	return user, nil
}

func (s *IdentitySync) syncProfile(ctx context.Context, user *domain.User, p ExternalProfile) (*domain.User, error) {
	position := p.Position
	user.Name = p.Username
	user.FirstName = p.FirstName
	user.LastName = p.LastName
	user.Position = &position
	user.DivisionID = p.DivisionID
	user.Email = p.Email

	err := s.users.SyncProfile(ctx, user.ID, user)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// the incoming email now belongs to some other local user;
		// keep this account usable under a disambiguated address
		user.Email = disambiguateEmail(p.Email, p.Username, p.ExternalUserID)
		err = s.users.SyncProfile(ctx, user.ID, user)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// disambiguateEmail appends _{username}_{externalID} to the local part so a
// second identity sharing an address never collides with the first.
func disambiguateEmail(email, username string, externalID int64) string {
	local, domainPart, found := strings.Cut(email, "@")
	if !found {
		return fmt.Sprintf("%s_%s_%d@%s", email, username, externalID, externalEmailDomain)
	}
	return fmt.Sprintf("%s_%s_%d@%s", local, username, externalID, domainPart)
}
