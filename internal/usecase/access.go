// File: internal/usecase/access.go
package usecase

import (
	"context"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
)

// AccessPolicy answers club-scoping questions for staff callers.
// Admin-equivalent callers (SuperAdmin or Admin) see everything; a
// ClubUser sees only clubs where they hold an active association; end
// customers have no club scope at all.
type AccessPolicy struct {
	clubUsers repository.ClubUserRepository
}

func NewAccessPolicy(clubUsers repository.ClubUserRepository) *AccessPolicy {
	return &AccessPolicy{clubUsers: clubUsers}
}

// ClubScope returns (nil, true) for unrestricted callers, otherwise the
// caller's active club id set. The set may be empty: list endpoints then
// return empty results rather than an error.
func (p *AccessPolicy) ClubScope(ctx context.Context, caller model.CallerContext) ([]string, bool, error) {
	if caller.IsAdmin() {
		return nil, true, nil
	}
	ids, err := p.clubUsers.ActiveClubIDs(ctx, repository.NoTX, caller.UserID)
	if err != nil {
		return nil, false, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, false, nil
}

// EnsureClubAccess fails with ErrNoAccessToClub when a restricted caller
// explicitly requests a club outside their scope.
func (p *AccessPolicy) EnsureClubAccess(ctx context.Context, caller model.CallerContext, clubID string) error {
	scope, unrestricted, err := p.ClubScope(ctx, caller)
	if err != nil {
		return err
	}
	if unrestricted {
		return nil
	}
	for _, id := range scope {
		if id == clubID {
			return nil
		}
	}
	return domain.ErrNoAccessToClub
}

// ensureOwnerOrAdmin guards the per-subscription mutations: admins may
// act on any record, an end user only on their own.
func ensureOwnerOrAdmin(caller model.CallerContext, ownerID string) error {
	if !caller.CanActOn(ownerID) {
		return domain.ErrUnauthorized
	}
	return nil
}
