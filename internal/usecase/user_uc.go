// File: internal/usecase/user_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/identity"
	"padelpass-backend/internal/domain/ports/repository"
)

// Subscription status labels as presented in search results.
const (
	SubStatusNone    = "none"
	SubStatusActive  = "active"
	SubStatusPaused  = "paused"
	SubStatusExpired = "expired"
	SubStatusStopped = "stopped"
)

// UserSearchResult pairs an account with a summary of its current
// subscription, so front-desk staff can see eligibility at a glance.
type UserSearchResult struct {
	User               *model.User
	SubscriptionStatus string
	SubscriptionEnd    *time.Time
}

type UpdateProfileRequest struct {
	Email       string
	PhoneNumber string
	FullName    string
}

// UserUseCase covers the account directory: staff search over end
// customers, profile reads and updates, and admin-only deletion.
type UserUseCase struct {
	ident identity.Provider
	subs  repository.SubscriptionRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewUserUseCase(
	ident identity.Provider,
	subs repository.SubscriptionRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *UserUseCase {
	return &UserUseCase{ident: ident, subs: subs, tm: tm, log: logger}
}

// Search pages end-customer accounts matching the query against name,
// email and phone, each annotated with subscription status. Staff and
// admins only.
func (uc *UserUseCase) Search(ctx context.Context, caller model.CallerContext, query string, page repository.Page) ([]*UserSearchResult, int, error) {
	if !caller.IsAdmin() && !caller.HasRole(model.RoleClubUser) {
		return nil, 0, domain.ErrUnauthorized
	}
	users, total, err := uc.ident.Search(ctx, query, model.RoleUser, page.Normalize())
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	results := make([]*UserSearchResult, 0, len(users))
	for _, u := range users {
		res := &UserSearchResult{User: u, SubscriptionStatus: SubStatusNone}
		sub, err := uc.subs.FindActiveByUser(ctx, repository.NoTX, u.ID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, 0, err
			}
		} else {
			res.SubscriptionStatus = subscriptionStatus(sub, now)
			end := sub.EndDate
			res.SubscriptionEnd = &end
		}
		results = append(results, res)
	}
	return results, total, nil
}

// GetByID returns an account profile. Admins may read anyone; everyone
// else only themselves.
func (uc *UserUseCase) GetByID(ctx context.Context, caller model.CallerContext, id string) (*model.User, error) {
	if err := ensureOwnerOrAdmin(caller, id); err != nil {
		return nil, err
	}
	return uc.getUser(ctx, id)
}

// UpdateProfile rewrites the mutable profile fields. Uniqueness of the
// new email and phone is checked against other accounts.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, caller model.CallerContext, id string, req UpdateProfileRequest) (*model.User, error) {
	if err := ensureOwnerOrAdmin(caller, id); err != nil {
		return nil, err
	}
	user, err := uc.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if other, err := uc.ident.FindByEmail(ctx, req.Email); err == nil && other.ID != id {
		return nil, domain.ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if other, err := uc.ident.FindByPhone(ctx, req.PhoneNumber); err == nil && other.ID != id {
		return nil, domain.ErrPhoneTaken
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	updated, err := model.NewUser(user.ID, req.Email, req.PhoneNumber, req.FullName)
	if err != nil {
		return nil, err
	}
	updated.PasswordHash = user.PasswordHash
	updated.Roles = user.Roles
	updated.CurrentSubscriptionID = user.CurrentSubscriptionID
	updated.CreatedAt = user.CreatedAt
	now := time.Now().UTC()
	updated.UpdatedAt = &now
	if err := uc.ident.Update(ctx, repository.NoTX, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete hard-deletes an account. Admin-only. The current-subscription
// reference is cleared inside the same transaction so the row never
// dangles if the delete cascade fires first.
func (uc *UserUseCase) Delete(ctx context.Context, caller model.CallerContext, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrUnauthorized
	}
	user, err := uc.getUser(ctx, id)
	if err != nil {
		return err
	}
	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if user.CurrentSubscriptionID != nil {
			user.CurrentSubscriptionID = nil
			if err := uc.ident.Update(ctx, tx, user); err != nil {
				return err
			}
		}
		return uc.ident.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (uc *UserUseCase) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := uc.ident.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// subscriptionStatus classifies the newest active-flagged subscription
// for display. Expiry is derived from EndDate, never stored.
func subscriptionStatus(sub *model.Subscription, now time.Time) string {
	switch {
	case !sub.IsActive:
		return SubStatusStopped
	case sub.IsPaused:
		return SubStatusPaused
	case !sub.EndDate.After(now):
		return SubStatusExpired
	default:
		return SubStatusActive
	}
}
