// File: internal/usecase/club_user_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/identity"
	"padelpass-backend/internal/domain/ports/repository"
)

// CreateClubUserRequest associates a staff account with a club. Either
// UserID references an existing account or Register describes a new one;
// account creation and association happen in one transaction so a failed
// association never leaves an orphaned account behind.
type CreateClubUserRequest struct {
	ClubID   string
	UserID   string
	Register *RegisterRequest
}

// ClubUserUseCase manages staff-club associations and the club-scoped
// staff directory.
type ClubUserUseCase struct {
	clubUsers repository.ClubUserRepository
	clubs     repository.ClubRepository
	ident     identity.Provider
	access    *AccessPolicy
	tm        repository.TransactionManager
	log       *zerolog.Logger
}

func NewClubUserUseCase(
	clubUsers repository.ClubUserRepository,
	clubs repository.ClubRepository,
	ident identity.Provider,
	access *AccessPolicy,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *ClubUserUseCase {
	return &ClubUserUseCase{
		clubUsers: clubUsers,
		clubs:     clubs,
		ident:     ident,
		access:    access,
		tm:        tm,
		log:       logger,
	}
}

func (uc *ClubUserUseCase) Create(ctx context.Context, caller model.CallerContext, req CreateClubUserRequest) (*model.ClubUser, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	if _, err := uc.clubs.FindByID(ctx, repository.NoTX, req.ClubID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrClubNotFound
		}
		return nil, err
	}

	var assoc *model.ClubUser
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		userID := req.UserID
		if userID == "" {
			if req.Register == nil {
				return domain.ErrInvalidArgument
			}
			created, err := uc.registerStaff(ctx, tx, *req.Register)
			if err != nil {
				return err
			}
			userID = created.ID
		} else {
			user, err := uc.ident.FindByID(ctx, userID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.ErrUserNotFound
				}
				return err
			}
			if !user.HasRole(model.RoleClubUser) {
				if err := uc.ident.AssignRole(ctx, tx, user.ID, model.RoleClubUser); err != nil {
					return err
				}
			}
		}

		existing, err := uc.clubUsers.FindByUserAndClub(ctx, tx, userID, req.ClubID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing != nil {
			if existing.IsActive {
				return domain.ErrAlreadyExists
			}
			existing.IsActive = true
			now := time.Now().UTC()
			existing.UpdatedAt = &now
			assoc = existing
			return uc.clubUsers.Update(ctx, tx, existing)
		}

		assoc, err = model.NewClubUser(uuid.NewString(), userID, req.ClubID)
		if err != nil {
			return err
		}
		return uc.clubUsers.Save(ctx, tx, assoc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", assoc.UserID).Str("club_id", assoc.ClubID).Msg("club user associated")
	return assoc, nil
}

// SetActive toggles the association without deleting the account.
func (uc *ClubUserUseCase) SetActive(ctx context.Context, caller model.CallerContext, id string, active bool) (*model.ClubUser, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	assoc, err := uc.getAssoc(ctx, id)
	if err != nil {
		return nil, err
	}
	assoc.IsActive = active
	now := time.Now().UTC()
	assoc.UpdatedAt = &now
	if err := uc.clubUsers.Update(ctx, repository.NoTX, assoc); err != nil {
		return nil, err
	}
	return assoc, nil
}

// Delete removes the association record. The account itself survives.
func (uc *ClubUserUseCase) Delete(ctx context.Context, caller model.CallerContext, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrUnauthorized
	}
	if _, err := uc.getAssoc(ctx, id); err != nil {
		return err
	}
	return uc.clubUsers.Delete(ctx, repository.NoTX, id)
}

func (uc *ClubUserUseCase) GetByID(ctx context.Context, caller model.CallerContext, id string) (*model.ClubUser, error) {
	assoc, err := uc.getAssoc(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.access.EnsureClubAccess(ctx, caller, assoc.ClubID); err != nil {
		return nil, err
	}
	return assoc, nil
}

// List pages associations. A ClubUser caller is confined to their club
// scope: an explicit out-of-scope club fails, no filter just narrows the
// result set (possibly to nothing).
func (uc *ClubUserUseCase) List(ctx context.Context, caller model.CallerContext, clubID string, page repository.Page, dir repository.SortDirection) ([]*model.ClubUser, int, error) {
	if clubID != "" {
		if err := uc.access.EnsureClubAccess(ctx, caller, clubID); err != nil {
			return nil, 0, err
		}
	}
	scope, unrestricted, err := uc.access.ClubScope(ctx, caller)
	if err != nil {
		return nil, 0, err
	}
	if unrestricted {
		scope = nil
	}
	return uc.clubUsers.List(ctx, repository.NoTX, clubID, scope, page.Normalize(), dir)
}

func (uc *ClubUserUseCase) getAssoc(ctx context.Context, id string) (*model.ClubUser, error) {
	assoc, err := uc.clubUsers.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrClubUserNotFound
		}
		return nil, err
	}
	return assoc, nil
}

func (uc *ClubUserUseCase) registerStaff(ctx context.Context, tx repository.Tx, req RegisterRequest) (*model.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, domain.ErrPasswordConfirmation
	}
	if _, err := uc.ident.FindByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := uc.ident.FindByPhone(ctx, req.PhoneNumber); err == nil {
		return nil, domain.ErrPhoneTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user, err := model.NewUser(uuid.NewString(), req.Email, req.PhoneNumber, req.FullName)
	if err != nil {
		return nil, err
	}
	if err := uc.ident.Create(ctx, tx, user, req.Password); err != nil {
		return nil, err
	}
	if err := uc.ident.AssignRole(ctx, tx, user.ID, model.RoleClubUser); err != nil {
		return nil, err
	}
	return user, nil
}
