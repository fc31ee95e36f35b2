// File: internal/usecase/subscription_uc.go
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
	"padelpass-backend/internal/infra/metrics"
)

// SubscriptionUseCase owns the subscription lifecycle: create, extend,
// pause, resume, cancel and the admin hard delete.
type SubscriptionUseCase struct {
	subs  repository.SubscriptionRepository
	plans repository.SubscriptionPlanRepository
	ident identity.Provider
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewSubscriptionUseCase(
	subs repository.SubscriptionRepository,
	plans repository.SubscriptionPlanRepository,
	ident identity.Provider,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *SubscriptionUseCase {
	return &SubscriptionUseCase{subs: subs, plans: plans, ident: ident, tm: tm, log: logger}
}

// Create starts a subscription for the calling end customer. The
// duplicate check tests IsActive only: an expired-but-never-cancelled
// subscription still blocks creation until it is cancelled. The check and
// the insert run under a per-user advisory lock so two concurrent calls
// cannot both pass it.
func (uc *SubscriptionUseCase) Create(ctx context.Context, caller model.CallerContext, planID string) (*model.Subscription, error) {
	user, err := uc.ident.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	isCustomer, err := uc.ident.IsInRole(ctx, user.ID, model.RoleUser)
	if err != nil {
		return nil, err
	}
	if !isCustomer {
		return nil, domain.ErrInvalidUserType
	}

	plan, err := uc.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}

	var sub *model.Subscription
	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.tm.LockKey(ctx, tx, "sub:"+user.ID); err != nil {
			return err
		}
		existing, err := uc.subs.FindActiveByUser(ctx, tx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateActiveSubscription
		}

		now := time.Now().UTC()
		sub, err = model.NewSubscription(uuid.NewString(), user.ID, plan, now)
		if err != nil {
			return err
		}
		if err := uc.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		user.CurrentSubscriptionID = &sub.ID
		return uc.ident.Update(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncSubscriptionOp("create")
	uc.log.Info().Str("user_id", user.ID).Str("plan_id", plan.ID).
		Time("end_date", sub.EndDate).Msg("subscription created")
	return sub, nil
}

// GetByID returns a subscription; non-admin callers see only their own.
func (uc *SubscriptionUseCase) GetByID(ctx context.Context, caller model.CallerContext, id string) (*model.Subscription, error) {
	sub, err := uc.loadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwnerOrAdmin(caller, sub.UserID); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetCurrent returns the caller's newest IsActive subscription.
func (uc *SubscriptionUseCase) GetCurrent(ctx context.Context, caller model.CallerContext) (*model.Subscription, error) {
	sub, err := uc.subs.FindActiveByUser(ctx, repository.NoTX, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveSubscription
		}
		return nil, err
	}
	return sub, nil
}

// List pages subscriptions: admins across all users, everyone else just
// their own.
func (uc *SubscriptionUseCase) List(ctx context.Context, caller model.CallerContext, page repository.Page, sort repository.SubscriptionSort, dir repository.SortDirection) ([]*model.Subscription, int, error) {
	userID := caller.UserID
	if caller.IsAdmin() {
		userID = ""
	}
	return uc.subs.List(ctx, repository.NoTX, userID, page.Normalize(), sort, dir)
}

// Extend adds whole months. On a paused subscription the extension lands
// in RemainingDays, not EndDate.
func (uc *SubscriptionUseCase) Extend(ctx context.Context, caller model.CallerContext, id string, additionalMonths int) (*model.Subscription, error) {
	sub, err := uc.loadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwnerOrAdmin(caller, sub.UserID); err != nil {
		return nil, err
	}
	if err := sub.Extend(additionalMonths, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	metrics.IncSubscriptionOp("extend")
	return sub, nil
}

func (uc *SubscriptionUseCase) Pause(ctx context.Context, caller model.CallerContext, id string) (*model.Subscription, error) {
	sub, err := uc.loadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwnerOrAdmin(caller, sub.UserID); err != nil {
		return nil, err
	}
	if err := sub.Pause(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	metrics.IncSubscriptionOp("pause")
	return sub, nil
}

func (uc *SubscriptionUseCase) Resume(ctx context.Context, caller model.CallerContext, id string) (*model.Subscription, error) {
	sub, err := uc.loadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwnerOrAdmin(caller, sub.UserID); err != nil {
		return nil, err
	}
	if err := sub.Resume(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	metrics.IncSubscriptionOp("resume")
	return sub, nil
}

// Cancel deactivates the subscription and clears the owner's current-
// subscription reference when it points at this record.
func (uc *SubscriptionUseCase) Cancel(ctx context.Context, caller model.CallerContext, id string) error {
	sub, err := uc.loadSubscription(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureOwnerOrAdmin(caller, sub.UserID); err != nil {
		return err
	}

	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		sub.Cancel()
		if err := uc.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		return uc.clearCurrentRef(ctx, tx, sub)
	})
	if err != nil {
		return err
	}
	metrics.IncSubscriptionOp("cancel")
	uc.log.Info().Str("subscription_id", sub.ID).Str("user_id", sub.UserID).Msg("subscription cancelled")
	return nil
}

// Delete is the admin escape hatch: a hard remove that bypasses the state
// machine. The owner's current-subscription reference is cleared first so
// the delete cannot leave a dangling pointer.
func (uc *SubscriptionUseCase) Delete(ctx context.Context, caller model.CallerContext, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrUnauthorized
	}
	sub, err := uc.loadSubscription(ctx, id)
	if err != nil {
		return err
	}
	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.clearCurrentRef(ctx, tx, sub); err != nil {
			return err
		}
		return uc.subs.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	metrics.IncSubscriptionOp("delete")
	return nil
}

// CountByState feeds the subscriptions_total gauge.
func (uc *SubscriptionUseCase) CountByState(ctx context.Context) (map[string]int, error) {
	return uc.subs.CountByState(ctx, repository.NoTX)
}

func (uc *SubscriptionUseCase) loadSubscription(ctx context.Context, id string) (*model.Subscription, error) {
	sub, err := uc.subs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (uc *SubscriptionUseCase) clearCurrentRef(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	user, err := uc.ident.FindByID(ctx, sub.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil // owner already gone, nothing to clear
		}
		return err
	}
	if user.CurrentSubscriptionID == nil || *user.CurrentSubscriptionID != sub.ID {
		return nil
	}
	user.CurrentSubscriptionID = nil
	return uc.ident.Update(ctx, tx, user)
}
