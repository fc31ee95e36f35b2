// File: internal/usecase/plan_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
)

type PlanRequest struct {
	Name             string
	DurationInMonths int
	PriceHalalas     int64
}

// PlanUseCase manages subscription plans. Plans are treated as immutable
// once referenced: Update rewrites fields in place but existing
// subscriptions keep the end dates computed at creation time.
type PlanUseCase struct {
	plans repository.SubscriptionPlanRepository
	log   *zerolog.Logger
}

func NewPlanUseCase(plans repository.SubscriptionPlanRepository, logger *zerolog.Logger) *PlanUseCase {
	return &PlanUseCase{plans: plans, log: logger}
}

func (uc *PlanUseCase) Create(ctx context.Context, caller model.CallerContext, req PlanRequest) (*model.SubscriptionPlan, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	plan, err := model.NewSubscriptionPlan(uuid.NewString(), req.Name, req.DurationInMonths, req.PriceHalalas)
	if err != nil {
		return nil, err
	}
	if err := uc.plans.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	uc.log.Info().Str("plan_id", plan.ID).Int("months", plan.DurationInMonths).Msg("plan created")
	return plan, nil
}

func (uc *PlanUseCase) Update(ctx context.Context, caller model.CallerContext, id string, req PlanRequest) (*model.SubscriptionPlan, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	existing, err := uc.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := model.NewSubscriptionPlan(existing.ID, req.Name, req.DurationInMonths, req.PriceHalalas)
	if err != nil {
		return nil, err
	}
	updated.CreatedAt = existing.CreatedAt
	if err := uc.plans.Save(ctx, repository.NoTX, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *PlanUseCase) Delete(ctx context.Context, caller model.CallerContext, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrUnauthorized
	}
	if _, err := uc.getPlan(ctx, id); err != nil {
		return err
	}
	return uc.plans.Delete(ctx, repository.NoTX, id)
}

func (uc *PlanUseCase) GetByID(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	return uc.getPlan(ctx, id)
}

func (uc *PlanUseCase) List(ctx context.Context, page repository.Page, sort repository.PlanSort, dir repository.SortDirection) ([]*model.SubscriptionPlan, int, error) {
	return uc.plans.List(ctx, repository.NoTX, page.Normalize(), sort, dir)
}

func (uc *PlanUseCase) getPlan(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	plan, err := uc.plans.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}
