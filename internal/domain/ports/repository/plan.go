package repository

import (
	"context"

	"padelpass-backend/internal/domain/model"
)

type SubscriptionPlanRepository interface {
	Save(ctx context.Context, tx Tx, p *model.SubscriptionPlan) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.SubscriptionPlan, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.SubscriptionPlan, error)
	List(ctx context.Context, tx Tx, page Page, sort PlanSort, dir SortDirection) ([]*model.SubscriptionPlan, int, error)
}
