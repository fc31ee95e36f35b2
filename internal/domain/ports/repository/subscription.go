package repository

import (
	"context"
	"time"

	"padelpass-backend/internal/domain/model"
)

type SubscriptionRepository interface {
	// Save upserts by id.
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	// FindActiveByUser returns the newest IsActive subscription regardless
	// of expiry or pause state, or ErrNotFound.
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)
	// HasEligible reports whether the user holds a subscription with
	// IsActive, not paused, and EndDate after now.
	HasEligible(ctx context.Context, tx Tx, userID string, now time.Time) (bool, error)
	// List returns all subscriptions, or only one user's when userID is
	// non-empty, plus the total count.
	List(ctx context.Context, tx Tx, userID string, page Page, sort SubscriptionSort, dir SortDirection) ([]*model.Subscription, int, error)
	CountByState(ctx context.Context, tx Tx) (map[string]int, error)
}
