package repository

import (
	"context"
	"time"

	"padelpass-backend/internal/domain/model"
)

type CheckInRepository interface {
	Save(ctx context.Context, tx Tx, c *model.CheckIn) error
	// FindLatestByUserAndClub returns the member's most recent check-in at
	// the club, or ErrNotFound.
	FindLatestByUserAndClub(ctx context.Context, tx Tx, userID, clubID string) (*model.CheckIn, error)
	ListByClub(ctx context.Context, tx Tx, clubID string, page Page, dir SortDirection) ([]*model.CheckIn, int, error)
	// ListByClubBetween pages a club's check-ins with checkin_at in
	// [from, to). Callers compute the bounds in the club's zone.
	ListByClubBetween(ctx context.Context, tx Tx, clubID string, from, to time.Time, page Page, dir SortDirection) ([]*model.CheckIn, int, error)
	ListByUser(ctx context.Context, tx Tx, userID string, page Page, dir SortDirection) ([]*model.CheckIn, int, error)
}
