package repository

import (
	"context"

	"padelpass-backend/internal/domain/model"
)

// ClubRepository owns clubs and their non-peak slots. FindByID returns the
// club with NonPeakSlots populated.
type ClubRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Club) error
	Update(ctx context.Context, tx Tx, c *model.Club) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Club, error)
	List(ctx context.Context, tx Tx, page Page, sort ClubSort, dir SortDirection) ([]*model.Club, int, error)

	SaveSlot(ctx context.Context, tx Tx, s *model.NonPeakSlot) error
	UpdateSlot(ctx context.Context, tx Tx, s *model.NonPeakSlot) error
	DeleteSlot(ctx context.Context, tx Tx, id string) error
	FindSlotByID(ctx context.Context, tx Tx, id string) (*model.NonPeakSlot, error)
	ListSlotsByClub(ctx context.Context, tx Tx, clubID string) ([]model.NonPeakSlot, error)
}
