package repository

import (
	"context"

	"padelpass-backend/internal/domain/model"
)

type ClubUserRepository interface {
	Save(ctx context.Context, tx Tx, cu *model.ClubUser) error
	Update(ctx context.Context, tx Tx, cu *model.ClubUser) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.ClubUser, error)
	FindByUserAndClub(ctx context.Context, tx Tx, userID, clubID string) (*model.ClubUser, error)
	// ActiveClubIDs returns the ids of clubs where the user holds an
	// active association. An empty slice is a valid answer.
	ActiveClubIDs(ctx context.Context, tx Tx, userID string) ([]string, error)
	// List optionally filters by club and restricts to clubScope when it
	// is non-nil (an empty non-nil scope matches nothing).
	List(ctx context.Context, tx Tx, clubID string, clubScope []string, page Page, dir SortDirection) ([]*model.ClubUser, int, error)
}
