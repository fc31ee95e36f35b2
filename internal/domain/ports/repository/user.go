package repository

import (
	"context"

	"padelpass-backend/internal/domain/model"
)

// UserRepository backs the identity provider. Finds return the user with
// Roles populated.
type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	Update(ctx context.Context, tx Tx, u *model.User) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	FindByPhone(ctx context.Context, tx Tx, phone string) (*model.User, error)
	AddRole(ctx context.Context, tx Tx, userID, role string) error
	RemoveRole(ctx context.Context, tx Tx, userID, role string) error
	// Search matches a name or phone fragment, optionally restricted to
	// users holding role. Returns the page and the total match count.
	Search(ctx context.Context, tx Tx, query, role string, page Page) ([]*model.User, int, error)
}
