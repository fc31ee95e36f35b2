// Package identity defines the port to the identity provider: account
// records, credentials and role membership. The core never sees password
// material; hashing lives behind this interface.
package identity

import (
	"context"

	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
)

type Provider interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	// Create stores a new account with a hashed password. When tx is
	// non-nil the write joins the caller's transaction.
	Create(ctx context.Context, tx repository.Tx, u *model.User, password string) error
	Update(ctx context.Context, tx repository.Tx, u *model.User) error
	Delete(ctx context.Context, tx repository.Tx, id string) error
	VerifyPassword(ctx context.Context, userID, password string) error
	IsInRole(ctx context.Context, userID, role string) (bool, error)
	AssignRole(ctx context.Context, tx repository.Tx, userID, role string) error
	Search(ctx context.Context, query, role string, page repository.Page) ([]*model.User, int, error)
}
