// Package identity implements the identity port on top of the user
// repository, with bcrypt password hashing.
package identity

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	identityPort "padelpass-backend/internal/domain/ports/identity"
	"padelpass-backend/internal/domain/ports/repository"
)

var _ identityPort.Provider = (*BcryptProvider)(nil)

type BcryptProvider struct {
	users repository.UserRepository
	cost  int
}

func NewBcryptProvider(users repository.UserRepository) *BcryptProvider {
	return &BcryptProvider{users: users, cost: bcrypt.DefaultCost}
}

func (p *BcryptProvider) FindByID(ctx context.Context, id string) (*model.User, error) {
	return p.users.FindByID(ctx, repository.NoTX, id)
}

func (p *BcryptProvider) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return p.users.FindByEmail(ctx, repository.NoTX, strings.TrimSpace(strings.ToLower(email)))
}

func (p *BcryptProvider) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	return p.users.FindByPhone(ctx, repository.NoTX, strings.TrimSpace(phone))
}

func (p *BcryptProvider) Create(ctx context.Context, tx repository.Tx, u *model.User, password string) error {
	if password == "" {
		return domain.ErrInvalidArgument
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return p.users.Save(ctx, tx, u)
}

func (p *BcryptProvider) Update(ctx context.Context, tx repository.Tx, u *model.User) error {
	return p.users.Update(ctx, tx, u)
}

func (p *BcryptProvider) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return p.users.Delete(ctx, tx, id)
}

// VerifyPassword reports bcrypt mismatches as ErrInvalidCredentials so
// callers cannot distinguish a wrong password from a missing account.
func (p *BcryptProvider) VerifyPassword(ctx context.Context, userID, password string) error {
	u, err := p.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (p *BcryptProvider) IsInRole(ctx context.Context, userID, role string) (bool, error) {
	u, err := p.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return false, err
	}
	return u.HasRole(role), nil
}

func (p *BcryptProvider) AssignRole(ctx context.Context, tx repository.Tx, userID, role string) error {
	valid := false
	for _, r := range model.AllRoles {
		if r == role {
			valid = true
			break
		}
	}
	if !valid {
		return domain.ErrInvalidArgument
	}
	return p.users.AddRole(ctx, tx, userID, role)
}

func (p *BcryptProvider) Search(ctx context.Context, query, role string, page repository.Page) ([]*model.User, int, error) {
	return p.users.Search(ctx, repository.NoTX, query, role, page)
}
