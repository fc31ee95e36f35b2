package repository

import (
	"context"
	"time"

	"padelpass-backend/internal/domain/model"
)

type RefreshTokenRepository interface {
	Save(ctx context.Context, tx Tx, t *model.RefreshToken) error
	Update(ctx context.Context, tx Tx, t *model.RefreshToken) error
	FindByToken(ctx context.Context, tx Tx, token string) (*model.RefreshToken, error)
	RevokeAllForUser(ctx context.Context, tx Tx, userID string) (int, error)
	// DeleteStale removes tokens that are expired, used or revoked; the
	// sweeper calls this periodically.
	DeleteStale(ctx context.Context, tx Tx, now time.Time) (int, error)
}
