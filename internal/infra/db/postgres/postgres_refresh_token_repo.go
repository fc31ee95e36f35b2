package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
)

var _ repository.RefreshTokenRepository = (*PostgresRefreshTokenRepository)(nil)

type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

const refreshTokenColumns = `id, user_id, token, jwt_id, expires_at, is_used, is_revoked, created_at`

func scanRefreshToken(row pgx.Row) (*model.RefreshToken, error) {
	t := &model.RefreshToken{}
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.JwtID, &t.ExpiresAt, &t.IsUsed, &t.IsRevoked, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *PostgresRefreshTokenRepository) Save(ctx context.Context, tx repository.Tx, t *model.RefreshToken) error {
	query := `
        INSERT INTO refresh_tokens (id, user_id, token, jwt_id, expires_at, is_used, is_revoked, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := execSQL(ctx, r.pool, tx, query,
		t.ID, t.UserID, t.Token, t.JwtID, t.ExpiresAt, t.IsUsed, t.IsRevoked, t.CreatedAt)
	return err
}

func (r *PostgresRefreshTokenRepository) Update(ctx context.Context, tx repository.Tx, t *model.RefreshToken) error {
	query := `
        UPDATE refresh_tokens
        SET is_used = $2, is_revoked = $3
        WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, query, t.ID, t.IsUsed, t.IsRevoked)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRefreshTokenRepository) FindByToken(ctx context.Context, tx repository.Tx, token string) (*model.RefreshToken, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token = $1;`, token)
	if err != nil {
		return nil, err
	}
	return scanRefreshToken(row)
}

func (r *PostgresRefreshTokenRepository) RevokeAllForUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	query := `
        UPDATE refresh_tokens
        SET is_revoked = TRUE
        WHERE user_id = $1 AND is_revoked = FALSE AND is_used = FALSE;`
	tag, err := execSQL(ctx, r.pool, tx, query, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *PostgresRefreshTokenRepository) DeleteStale(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	query := `
        DELETE FROM refresh_tokens
        WHERE expires_at < $1 OR is_used = TRUE OR is_revoked = TRUE;`
	tag, err := execSQL(ctx, r.pool, tx, query, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
