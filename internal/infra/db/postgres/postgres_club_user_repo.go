package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
)

var _ repository.ClubUserRepository = (*PostgresClubUserRepository)(nil)

type PostgresClubUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresClubUserRepository(pool *pgxpool.Pool) *PostgresClubUserRepository {
	return &PostgresClubUserRepository{pool: pool}
}

const clubUserColumns = `id, user_id, club_id, is_active, created_at, updated_at`

func scanClubUser(row pgx.Row) (*model.ClubUser, error) {
	cu := &model.ClubUser{}
	err := row.Scan(&cu.ID, &cu.UserID, &cu.ClubID, &cu.IsActive, &cu.CreatedAt, &cu.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cu, nil
}

func (r *PostgresClubUserRepository) Save(ctx context.Context, tx repository.Tx, cu *model.ClubUser) error {
	query := `
        INSERT INTO club_users (id, user_id, club_id, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5);`
	_, err := execSQL(ctx, r.pool, tx, query, cu.ID, cu.UserID, cu.ClubID, cu.IsActive, cu.CreatedAt)
	return err
}

func (r *PostgresClubUserRepository) Update(ctx context.Context, tx repository.Tx, cu *model.ClubUser) error {
	query := `
        UPDATE club_users
        SET is_active = $2, updated_at = NOW()
        WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, query, cu.ID, cu.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresClubUserRepository) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM club_users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresClubUserRepository) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ClubUser, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+clubUserColumns+` FROM club_users WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	return scanClubUser(row)
}

func (r *PostgresClubUserRepository) FindByUserAndClub(ctx context.Context, tx repository.Tx, userID, clubID string) (*model.ClubUser, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT `+clubUserColumns+` FROM club_users WHERE user_id = $1 AND club_id = $2;`, userID, clubID)
	if err != nil {
		return nil, err
	}
	return scanClubUser(row)
}

func (r *PostgresClubUserRepository) ActiveClubIDs(ctx context.Context, tx repository.Tx, userID string) ([]string, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT club_id FROM club_users WHERE user_id = $1 AND is_active = TRUE;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List filters by club when clubID is non-empty and narrows to clubScope
// when it is non-nil. An empty non-nil scope matches nothing; that is the
// staff-with-no-clubs case, not an error.
func (r *PostgresClubUserRepository) List(ctx context.Context, tx repository.Tx, clubID string, clubScope []string, page repository.Page, dir repository.SortDirection) ([]*model.ClubUser, int, error) {
	page = page.Normalize()

	if clubScope != nil && len(clubScope) == 0 {
		return []*model.ClubUser{}, 0, nil
	}

	where := "TRUE"
	args := []interface{}{}
	if clubID != "" {
		args = append(args, clubID)
		where = fmt.Sprintf("club_id = $%d", len(args))
	}
	if clubScope != nil {
		args = append(args, clubScope)
		where += fmt.Sprintf(" AND club_id = ANY($%d)", len(args))
	}

	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM club_users WHERE `+where+`;`, args...)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if dir == repository.SortAsc {
		order = "ASC"
	}
	query := fmt.Sprintf(`
        SELECT %s FROM club_users
        WHERE %s
        ORDER BY created_at %s
        LIMIT $%d OFFSET $%d;`, clubUserColumns, where, order, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := queryRows(ctx, r.pool, tx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clubUsers []*model.ClubUser
	for rows.Next() {
		cu := &model.ClubUser{}
		if err := rows.Scan(&cu.ID, &cu.UserID, &cu.ClubID, &cu.IsActive, &cu.CreatedAt, &cu.UpdatedAt); err != nil {
			return nil, 0, err
		}
		clubUsers = append(clubUsers, cu)
	}
	return clubUsers, total, rows.Err()
}
