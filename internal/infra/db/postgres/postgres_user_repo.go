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

var _ repository.UserRepository = (*PostgresUserRepository)(nil)

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, email, phone_number, full_name, password_hash, current_subscription_id, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PhoneNumber,
		&u.FullName,
		&u.PasswordHash,
		&u.CurrentSubscriptionID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *PostgresUserRepository) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	query := `
        INSERT INTO users (id, email, phone_number, full_name, password_hash, current_subscription_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := execSQL(ctx, r.pool, tx, query,
		u.ID, u.Email, u.PhoneNumber, u.FullName, u.PasswordHash, u.CurrentSubscriptionID, u.CreatedAt)
	return err
}

func (r *PostgresUserRepository) Update(ctx context.Context, tx repository.Tx, u *model.User) error {
	query := `
        UPDATE users
        SET email = $2, phone_number = $3, full_name = $4, password_hash = $5,
            current_subscription_id = $6, updated_at = NOW()
        WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, query,
		u.ID, u.Email, u.PhoneNumber, u.FullName, u.PasswordHash, u.CurrentSubscriptionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	return r.findBy(ctx, tx, "id", id)
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	return r.findBy(ctx, tx, "email", email)
}

func (r *PostgresUserRepository) FindByPhone(ctx context.Context, tx repository.Tx, phone string) (*model.User, error) {
	return r.findBy(ctx, tx, "phone_number", phone)
}

func (r *PostgresUserRepository) findBy(ctx context.Context, tx repository.Tx, column, value string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1;`, userColumns, column)
	row, err := pickRow(ctx, r.pool, tx, query, value)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadRoles(ctx, tx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresUserRepository) loadRoles(ctx context.Context, tx repository.Tx, u *model.User) error {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role;`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return err
		}
		u.Roles = append(u.Roles, role)
	}
	return rows.Err()
}

func (r *PostgresUserRepository) AddRole(ctx context.Context, tx repository.Tx, userID, role string) error {
	query := `
        INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
        ON CONFLICT (user_id, role) DO NOTHING;`
	_, err := execSQL(ctx, r.pool, tx, query, userID, role)
	return err
}

func (r *PostgresUserRepository) RemoveRole(ctx context.Context, tx repository.Tx, userID, role string) error {
	_, err := execSQL(ctx, r.pool, tx, `DELETE FROM user_roles WHERE user_id = $1 AND role = $2;`, userID, role)
	return err
}

// Search matches full_name or phone_number against the fragment, newest
// accounts first. The role filter joins through user_roles.
func (r *PostgresUserRepository) Search(ctx context.Context, tx repository.Tx, query, role string, page repository.Page) ([]*model.User, int, error) {
	page = page.Normalize()
	pattern := "%" + query + "%"

	where := `(u.full_name ILIKE $1 OR u.phone_number ILIKE $1)`
	args := []interface{}{pattern}
	if role != "" {
		where += ` AND EXISTS (SELECT 1 FROM user_roles ur WHERE ur.user_id = u.id AND ur.role = $2)`
		args = append(args, role)
	}

	countSQL := `SELECT COUNT(*) FROM users u WHERE ` + where + `;`
	row, err := pickRow(ctx, r.pool, tx, countSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL := fmt.Sprintf(`
        SELECT u.id, u.email, u.phone_number, u.full_name, u.password_hash, u.current_subscription_id, u.created_at, u.updated_at
        FROM users u
        WHERE %s
        ORDER BY u.created_at DESC
        LIMIT $%d OFFSET $%d;`, where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := queryRows(ctx, r.pool, tx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u := &model.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.FullName, &u.PasswordHash, &u.CurrentSubscriptionID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, u := range users {
		if err := r.loadRoles(ctx, tx, u); err != nil {
			return nil, 0, err
		}
	}
	return users, total, nil
}
