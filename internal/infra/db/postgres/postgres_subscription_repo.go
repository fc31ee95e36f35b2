package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)

type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, user_id, plan_id, start_date, end_date, is_active, is_paused, pause_date, remaining_days, created_at, updated_at`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	s := &model.Subscription{}
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.PlanID,
		&s.StartDate,
		&s.EndDate,
		&s.IsActive,
		&s.IsPaused,
		&s.PauseDate,
		&s.RemainingDays,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// Save upserts by id. Pause, resume, extend and cancel all flow through
// here after mutating the model in memory.
func (r *PostgresSubscriptionRepository) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	query := `
        INSERT INTO subscriptions (id, user_id, plan_id, start_date, end_date, is_active, is_paused, pause_date, remaining_days, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE
        SET plan_id = EXCLUDED.plan_id,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            is_active = EXCLUDED.is_active,
            is_paused = EXCLUDED.is_paused,
            pause_date = EXCLUDED.pause_date,
            remaining_days = EXCLUDED.remaining_days,
            updated_at = NOW();`
	_, err := execSQL(ctx, r.pool, tx, query,
		s.ID, s.UserID, s.PlanID, s.StartDate, s.EndDate, s.IsActive, s.IsPaused, s.PauseDate, s.RemainingDays, s.CreatedAt)
	return err
}

func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM subscriptions WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

// FindActiveByUser returns the newest IsActive row regardless of expiry
// or pause state. An expired-but-active subscription still blocks a new
// purchase, so the filter is deliberately is_active alone.
func (r *PostgresSubscriptionRepository) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE user_id = $1 AND is_active = TRUE
        ORDER BY created_at DESC
        LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *PostgresSubscriptionRepository) HasEligible(ctx context.Context, tx repository.Tx, userID string, now time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM subscriptions
            WHERE user_id = $1 AND is_active = TRUE AND is_paused = FALSE AND end_date > $2
        );`
	row, err := pickRow(ctx, r.pool, tx, query, userID, now)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *PostgresSubscriptionRepository) List(ctx context.Context, tx repository.Tx, userID string, page repository.Page, sort repository.SubscriptionSort, dir repository.SortDirection) ([]*model.Subscription, int, error) {
	page = page.Normalize()

	where := "TRUE"
	args := []interface{}{}
	if userID != "" {
		where = "user_id = $1"
		args = append(args, userID)
	}

	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM subscriptions WHERE `+where+`;`, args...)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	column := "created_at"
	switch sort {
	case repository.SubscriptionSortStartDate:
		column = "start_date"
	case repository.SubscriptionSortEndDate:
		column = "end_date"
	}
	order := "DESC"
	if dir == repository.SortAsc {
		order = "ASC"
	}

	query := fmt.Sprintf(`
        SELECT %s FROM subscriptions
        WHERE %s
        ORDER BY %s %s
        LIMIT $%d OFFSET $%d;`, subscriptionColumns, where, column, order, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := queryRows(ctx, r.pool, tx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subs []*model.Subscription
	for rows.Next() {
		s := &model.Subscription{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.PlanID, &s.StartDate, &s.EndDate, &s.IsActive, &s.IsPaused, &s.PauseDate, &s.RemainingDays, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		subs = append(subs, s)
	}
	return subs, total, rows.Err()
}

// CountByState classifies every row the way the eligibility rules do:
// cancelled first, then paused, then derived expiry, else running.
func (r *PostgresSubscriptionRepository) CountByState(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	query := `
        SELECT
            CASE
                WHEN NOT is_active THEN 'stopped'
                WHEN is_paused THEN 'paused'
                WHEN end_date <= NOW() THEN 'expired'
                ELSE 'running'
            END AS state,
            COUNT(*)
        FROM subscriptions
        GROUP BY state;`
	rows, err := queryRows(ctx, r.pool, tx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, err
		}
		counts[state] = n
	}
	return counts, rows.Err()
}
