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

var _ repository.SubscriptionPlanRepository = (*PostgresPlanRepository)(nil)

type PostgresPlanRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPlanRepository(pool *pgxpool.Pool) *PostgresPlanRepository {
	return &PostgresPlanRepository{pool: pool}
}

const planColumns = `id, name, duration_months, price_halalas, created_at, updated_at`

func scanPlan(row pgx.Row) (*model.SubscriptionPlan, error) {
	p := &model.SubscriptionPlan{}
	err := row.Scan(&p.ID, &p.Name, &p.DurationInMonths, &p.PriceHalalas, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Save upserts by id so plan edits reuse the same path.
func (r *PostgresPlanRepository) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	query := `
        INSERT INTO subscription_plans (id, name, duration_months, price_halalas, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name,
            duration_months = EXCLUDED.duration_months,
            price_halalas = EXCLUDED.price_halalas,
            updated_at = NOW();`
	_, err := execSQL(ctx, r.pool, tx, query, p.ID, p.Name, p.DurationInMonths, p.PriceHalalas, p.CreatedAt)
	return err
}

func (r *PostgresPlanRepository) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM subscription_plans WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresPlanRepository) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	return scanPlan(row)
}

func (r *PostgresPlanRepository) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+planColumns+` FROM subscription_plans ORDER BY duration_months;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*model.SubscriptionPlan
	for rows.Next() {
		p := &model.SubscriptionPlan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationInMonths, &p.PriceHalalas, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *PostgresPlanRepository) List(ctx context.Context, tx repository.Tx, page repository.Page, sort repository.PlanSort, dir repository.SortDirection) ([]*model.SubscriptionPlan, int, error) {
	page = page.Normalize()

	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM subscription_plans;`)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	column := "name"
	switch sort {
	case repository.PlanSortPrice:
		column = "price_halalas"
	case repository.PlanSortDuration:
		column = "duration_months"
	}
	order := "ASC"
	if dir == repository.SortDesc {
		order = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM subscription_plans ORDER BY %s %s LIMIT $1 OFFSET $2;`, planColumns, column, order)
	rows, err := queryRows(ctx, r.pool, tx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []*model.SubscriptionPlan
	for rows.Next() {
		p := &model.SubscriptionPlan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationInMonths, &p.PriceHalalas, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		plans = append(plans, p)
	}
	return plans, total, rows.Err()
}
