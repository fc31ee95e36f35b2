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

var _ repository.ClubRepository = (*PostgresClubRepository)(nil)

type PostgresClubRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresClubRepository(pool *pgxpool.Pool) *PostgresClubRepository {
	return &PostgresClubRepository{pool: pool}
}

const clubColumns = `id, name, address, latitude, longitude, time_zone_id, created_at, updated_at`

func scanClub(row pgx.Row) (*model.Club, error) {
	c := &model.Club{}
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude, &c.TimeZoneID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *PostgresClubRepository) Save(ctx context.Context, tx repository.Tx, c *model.Club) error {
	query := `
        INSERT INTO clubs (id, name, address, latitude, longitude, time_zone_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := execSQL(ctx, r.pool, tx, query, c.ID, c.Name, c.Address, c.Latitude, c.Longitude, c.TimeZoneID, c.CreatedAt)
	return err
}

func (r *PostgresClubRepository) Update(ctx context.Context, tx repository.Tx, c *model.Club) error {
	query := `
        UPDATE clubs
        SET name = $2, address = $3, latitude = $4, longitude = $5, time_zone_id = $6, updated_at = NOW()
        WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, query, c.ID, c.Name, c.Address, c.Latitude, c.Longitude, c.TimeZoneID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresClubRepository) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM clubs WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresClubRepository) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Club, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	c, err := scanClub(row)
	if err != nil {
		return nil, err
	}
	slots, err := r.ListSlotsByClub(ctx, tx, c.ID)
	if err != nil {
		return nil, err
	}
	c.NonPeakSlots = slots
	return c, nil
}

func (r *PostgresClubRepository) List(ctx context.Context, tx repository.Tx, page repository.Page, sort repository.ClubSort, dir repository.SortDirection) ([]*model.Club, int, error) {
	page = page.Normalize()

	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM clubs;`)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	column := "name"
	if sort == repository.ClubSortCreatedAt {
		column = "created_at"
	}
	order := "ASC"
	if dir == repository.SortDesc {
		order = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM clubs ORDER BY %s %s LIMIT $1 OFFSET $2;`, clubColumns, column, order)
	rows, err := queryRows(ctx, r.pool, tx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clubs []*model.Club
	for rows.Next() {
		c := &model.Club{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude, &c.TimeZoneID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		clubs = append(clubs, c)
	}
	return clubs, total, rows.Err()
}

const slotColumns = `id, club_id, day_of_week, start_seconds, end_seconds, created_at, updated_at`

func (r *PostgresClubRepository) SaveSlot(ctx context.Context, tx repository.Tx, s *model.NonPeakSlot) error {
	query := `
        INSERT INTO non_peak_slots (id, club_id, day_of_week, start_seconds, end_seconds, created_at)
        VALUES ($1, $2, $3, $4, $5, $6);`
	_, err := execSQL(ctx, r.pool, tx, query, s.ID, s.ClubID, int(s.DayOfWeek), int(s.StartTime), int(s.EndTime), s.CreatedAt)
	return err
}

func (r *PostgresClubRepository) UpdateSlot(ctx context.Context, tx repository.Tx, s *model.NonPeakSlot) error {
	query := `
        UPDATE non_peak_slots
        SET day_of_week = $2, start_seconds = $3, end_seconds = $4, updated_at = NOW()
        WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, query, s.ID, int(s.DayOfWeek), int(s.StartTime), int(s.EndTime))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresClubRepository) DeleteSlot(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM non_peak_slots WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresClubRepository) FindSlotByID(ctx context.Context, tx repository.Tx, id string) (*model.NonPeakSlot, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+slotColumns+` FROM non_peak_slots WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	s, err := scanSlot(row)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanSlot(row pgx.Row) (*model.NonPeakSlot, error) {
	s := &model.NonPeakSlot{}
	var day, start, end int
	err := row.Scan(&s.ID, &s.ClubID, &day, &start, &end, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.DayOfWeek = time.Weekday(day)
	s.StartTime = model.TimeOfDay(start)
	s.EndTime = model.TimeOfDay(end)
	return s, nil
}

func (r *PostgresClubRepository) ListSlotsByClub(ctx context.Context, tx repository.Tx, clubID string) ([]model.NonPeakSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM non_peak_slots WHERE club_id = $1 ORDER BY day_of_week, start_seconds;`
	rows, err := queryRows(ctx, r.pool, tx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []model.NonPeakSlot
	for rows.Next() {
		s := model.NonPeakSlot{}
		var day, start, end int
		if err := rows.Scan(&s.ID, &s.ClubID, &day, &start, &end, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.DayOfWeek = time.Weekday(day)
		s.StartTime = model.TimeOfDay(start)
		s.EndTime = model.TimeOfDay(end)
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
