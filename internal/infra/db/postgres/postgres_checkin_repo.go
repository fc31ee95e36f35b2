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

var _ repository.CheckInRepository = (*PostgresCheckInRepository)(nil)

type PostgresCheckInRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCheckInRepository(pool *pgxpool.Pool) *PostgresCheckInRepository {
	return &PostgresCheckInRepository{pool: pool}
}

const checkInColumns = `id, user_id, club_id, checkin_at, court_number, start_play_time, play_duration_minutes, notes, checked_in_by, is_manual_entry, created_at`

func scanCheckIn(row pgx.Row) (*model.CheckIn, error) {
	c := &model.CheckIn{}
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ClubID,
		&c.CheckInAt,
		&c.CourtNumber,
		&c.StartPlayTime,
		&c.PlayDurationMinutes,
		&c.Notes,
		&c.CheckedInBy,
		&c.IsManualEntry,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Save is insert-only; check-in rows are never rewritten.
func (r *PostgresCheckInRepository) Save(ctx context.Context, tx repository.Tx, c *model.CheckIn) error {
	query := `
        INSERT INTO check_ins (id, user_id, club_id, checkin_at, court_number, start_play_time, play_duration_minutes, notes, checked_in_by, is_manual_entry, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := execSQL(ctx, r.pool, tx, query,
		c.ID, c.UserID, c.ClubID, c.CheckInAt, c.CourtNumber, c.StartPlayTime, c.PlayDurationMinutes, c.Notes, c.CheckedInBy, c.IsManualEntry, c.CreatedAt)
	return err
}

func (r *PostgresCheckInRepository) FindLatestByUserAndClub(ctx context.Context, tx repository.Tx, userID, clubID string) (*model.CheckIn, error) {
	query := `
        SELECT ` + checkInColumns + `
        FROM check_ins
        WHERE user_id = $1 AND club_id = $2
        ORDER BY checkin_at DESC
        LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, query, userID, clubID)
	if err != nil {
		return nil, err
	}
	return scanCheckIn(row)
}

func (r *PostgresCheckInRepository) ListByClub(ctx context.Context, tx repository.Tx, clubID string, page repository.Page, dir repository.SortDirection) ([]*model.CheckIn, int, error) {
	return r.list(ctx, tx, "club_id", clubID, page, dir)
}

func (r *PostgresCheckInRepository) ListByUser(ctx context.Context, tx repository.Tx, userID string, page repository.Page, dir repository.SortDirection) ([]*model.CheckIn, int, error) {
	return r.list(ctx, tx, "user_id", userID, page, dir)
}

func (r *PostgresCheckInRepository) ListByClubBetween(ctx context.Context, tx repository.Tx, clubID string, from, to time.Time, page repository.Page, dir repository.SortDirection) ([]*model.CheckIn, int, error) {
	page = page.Normalize()

	row, err := pickRow(ctx, r.pool, tx,
		`SELECT COUNT(*) FROM check_ins WHERE club_id = $1 AND checkin_at >= $2 AND checkin_at < $3;`,
		clubID, from, to)
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
        SELECT %s FROM check_ins
        WHERE club_id = $1 AND checkin_at >= $2 AND checkin_at < $3
        ORDER BY checkin_at %s
        LIMIT $4 OFFSET $5;`, checkInColumns, order)

	rows, err := queryRows(ctx, r.pool, tx, query, clubID, from, to, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var checkIns []*model.CheckIn
	for rows.Next() {
		c := &model.CheckIn{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.ClubID, &c.CheckInAt, &c.CourtNumber, &c.StartPlayTime, &c.PlayDurationMinutes, &c.Notes, &c.CheckedInBy, &c.IsManualEntry, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, total, rows.Err()
}

func (r *PostgresCheckInRepository) list(ctx context.Context, tx repository.Tx, column, value string, page repository.Page, dir repository.SortDirection) ([]*model.CheckIn, int, error) {
	page = page.Normalize()

	row, err := pickRow(ctx, r.pool, tx, fmt.Sprintf(`SELECT COUNT(*) FROM check_ins WHERE %s = $1;`, column), value)
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
        SELECT %s FROM check_ins
        WHERE %s = $1
        ORDER BY checkin_at %s
        LIMIT $2 OFFSET $3;`, checkInColumns, column, order)

	rows, err := queryRows(ctx, r.pool, tx, query, value, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var checkIns []*model.CheckIn
	for rows.Next() {
		c := &model.CheckIn{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.ClubID, &c.CheckInAt, &c.CourtNumber, &c.StartPlayTime, &c.PlayDurationMinutes, &c.Notes, &c.CheckedInBy, &c.IsManualEntry, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, total, rows.Err()
}
