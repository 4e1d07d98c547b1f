package repository

import (
	"context"
	"errors"
	"time"

	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository interface {
	ListForDay(ctx context.Context, experienceID int64, day time.Time) ([]domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

type PGSlotRepository struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &PGSlotRepository{db: db}
}

func (r *PGSlotRepository) ListForDay(ctx context.Context, experienceID int64, day time.Time) ([]domain.Slot, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)

	rows, err := r.db.Query(ctx, `SELECT id, experience_id, starts_at, capacity, remaining, created_at, updated_at FROM slots WHERE experience_id=$1 AND starts_at >= $2 AND starts_at < $3 ORDER BY starts_at`, experienceID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.ID, &s.ExperienceID, &s.StartsAt, &s.Capacity, &s.Remaining, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *PGSlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	row := r.db.QueryRow(ctx, `SELECT id, experience_id, starts_at, capacity, remaining, created_at, updated_at FROM slots WHERE id=$1`, id)
	var s domain.Slot
	if err := row.Scan(&s.ID, &s.ExperienceID, &s.StartsAt, &s.Capacity, &s.Remaining, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

var _ SlotRepository = (*PGSlotRepository)(nil)
