package repository

import (
	"context"
	"errors"

	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExperienceRepository interface {
	List(ctx context.Context, orgID int64) ([]domain.Experience, error)
	GetByID(ctx context.Context, id int64) (*domain.Experience, error)
	ListTicketTypes(ctx context.Context, experienceID int64) ([]domain.TicketType, error)
	GetTicketType(ctx context.Context, id int64) (*domain.TicketType, error)
}

type PGExperienceRepository struct {
	db *pgxpool.Pool
}

func NewExperienceRepository(db *pgxpool.Pool) ExperienceRepository {
	return &PGExperienceRepository{db: db}
}

func (r *PGExperienceRepository) List(ctx context.Context, orgID int64) ([]domain.Experience, error) {
	rows, err := r.db.Query(ctx, `SELECT id, org_id, name, description, duration_minutes, capacity, cover_image_url, embed_key, created_at, updated_at FROM experiences WHERE org_id=$1 ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	experiences := make([]domain.Experience, 0)
	for rows.Next() {
		var e domain.Experience
		if err := rows.Scan(&e.ID, &e.OrgID, &e.Name, &e.Description, &e.DurationMinutes, &e.Capacity, &e.CoverImageURL, &e.EmbedKey, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}

func (r *PGExperienceRepository) GetByID(ctx context.Context, id int64) (*domain.Experience, error) {
	row := r.db.QueryRow(ctx, `SELECT id, org_id, name, description, duration_minutes, capacity, cover_image_url, embed_key, created_at, updated_at FROM experiences WHERE id=$1`, id)
	var e domain.Experience
	if err := row.Scan(&e.ID, &e.OrgID, &e.Name, &e.Description, &e.DurationMinutes, &e.Capacity, &e.CoverImageURL, &e.EmbedKey, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExperienceNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PGExperienceRepository) ListTicketTypes(ctx context.Context, experienceID int64) ([]domain.TicketType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, experience_id, name, price_cents, created_at, updated_at FROM ticket_types WHERE experience_id=$1 ORDER BY price_cents DESC`, experienceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]domain.TicketType, 0)
	for rows.Next() {
		var t domain.TicketType
		if err := rows.Scan(&t.ID, &t.ExperienceID, &t.Name, &t.PriceCents, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *PGExperienceRepository) GetTicketType(ctx context.Context, id int64) (*domain.TicketType, error) {
	row := r.db.QueryRow(ctx, `SELECT id, experience_id, name, price_cents, created_at, updated_at FROM ticket_types WHERE id=$1`, id)
	var t domain.TicketType
	if err := row.Scan(&t.ID, &t.ExperienceID, &t.Name, &t.PriceCents, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

var _ ExperienceRepository = (*PGExperienceRepository)(nil)
