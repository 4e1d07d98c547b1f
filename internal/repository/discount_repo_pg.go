package repository

import (
	"context"
	"errors"

	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PromoCodeRepository interface {
	FindByCode(ctx context.Context, orgID int64, code string) (*domain.PromoCode, error)
	IncrementUsage(ctx context.Context, orgID int64, code string) error
}

type GiftCardRepository interface {
	FindByCode(ctx context.Context, orgID int64, code string) (*domain.GiftCard, error)
	Debit(ctx context.Context, orgID int64, code string, amountCents int64) error
}

type PGPromoCodeRepository struct {
	db *pgxpool.Pool
}

func NewPromoCodeRepository(db *pgxpool.Pool) PromoCodeRepository {
	return &PGPromoCodeRepository{db: db}
}

func (r *PGPromoCodeRepository) FindByCode(ctx context.Context, orgID int64, code string) (*domain.PromoCode, error) {
	row := r.db.QueryRow(ctx, `SELECT id, org_id, code, kind, amount_cents, percent, min_order_cents, valid_from, valid_to, usage_limit, times_used, active, created_at, updated_at FROM promo_codes WHERE org_id=$1 AND code=$2`, orgID, code)
	var p domain.PromoCode
	if err := row.Scan(&p.ID, &p.OrgID, &p.Code, &p.Kind, &p.AmountCents, &p.Percent, &p.MinOrderCents, &p.ValidFrom, &p.ValidTo, &p.UsageLimit, &p.TimesUsed, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoCodeNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPromoCodeRepository) IncrementUsage(ctx context.Context, orgID int64, code string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE promo_codes SET times_used = times_used + 1, updated_at = now() WHERE org_id=$1 AND code=$2`, orgID, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrPromoCodeNotFound
	}
	return nil
}

type PGGiftCardRepository struct {
	db *pgxpool.Pool
}

func NewGiftCardRepository(db *pgxpool.Pool) GiftCardRepository {
	return &PGGiftCardRepository{db: db}
}

func (r *PGGiftCardRepository) FindByCode(ctx context.Context, orgID int64, code string) (*domain.GiftCard, error) {
	row := r.db.QueryRow(ctx, `SELECT id, org_id, code, balance_cents, active, expires_at, created_at, updated_at FROM gift_cards WHERE org_id=$1 AND code=$2`, orgID, code)
	var g domain.GiftCard
	if err := row.Scan(&g.ID, &g.OrgID, &g.Code, &g.BalanceCents, &g.Active, &g.ExpiresAt, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGiftCardNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Debit reduces the card balance, guarding against overdraw at the row level.
func (r *PGGiftCardRepository) Debit(ctx context.Context, orgID int64, code string, amountCents int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE gift_cards SET balance_cents = balance_cents - $3, updated_at = now() WHERE org_id=$1 AND code=$2 AND balance_cents >= $3`, orgID, code, amountCents)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrGiftCardNotFound
	}
	return nil
}

var _ PromoCodeRepository = (*PGPromoCodeRepository)(nil)
var _ GiftCardRepository = (*PGGiftCardRepository)(nil)
