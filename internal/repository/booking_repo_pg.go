package repository

import (
	"context"
	"errors"
	"time"

	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.Booking) error
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) (*domain.Booking, error)
	Confirm(ctx context.Context, reference, paymentRef string, contact domain.ContactDetails, amounts domain.BookingAmounts) (*domain.Booking, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
	ReleaseSlot(ctx context.Context, slotID int64, seats int) error
}

const bookingColumns = `id, org_id, experience_id, slot_id, reference, status, party_size, subtotal_cents, promo_discount_cents, gift_card_discount_cents, total_cents, promo_code, gift_card_code, name, email, phone, payment_ref, expires_at, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// CreatePending takes the slot capacity and inserts the booking in one
// transaction so an abandoned checkout can be swept back later.
func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var remaining int
	if err := tx.QueryRow(ctx, `UPDATE slots SET remaining = remaining - $2, updated_at = now() WHERE id=$1 AND remaining >= $2 RETURNING remaining`, booking.SlotID, booking.PartySize).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSlotSoldOut
		}
		return err
	}

	booking.Status = domain.BookingStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (org_id, experience_id, slot_id, reference, status, party_size, email, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`, booking.OrgID, booking.ExperienceID, booking.SlotID, booking.Reference, booking.Status, booking.PartySize, booking.Email, booking.ExpiresAt).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, reference)
	return scanBooking(row)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE reference=$2 RETURNING `+bookingColumns, status, reference)
	return scanBooking(row)
}

func (r *PGBookingRepository) Confirm(ctx context.Context, reference, paymentRef string, contact domain.ContactDetails, amounts domain.BookingAmounts) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET
			status=$2, payment_ref=$3, name=$4, email=$5, phone=$6,
			subtotal_cents=$7, promo_discount_cents=$8, gift_card_discount_cents=$9, total_cents=$10,
			promo_code=$11, gift_card_code=$12, updated_at=now()
		WHERE reference=$1 AND status=$13
		RETURNING `+bookingColumns,
		reference, domain.BookingStatusConfirmed, paymentRef, contact.Name, contact.Email, contact.Phone,
		amounts.SubtotalCents, amounts.PromoDiscountCents, amounts.GiftCardDiscountCents, amounts.TotalCents,
		amounts.PromoCode, amounts.GiftCardCode, domain.BookingStatusPending)
	booking, err := scanBooking(row)
	if errors.Is(err, domain.ErrBookingNotFound) {
		return nil, domain.ErrBookingNotPending
	}
	return booking, err
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND expires_at <= $3 RETURNING `+bookingColumns, domain.BookingStatusExpired, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBookingFields(rows, &b); err != nil {
			return nil, err
		}
		expired = append(expired, b)
	}
	return expired, rows.Err()
}

func (r *PGBookingRepository) ReleaseSlot(ctx context.Context, slotID int64, seats int) error {
	cmd, err := r.db.Exec(ctx, `UPDATE slots SET remaining = LEAST(capacity, remaining + $2), updated_at = now() WHERE id=$1`, slotID, seats)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := scanBookingFields(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func scanBookingFields(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.OrgID, &b.ExperienceID, &b.SlotID, &b.Reference, &b.Status, &b.PartySize,
		&b.SubtotalCents, &b.PromoDiscountCents, &b.GiftCardDiscountCents, &b.TotalCents,
		&b.PromoCode, &b.GiftCardCode, &b.Name, &b.Email, &b.Phone, &b.PaymentRef,
		&b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
