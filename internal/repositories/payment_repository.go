package repositories

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	intconfig "homeservice/internal/config"
	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const mysqlErrDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry
}

// GetByBookingID fetches the settlement for a booking, if any.
func (r PaymentRepository) GetByBookingID(bookingID int64) (models.Payment, bool, error) {
	var p models.Payment
	err := r.db().QueryRow(`
		SELECT id, booking_id, total_amount, admin_commission, provider_amount,
		       payment_status, payment_method, transaction_id, created_at, updated_at
		FROM payments
		WHERE booking_id = ? LIMIT 1`, bookingID).
		Scan(&p.ID, &p.BookingID, &p.TotalAmount, &p.AdminCommission, &p.ProviderAmount,
			&p.Status, &p.Method, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, false, nil
	}
	if err != nil {
		return models.Payment{}, false, err
	}
	return p, true, nil
}

// Record settles a booking at most once. The unique key on booking_id is
// the barrier: of two concurrent inserts one hits a duplicate-key error,
// re-reads the row, and either reports AlreadyPaid (SUCCESS row) or
// retries the prior FAILED attempt in place.
func (r PaymentRepository) Record(p models.Payment) error {
	_, err := r.db().Exec(`
		INSERT INTO payments (booking_id, total_amount, admin_commission, provider_amount,
		                      payment_status, payment_method, transaction_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		p.BookingID, p.TotalAmount, p.AdminCommission, p.ProviderAmount,
		p.Status, p.Method, p.TransactionID)
	if err == nil {
		return nil
	}
	if !isDuplicateKey(err) {
		return err
	}

	existing, found, gerr := r.GetByBookingID(p.BookingID)
	if gerr != nil {
		return gerr
	}
	if found && existing.Status == models.PaymentSuccess {
		return domain.AlreadyPaidError{BookingID: p.BookingID}
	}

	// A prior FAILED attempt is updated in place. The status guard keeps a
	// racing successful settlement from being overwritten.
	res, uerr := r.db().Exec(`
		UPDATE payments
		SET total_amount = ?, admin_commission = ?, provider_amount = ?,
		    payment_status = ?, payment_method = ?, transaction_id = ?, updated_at = NOW()
		WHERE booking_id = ? AND payment_status = ?`,
		p.TotalAmount, p.AdminCommission, p.ProviderAmount,
		p.Status, p.Method, p.TransactionID,
		p.BookingID, models.PaymentFailed)
	if uerr != nil {
		return uerr
	}
	n, uerr := res.RowsAffected()
	if uerr != nil {
		return uerr
	}
	if n == 0 {
		return domain.AlreadyPaidError{BookingID: p.BookingID}
	}
	return nil
}
