package repositories

import (
	"database/sql"

	intconfig "homeservice/internal/config"
)

type OtpRepository struct {
	DB *sql.DB
}

func (r OtpRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Upsert issues a code for a booking, superseding any prior code in place.
// The unique key on booking_id keeps the "one unverified code per booking"
// invariant at the store level.
func (r OtpRepository) Upsert(bookingID int64, code string) error {
	_, err := r.db().Exec(`
		INSERT INTO otps (booking_id, code, is_verified, created_at)
		VALUES (?, ?, 0, NOW())
		ON DUPLICATE KEY UPDATE code = VALUES(code), is_verified = 0, created_at = NOW()`,
		bookingID, code)
	return err
}

// Verify marks the matching unverified code as verified. Zero rows
// affected means mismatch or an already-verified code; overlapping verify
// attempts against the same code cannot both observe is_verified = 0.
func (r OtpRepository) Verify(bookingID int64, code string) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE otps SET is_verified = 1
		WHERE booking_id = ? AND code = ? AND is_verified = 0`,
		bookingID, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
