package repositories

import (
	"database/sql"
	"errors"

	intconfig "homeservice/internal/config"
	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `
	b.id, b.user_id, b.worker_id, b.service_id, s.name,
	b.date, b.time_slot, b.status, b.address,
	b.suggested_date, b.suggested_time, b.is_rated, b.reached_at,
	b.created_at, b.updated_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	var workerID sql.NullInt64
	var serviceName, suggestedDate, suggestedTime sql.NullString
	var reachedAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.UserID, &workerID, &b.ServiceID, &serviceName,
		&b.Date, &b.TimeSlot, &b.Status, &b.Address,
		&suggestedDate, &suggestedTime, &b.IsRated, &reachedAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if workerID.Valid {
		b.WorkerID = &workerID.Int64
	}
	if serviceName.Valid {
		b.ServiceName = serviceName.String
	}
	if suggestedDate.Valid && suggestedDate.String != "" {
		b.SuggestedDate = &suggestedDate.String
	}
	if suggestedTime.Valid && suggestedTime.String != "" {
		b.SuggestedTime = &suggestedTime.String
	}
	if reachedAt.Valid {
		b.ReachedAt = &reachedAt.Time
	}
	return b, nil
}

// Create inserts a fresh PENDING booking and returns its id.
func (r BookingRepository) Create(nb models.NewBooking) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO bookings (user_id, service_id, date, time_slot, status, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		nb.UserID, nb.ServiceID, nb.Date, nb.TimeSlot, domain.StatusPending, nb.Address,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	row := r.db().QueryRow(`
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN services s ON s.id = b.service_id
		WHERE b.id = ? LIMIT 1`, id)

	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

func (r BookingRepository) list(where string, args ...any) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN services s ON s.id = b.service_id
		`+where+`
		ORDER BY b.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingRepository) ListByCustomer(userID int64) ([]models.Booking, error) {
	return r.list("WHERE b.user_id = ?", userID)
}

func (r BookingRepository) ListByWorker(workerID int64) ([]models.Booking, error) {
	return r.list("WHERE b.worker_id = ?", workerID)
}

func (r BookingRepository) ListAll() ([]models.Booking, error) {
	return r.list("")
}

// ListConfirmedWithWorker returns delay-sweep candidates. Only CONFIRMED
// bookings with a bound worker qualify; everything else has either not
// been committed to or already moved on.
func (r BookingRepository) ListConfirmedWithWorker() ([]models.Booking, error) {
	return r.list("WHERE b.status = ? AND b.worker_id IS NOT NULL", domain.StatusConfirmed)
}

// Delete is the administrative removal path; lifecycle transitions never
// destroy a booking.
func (r BookingRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

func (r BookingRepository) casExec(query string, args ...any) (bool, error) {
	res, err := r.db().Exec(query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AssignWorker binds a worker and moves PENDING to ASSIGNED in one
// conditional write. Exactly one of two concurrent assigns can win.
func (r BookingRepository) AssignWorker(id, workerID int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET worker_id = ?, status = ?, updated_at = NOW()
		WHERE id = ? AND status = ?`,
		workerID, domain.StatusAssigned, id, domain.StatusPending)
}

// Accept moves ASSIGNED to CONFIRMED for the bound worker.
func (r BookingRepository) Accept(id, workerID int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET status = ?, updated_at = NOW()
		WHERE id = ? AND worker_id = ? AND status = ?`,
		domain.StatusConfirmed, id, workerID, domain.StatusAssigned)
}

// Reject clears the worker binding and returns the booking to PENDING so
// an admin can reassign it.
func (r BookingRepository) Reject(id, workerID int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET worker_id = NULL, status = ?, updated_at = NOW()
		WHERE id = ? AND worker_id = ? AND status = ?`,
		domain.StatusPending, id, workerID, domain.StatusAssigned)
}

// MarkReached records on-time arrival.
func (r BookingRepository) MarkReached(id, workerID int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET status = ?, reached_at = NOW(), updated_at = NOW()
		WHERE id = ? AND worker_id = ? AND status = ?`,
		domain.StatusReached, id, workerID, domain.StatusAssigned)
}

// MarkDelayed escalates an overdue CONFIRMED booking. Once a booking has
// left CONFIRMED this is a no-op, which keeps the sweep idempotent.
func (r BookingRepository) MarkDelayed(id int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET status = ?, updated_at = NOW()
		WHERE id = ? AND status = ?`,
		domain.StatusDelayed, id, domain.StatusConfirmed)
}

// MarkInProgress is the OTP-issuance transition. Any non-terminal status
// qualifies as long as the caller is the bound worker.
func (r BookingRepository) MarkInProgress(id, workerID int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET status = ?, updated_at = NOW()
		WHERE id = ? AND worker_id = ? AND status NOT IN (?, ?)`,
		domain.StatusInProgress, id, workerID, domain.StatusCompleted, domain.StatusCancelled)
}

// CancelByCustomer cancels while the booking is still PENDING or ASSIGNED.
func (r BookingRepository) CancelByCustomer(id, userID int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET status = ?, updated_at = NOW()
		WHERE id = ? AND user_id = ? AND status IN (?, ?)`,
		domain.StatusCancelled, id, userID, domain.StatusPending, domain.StatusAssigned)
}

// Suggest records a reschedule proposal; the original date and slot stay
// untouched until the customer accepts.
func (r BookingRepository) Suggest(id int64, date, slot string) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET suggested_date = ?, suggested_time = ?, updated_at = NOW()
		WHERE id = ?`,
		date, slot, id)
}

// AcceptSuggestion copies the proposal into the actual fields, clears it,
// and returns the booking to ASSIGNED. The suggested_date guard makes a
// lost race with a concurrent response fail cleanly.
func (r BookingRepository) AcceptSuggestion(id, userID int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings
		SET date = suggested_date, time_slot = suggested_time,
		    suggested_date = NULL, suggested_time = NULL,
		    status = ?, updated_at = NOW()
		WHERE id = ? AND user_id = ? AND suggested_date IS NOT NULL`,
		domain.StatusAssigned, id, userID)
}

// CancelSuggestion clears the proposal and cancels the booking.
func (r BookingRepository) CancelSuggestion(id, userID int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings
		SET suggested_date = NULL, suggested_time = NULL, status = ?, updated_at = NOW()
		WHERE id = ? AND user_id = ? AND suggested_date IS NOT NULL`,
		domain.StatusCancelled, id, userID)
}

// Complete moves a settled booking to COMPLETED from any payable status.
func (r BookingRepository) Complete(id int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET status = ?, updated_at = NOW()
		WHERE id = ? AND status IN (?, ?, ?, ?, ?)`,
		domain.StatusCompleted, id,
		domain.StatusPending, domain.StatusAssigned, domain.StatusConfirmed,
		domain.StatusInProgress, domain.StatusCompleted)
}

// MarkRated flips is_rated exactly once per booking.
func (r BookingRepository) MarkRated(id, userID int64) (bool, error) {
	return r.casExec(`
		UPDATE bookings SET is_rated = 1, updated_at = NOW()
		WHERE id = ? AND user_id = ? AND is_rated = 0`,
		id, userID)
}
