package repositories

import (
	"database/sql"
	"errors"

	intconfig "homeservice/internal/config"
	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
)

type WorkerRepository struct {
	DB *sql.DB
}

func (r WorkerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByID loads a worker profile by its profile id.
func (r WorkerRepository) GetByID(id int64) (models.WorkerProfile, error) {
	if id <= 0 {
		return models.WorkerProfile{}, domain.ValidationError{Field: "worker_id", Msg: "invalid id"}
	}
	var w models.WorkerProfile
	var specialty sql.NullString
	err := r.db().QueryRow(`
		SELECT id, user_id, role, COALESCE(specialty, ''), is_approved
		FROM worker_profiles
		WHERE id = ? LIMIT 1`, id).
		Scan(&w.ID, &w.UserID, &w.Role, &specialty, &w.IsApproved)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkerProfile{}, domain.NotFoundError{Resource: "worker"}
	}
	if err != nil {
		return models.WorkerProfile{}, err
	}
	w.Specialty = specialty.String
	return w, nil
}

// GetByUserID resolves the worker profile behind an authenticated account.
func (r WorkerRepository) GetByUserID(userID int64) (models.WorkerProfile, error) {
	if userID <= 0 {
		return models.WorkerProfile{}, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	var w models.WorkerProfile
	var specialty sql.NullString
	err := r.db().QueryRow(`
		SELECT id, user_id, role, COALESCE(specialty, ''), is_approved
		FROM worker_profiles
		WHERE user_id = ? LIMIT 1`, userID).
		Scan(&w.ID, &w.UserID, &w.Role, &specialty, &w.IsApproved)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkerProfile{}, domain.NotFoundError{Resource: "worker"}
	}
	if err != nil {
		return models.WorkerProfile{}, err
	}
	w.Specialty = specialty.String
	return w, nil
}

// IsQualified checks membership of the service in the worker's qualified
// set.
func (r WorkerRepository) IsQualified(workerID, serviceID int64) (bool, error) {
	var one int
	err := r.db().QueryRow(`
		SELECT 1 FROM worker_services
		WHERE worker_id = ? AND service_id = ? LIMIT 1`,
		workerID, serviceID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetApproval flips the approval flag; assignment eligibility reads it
// live, so the effect is immediate.
func (r WorkerRepository) SetApproval(workerID int64, approved bool) error {
	res, err := r.db().Exec(`
		UPDATE worker_profiles SET is_approved = ? WHERE id = ?`,
		approved, workerID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguish a missing worker from an unchanged flag.
		var id int64
		if err := r.db().QueryRow(`SELECT id FROM worker_profiles WHERE id = ? LIMIT 1`, workerID).Scan(&id); err != nil {
			return domain.NotFoundError{Resource: "worker"}
		}
	}
	return nil
}
