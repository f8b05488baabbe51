package repositories

import (
	"database/sql"
	"errors"

	intconfig "homeservice/internal/config"
	"homeservice/internal/domain"
)

// IdentityRepository reads the identity store maintained by the external
// identity provider. Only role, approval and superuser flags matter here.
type IdentityRepository struct {
	DB *sql.DB
}

func (r IdentityRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetActor resolves the caller identity for a user id. Accounts without a
// worker profile default to plain USER role.
func (r IdentityRepository) GetActor(userID int64) (domain.Actor, error) {
	if userID <= 0 {
		return domain.Actor{}, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	var a domain.Actor
	var role sql.NullString
	var approved sql.NullBool
	err := r.db().QueryRow(`
		SELECT u.id, u.is_superuser, COALESCE(wp.role, 'USER'), COALESCE(wp.is_approved, 0)
		FROM users u
		LEFT JOIN worker_profiles wp ON wp.user_id = u.id
		WHERE u.id = ? LIMIT 1`, userID).
		Scan(&a.UserID, &a.IsSuperuser, &role, &approved)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Actor{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return domain.Actor{}, err
	}
	a.Role = domain.Role(role.String)
	a.IsApproved = approved.Bool
	return a, nil
}

// ListAdmins returns the admin fan-out set: superusers plus ADMIN-role
// accounts, deduplicated. Queried per fan-out on purpose; membership is
// never cached in-process.
func (r IdentityRepository) ListAdmins() ([]int64, error) {
	rows, err := r.db().Query(`
		SELECT DISTINCT u.id
		FROM users u
		LEFT JOIN worker_profiles wp ON wp.user_id = u.id
		WHERE u.is_superuser = 1 OR wp.role = 'ADMIN'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
