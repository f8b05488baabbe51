package repositories

import (
	"database/sql"
	"errors"

	intconfig "homeservice/internal/config"
	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
)

// ServiceRepository reads the service catalog. The catalog is maintained
// externally; this side only ever reads it.
type ServiceRepository struct {
	DB *sql.DB
}

func (r ServiceRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ServiceRepository) GetByID(id int64) (models.Service, error) {
	if id <= 0 {
		return models.Service{}, domain.ValidationError{Field: "service_id", Msg: "invalid id"}
	}
	var s models.Service
	err := r.db().QueryRow(`
		SELECT id, name, category, price
		FROM services
		WHERE id = ? LIMIT 1`, id).
		Scan(&s.ID, &s.Name, &s.Category, &s.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Service{}, domain.NotFoundError{Resource: "service"}
	}
	return s, err
}
