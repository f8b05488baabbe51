package models

import "homeservice/internal/domain"

// WorkerProfile mirrors the worker_profiles row joined with the account
// role. Qualified services live in the worker_services join table and are
// checked per assignment, not loaded here.
type WorkerProfile struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"userId"`
	Role       domain.Role `json:"role"`
	Specialty  string      `json:"specialty,omitempty"`
	IsApproved bool        `json:"isApproved"`
}
