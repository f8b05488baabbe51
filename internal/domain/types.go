package domain

// Role of an authenticated account.
type Role string

const (
	RoleUser   Role = "USER"
	RoleWorker Role = "WORKER"
	RoleAdmin  Role = "ADMIN"
)

// Actor is the caller identity resolved once at the request boundary.
// Role checks downstream go through this value instead of re-querying the
// identity store per check.
type Actor struct {
	UserID      int64 `json:"userId"`
	Role        Role  `json:"role"`
	IsApproved  bool  `json:"isApproved"`
	IsSuperuser bool  `json:"isSuperuser"`
}

// IsAdmin treats superusers and ADMIN-role accounts alike, matching the
// admin fan-out set.
func (a Actor) IsAdmin() bool {
	return a.IsSuperuser || a.Role == RoleAdmin
}

func (a Actor) IsWorker() bool {
	return a.Role == RoleWorker
}

// Decision is a worker's response to an assigned booking.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// RescheduleAction is a customer's response to a reschedule proposal.
type RescheduleAction string

const (
	RescheduleAccept RescheduleAction = "accept"
	RescheduleCancel RescheduleAction = "cancel"
)
