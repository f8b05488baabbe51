package domain

// Status is a booking lifecycle state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAssigned   Status = "ASSIGNED"
	StatusConfirmed  Status = "CONFIRMED"
	StatusReached    Status = "REACHED"
	StatusDelayed    Status = "DELAYED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// IsTerminal reports whether no further transitions leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// RequiresWorker reports whether a booking in s must carry a bound worker.
// The inverse holds too: PENDING and CANCELLED bookings have none.
func (s Status) RequiresWorker() bool {
	switch s {
	case StatusAssigned, StatusConfirmed, StatusReached, StatusDelayed, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// CancellableByCustomer reports whether the owning customer may still
// cancel directly (before the worker has committed to the visit).
func (s Status) CancellableByCustomer() bool {
	return s == StatusPending || s == StatusAssigned
}

// PayableStatuses are the states from which a settlement may be processed.
// REACHED and DELAYED sit between arrival and OTP confirmation and are
// deliberately excluded.
var PayableStatuses = []Status{
	StatusPending, StatusAssigned, StatusConfirmed, StatusInProgress, StatusCompleted,
}

// Payable reports whether payment processing is allowed from s.
func (s Status) Payable() bool {
	for _, p := range PayableStatuses {
		if s == p {
			return true
		}
	}
	return false
}
