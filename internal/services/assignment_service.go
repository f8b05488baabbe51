package services

import (
	"fmt"

	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
	"homeservice/internal/notify"
	"homeservice/internal/repositories"
	"homeservice/internal/utils"
)

// AssignmentService gates worker eligibility and binds worker to booking.
type AssignmentService struct {
	BookingRepo repositories.BookingRepository
	WorkerRepo  repositories.WorkerRepository
	Notify      *notify.Dispatcher
	RequestID   string
}

func (s AssignmentService) notifier() *notify.Dispatcher {
	if s.Notify != nil {
		return s.Notify
	}
	return notify.Shared()
}

// Assign binds an approved, qualified worker to a PENDING booking.
// Eligibility failures are distinct errors so the dispatcher UI can say
// which precondition failed. The status change and the binding land in one
// conditional write: on a lost race neither happens.
func (s AssignmentService) Assign(actor domain.Actor, bookingID, workerID int64) (models.Booking, error) {
	if !actor.IsAdmin() {
		return models.Booking{}, domain.ForbiddenError{Msg: "only admins can assign workers"}
	}

	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	worker, err := s.WorkerRepo.GetByID(workerID)
	if err != nil {
		return models.Booking{}, err
	}
	if worker.Role != domain.RoleWorker {
		return models.Booking{}, domain.NotFoundError{Resource: "worker"}
	}
	if !worker.IsApproved {
		return models.Booking{}, domain.NotApprovedError{WorkerID: workerID}
	}
	qualified, err := s.WorkerRepo.IsQualified(workerID, booking.ServiceID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !qualified {
		return models.Booking{}, domain.NotQualifiedError{WorkerID: workerID, ServiceID: booking.ServiceID}
	}

	ok, err := s.BookingRepo.AssignWorker(bookingID, workerID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Booking{}, domain.InvalidStateError{Status: booking.Status, Msg: "booking is not pending"}
	}

	utils.LogEvent(s.RequestID, "assignment", "assign",
		fmt.Sprintf("booking_id=%d worker_id=%d", bookingID, workerID))

	s.notifier().Dispatch(notify.Message{
		Recipient: worker.UserID,
		Title:     "New Booking Assigned",
		Body: fmt.Sprintf("You have been assigned a new booking #%d for %s on %s at %s.",
			bookingID, booking.ServiceName, booking.Date, booking.TimeSlot),
		Category:  models.NotifyAssignment,
		RequestID: s.RequestID,
	})

	return s.BookingRepo.GetByID(bookingID)
}

// SetApproval flips a worker's approval flag (admin only).
func (s AssignmentService) SetApproval(actor domain.Actor, workerID int64, approved bool) error {
	if !actor.IsAdmin() {
		return domain.ForbiddenError{Msg: "only admins can change worker approval"}
	}
	if err := s.WorkerRepo.SetApproval(workerID, approved); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "assignment", "approval",
		fmt.Sprintf("worker_id=%d approved=%t", workerID, approved))
	return nil
}
