package services

import (
	"fmt"
	"strings"

	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
	"homeservice/internal/notify"
	"homeservice/internal/repositories"
	"homeservice/internal/utils"
)

// BookingService drives the booking lifecycle: creation, worker decision,
// arrival, cancellation, the reschedule sub-workflow and the rated flag.
type BookingService struct {
	BookingRepo  repositories.BookingRepository
	WorkerRepo   repositories.WorkerRepository
	ServiceRepo  repositories.ServiceRepository
	IdentityRepo repositories.IdentityRepository
	Notify       *notify.Dispatcher
	RequestID    string
}

func (s BookingService) notifier() *notify.Dispatcher {
	if s.Notify != nil {
		return s.Notify
	}
	return notify.Shared()
}

func (s BookingService) notifyAdmins(title, body string) {
	admins, err := s.IdentityRepo.ListAdmins()
	if err != nil {
		utils.LogEventError(s.RequestID, "booking", "notify_admins", "admin lookup failed: "+err.Error())
		return
	}
	s.notifier().Fanout(s.RequestID, admins, title, body, models.NotifySystem)
}

// Create opens a PENDING booking for the calling customer.
func (s BookingService) Create(actor domain.Actor, serviceID int64, date, timeSlot, address string) (models.Booking, error) {
	if strings.TrimSpace(date) == "" {
		return models.Booking{}, domain.ValidationError{Field: "date", Msg: "required"}
	}
	if strings.TrimSpace(timeSlot) == "" {
		return models.Booking{}, domain.ValidationError{Field: "time_slot", Msg: "required"}
	}
	if strings.TrimSpace(address) == "" {
		return models.Booking{}, domain.ValidationError{Field: "address", Msg: "required"}
	}
	if _, err := s.ServiceRepo.GetByID(serviceID); err != nil {
		return models.Booking{}, err
	}

	id, err := s.BookingRepo.Create(models.NewBooking{
		UserID:    actor.UserID,
		ServiceID: serviceID,
		Date:      strings.TrimSpace(date),
		TimeSlot:  strings.TrimSpace(timeSlot),
		Address:   strings.TrimSpace(address),
	})
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%d user_id=%d", id, actor.UserID))
	return s.BookingRepo.GetByID(id)
}

// Get enforces read access: owner, bound worker, or admin.
func (s BookingService) Get(actor domain.Actor, bookingID int64) (models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if actor.IsAdmin() || booking.UserID == actor.UserID {
		return booking, nil
	}
	if actor.IsWorker() {
		if worker, werr := s.WorkerRepo.GetByUserID(actor.UserID); werr == nil && booking.BoundTo(worker.ID) {
			return booking, nil
		}
	}
	return models.Booking{}, domain.ForbiddenError{Msg: "not your booking"}
}

func (s BookingService) ListMine(actor domain.Actor) ([]models.Booking, error) {
	return s.BookingRepo.ListByCustomer(actor.UserID)
}

func (s BookingService) ListAll(actor domain.Actor) ([]models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, domain.ForbiddenError{Msg: "only admins can list all bookings"}
	}
	return s.BookingRepo.ListAll()
}

// ListAssigned returns the caller's worker queue.
func (s BookingService) ListAssigned(actor domain.Actor) ([]models.Booking, error) {
	worker, err := s.workerFor(actor)
	if err != nil {
		return nil, err
	}
	return s.BookingRepo.ListByWorker(worker.ID)
}

func (s BookingService) workerFor(actor domain.Actor) (models.WorkerProfile, error) {
	if !actor.IsWorker() {
		return models.WorkerProfile{}, domain.ForbiddenError{Msg: "only workers can perform this action"}
	}
	worker, err := s.WorkerRepo.GetByUserID(actor.UserID)
	if err != nil {
		return models.WorkerProfile{}, domain.ForbiddenError{Msg: "only workers can perform this action", Err: err}
	}
	return worker, nil
}

// Decide records the bound worker's accept/reject response to an
// assignment. Reject clears the binding, returns the booking to PENDING
// and tells every admin to reassign.
func (s BookingService) Decide(actor domain.Actor, bookingID int64, decision domain.Decision) (models.Booking, error) {
	worker, err := s.workerFor(actor)
	if err != nil {
		return models.Booking{}, err
	}
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if !booking.BoundTo(worker.ID) {
		return models.Booking{}, domain.ForbiddenError{Msg: "booking is not assigned to you"}
	}

	switch decision {
	case domain.DecisionAccept:
		ok, err := s.BookingRepo.Accept(bookingID, worker.ID)
		if err != nil {
			return models.Booking{}, domain.InternalError{Err: err}
		}
		if !ok {
			return models.Booking{}, domain.InvalidStateError{Status: booking.Status, Msg: "booking is not awaiting your decision"}
		}
		utils.LogEvent(s.RequestID, "booking", "accept", fmt.Sprintf("booking_id=%d worker_id=%d", bookingID, worker.ID))

	case domain.DecisionReject:
		ok, err := s.BookingRepo.Reject(bookingID, worker.ID)
		if err != nil {
			return models.Booking{}, domain.InternalError{Err: err}
		}
		if !ok {
			return models.Booking{}, domain.InvalidStateError{Status: booking.Status, Msg: "booking is not awaiting your decision"}
		}
		utils.LogEvent(s.RequestID, "booking", "reject", fmt.Sprintf("booking_id=%d worker_id=%d", bookingID, worker.ID))
		s.notifyAdmins("Booking Rejected by Worker",
			fmt.Sprintf("Booking #%d for %s was rejected by worker %d. Please reassign to another worker.",
				bookingID, booking.ServiceName, worker.ID))

	default:
		return models.Booking{}, domain.ValidationError{Field: "decision", Msg: `use "accept" or "reject"`}
	}

	return s.BookingRepo.GetByID(bookingID)
}

// MarkReached records the bound worker's on-time arrival.
func (s BookingService) MarkReached(actor domain.Actor, bookingID int64) (models.Booking, error) {
	worker, err := s.workerFor(actor)
	if err != nil {
		return models.Booking{}, err
	}
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if !booking.BoundTo(worker.ID) {
		return models.Booking{}, domain.ForbiddenError{Msg: "booking is not assigned to you"}
	}

	ok, err := s.BookingRepo.MarkReached(bookingID, worker.ID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Booking{}, domain.InvalidStateError{Status: booking.Status, Msg: "cannot mark as reached"}
	}
	utils.LogEvent(s.RequestID, "booking", "reached", fmt.Sprintf("booking_id=%d worker_id=%d", bookingID, worker.ID))

	s.notifier().Dispatch(notify.Message{
		Recipient: booking.UserID,
		Title:     "Worker Has Arrived",
		Body: fmt.Sprintf("Your worker has reached the service location for booking #%d (%s).",
			bookingID, booking.ServiceName),
		Category:  models.NotifyBookingStatus,
		RequestID: s.RequestID,
	})
	return s.BookingRepo.GetByID(bookingID)
}

// Cancel is the customer's direct cancellation, allowed while the booking
// is still PENDING or ASSIGNED.
func (s BookingService) Cancel(actor domain.Actor, bookingID int64) (models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.UserID != actor.UserID {
		return models.Booking{}, domain.ForbiddenError{Msg: "not your booking"}
	}

	ok, err := s.BookingRepo.CancelByCustomer(bookingID, actor.UserID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Booking{}, domain.InvalidStateError{Status: booking.Status,
			Msg: fmt.Sprintf("cannot cancel booking with status %s", booking.Status)}
	}
	utils.LogEvent(s.RequestID, "booking", "cancel", fmt.Sprintf("booking_id=%d", bookingID))

	if booking.WorkerID != nil {
		if worker, werr := s.WorkerRepo.GetByID(*booking.WorkerID); werr == nil {
			s.notifier().Dispatch(notify.Message{
				Recipient: worker.UserID,
				Title:     "Booking Cancelled",
				Body:      fmt.Sprintf("Booking #%d (%s) was cancelled by the customer.", bookingID, booking.ServiceName),
				Category:  models.NotifyBookingStatus,
				RequestID: s.RequestID,
			})
		}
	}
	s.notifyAdmins("Booking Cancelled",
		fmt.Sprintf("Booking #%d (%s) was cancelled by the customer.", bookingID, booking.ServiceName))

	return s.BookingRepo.GetByID(bookingID)
}

// Suggest records an admin's reschedule proposal. The booking's own date
// and slot stay untouched until the customer responds; the customer is
// notified to review.
func (s BookingService) Suggest(actor domain.Actor, bookingID int64, date, timeSlot string) (models.Booking, error) {
	if !actor.IsAdmin() {
		return models.Booking{}, domain.ForbiddenError{Msg: "only admins can suggest a new time"}
	}
	if strings.TrimSpace(date) == "" || strings.TrimSpace(timeSlot) == "" {
		return models.Booking{}, domain.ValidationError{Field: "suggestion", Msg: "both suggested_date and suggested_time are required"}
	}
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	if _, err := s.BookingRepo.Suggest(bookingID, strings.TrimSpace(date), strings.TrimSpace(timeSlot)); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "suggest", fmt.Sprintf("booking_id=%d date=%s", bookingID, date))

	s.notifier().Dispatch(notify.Message{
		Recipient: booking.UserID,
		Title:     "New Service Time Suggested",
		Body: fmt.Sprintf("Your %s service has been delayed. New suggested date: %s, time: %s. Please review and respond.",
			booking.ServiceName, date, timeSlot),
		Category:  models.NotifyBookingStatus,
		RequestID: s.RequestID,
	})
	return s.BookingRepo.GetByID(bookingID)
}

// Respond handles the customer's answer to an outstanding reschedule
// proposal: accept moves the proposal into the actual slot and returns the
// booking to ASSIGNED; cancel ends the booking.
func (s BookingService) Respond(actor domain.Actor, bookingID int64, action domain.RescheduleAction) (models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.UserID != actor.UserID {
		return models.Booking{}, domain.ForbiddenError{Msg: "not your booking"}
	}
	if !booking.HasSuggestion() {
		return models.Booking{}, domain.NoSuggestionError{BookingID: bookingID}
	}

	switch action {
	case domain.RescheduleAccept:
		ok, err := s.BookingRepo.AcceptSuggestion(bookingID, actor.UserID)
		if err != nil {
			return models.Booking{}, domain.InternalError{Err: err}
		}
		if !ok {
			return models.Booking{}, domain.NoSuggestionError{BookingID: bookingID}
		}
		updated, err := s.BookingRepo.GetByID(bookingID)
		if err != nil {
			return models.Booking{}, err
		}
		utils.LogEvent(s.RequestID, "booking", "reschedule_accept", fmt.Sprintf("booking_id=%d", bookingID))
		s.notifyAdmins("User Accepted New Service Time",
			fmt.Sprintf("The customer accepted the new date/time for booking #%d (%s). Updated to %s at %s.",
				bookingID, updated.ServiceName, updated.Date, updated.TimeSlot))
		s.notifyWorker(updated, "Service Time Updated",
			fmt.Sprintf("The service time for booking #%d (%s) has been updated to %s at %s.",
				bookingID, updated.ServiceName, updated.Date, updated.TimeSlot))
		return updated, nil

	case domain.RescheduleCancel:
		ok, err := s.BookingRepo.CancelSuggestion(bookingID, actor.UserID)
		if err != nil {
			return models.Booking{}, domain.InternalError{Err: err}
		}
		if !ok {
			return models.Booking{}, domain.NoSuggestionError{BookingID: bookingID}
		}
		utils.LogEvent(s.RequestID, "booking", "reschedule_cancel", fmt.Sprintf("booking_id=%d", bookingID))
		s.notifyAdmins("User Cancelled Delayed Service",
			fmt.Sprintf("The customer cancelled the delayed service for booking #%d (%s).", bookingID, booking.ServiceName))
		s.notifyWorker(booking, "Service Cancelled",
			fmt.Sprintf("The service for booking #%d (%s) has been cancelled by the customer.", bookingID, booking.ServiceName))
		return s.BookingRepo.GetByID(bookingID)

	default:
		return models.Booking{}, domain.ValidationError{Field: "action", Msg: `use "accept" or "cancel"`}
	}
}

func (s BookingService) notifyWorker(booking models.Booking, title, body string) {
	if booking.WorkerID == nil {
		return
	}
	worker, err := s.WorkerRepo.GetByID(*booking.WorkerID)
	if err != nil {
		utils.LogEventError(s.RequestID, "booking", "notify_worker", "worker lookup failed: "+err.Error())
		return
	}
	s.notifier().Dispatch(notify.Message{
		Recipient: worker.UserID,
		Title:     title,
		Body:      body,
		Category:  models.NotifyBookingStatus,
		RequestID: s.RequestID,
	})
}

// MarkRated flips is_rated once the external rating store has recorded a
// review. COMPLETED is the expected status by convention, not a gate.
func (s BookingService) MarkRated(actor domain.Actor, bookingID int64) (models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.UserID != actor.UserID {
		return models.Booking{}, domain.ForbiddenError{Msg: "not your booking"}
	}

	ok, err := s.BookingRepo.MarkRated(bookingID, actor.UserID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Booking{}, domain.ValidationError{Field: "rating", Msg: "booking already rated"}
	}
	return s.BookingRepo.GetByID(bookingID)
}

// Delete is the administrative removal path.
func (s BookingService) Delete(actor domain.Actor, bookingID int64) error {
	if !actor.IsAdmin() {
		return domain.ForbiddenError{Msg: "only admins can delete bookings"}
	}
	if err := s.BookingRepo.Delete(bookingID); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "delete", fmt.Sprintf("booking_id=%d", bookingID))
	return nil
}
