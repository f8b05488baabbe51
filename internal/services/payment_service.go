package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
	"homeservice/internal/notify"
	"homeservice/internal/repositories"
	"homeservice/internal/utils"
)

// PaymentService settles bookings: commission split, at-most-once
// settlement recording, and completion. The gateway is stubbed; every
// accepted settlement succeeds.
type PaymentService struct {
	BookingRepo  repositories.BookingRepository
	PaymentRepo  repositories.PaymentRepository
	ServiceRepo  repositories.ServiceRepository
	WorkerRepo   repositories.WorkerRepository
	IdentityRepo repositories.IdentityRepository
	Notify       *notify.Dispatcher
	RequestID    string
}

func (s PaymentService) notifier() *notify.Dispatcher {
	if s.Notify != nil {
		return s.Notify
	}
	return notify.Shared()
}

func newTransactionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "txn_" + hex[:12]
}

// Process records the settlement for a booking and completes it. Duplicate
// submissions are rejected with AlreadyPaid; under concurrency the unique
// booking-settlement relationship guarantees exactly one SUCCESS row.
func (s PaymentService) Process(actor domain.Actor, bookingID int64, method, txnID string) (models.Payment, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Payment{}, err
	}
	if booking.UserID != actor.UserID && !actor.IsAdmin() {
		return models.Payment{}, domain.ForbiddenError{Msg: "not your booking"}
	}

	if existing, found, err := s.PaymentRepo.GetByBookingID(bookingID); err != nil {
		return models.Payment{}, domain.InternalError{Err: err}
	} else if found && existing.Status == models.PaymentSuccess {
		return models.Payment{}, domain.AlreadyPaidError{BookingID: bookingID}
	}

	if !booking.Status.Payable() {
		return models.Payment{}, domain.InvalidStateError{Status: booking.Status,
			Msg: "cannot process payment for this booking status"}
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = "CARD"
	}
	if !models.ValidPaymentMethod(method) {
		return models.Payment{}, domain.ValidationError{Field: "payment_method", Msg: "invalid payment method"}
	}
	if strings.TrimSpace(txnID) == "" {
		txnID = newTransactionID()
	}

	service, err := s.ServiceRepo.GetByID(booking.ServiceID)
	if err != nil {
		return models.Payment{}, err
	}
	commission, provider := utils.SplitCommission(service.Price)

	payment := models.Payment{
		BookingID:       bookingID,
		TotalAmount:     service.Price,
		AdminCommission: commission,
		ProviderAmount:  provider,
		Status:          models.PaymentSuccess,
		Method:          method,
		TransactionID:   txnID,
	}
	if err := s.PaymentRepo.Record(payment); err != nil {
		return models.Payment{}, err
	}

	ok, err := s.BookingRepo.Complete(bookingID)
	if err != nil {
		return models.Payment{}, domain.InternalError{Err: err}
	}
	if !ok {
		// The settlement is durable; the status moved out of a payable
		// state between the read and the write. Subsequent retries see
		// AlreadyPaid.
		return models.Payment{}, domain.InvalidStateError{Status: booking.Status,
			Msg: "booking left a payable status during settlement"}
	}
	utils.LogEvent(s.RequestID, "payment", "process",
		fmt.Sprintf("booking_id=%d txn=%s total=%s", bookingID, txnID, payment.TotalAmount.StringFixed(2)))

	s.notifier().Dispatch(notify.Message{
		Recipient: booking.UserID,
		Title:     "Payment Successful",
		Body: fmt.Sprintf("Payment of %s processed successfully for booking #%d.",
			payment.TotalAmount.StringFixed(2), bookingID),
		Category:  models.NotifyPayment,
		RequestID: s.RequestID,
	})
	if booking.WorkerID != nil {
		if worker, werr := s.WorkerRepo.GetByID(*booking.WorkerID); werr == nil {
			s.notifier().Dispatch(notify.Message{
				Recipient: worker.UserID,
				Title:     fmt.Sprintf("Payment Received for Booking #%d", bookingID),
				Body: fmt.Sprintf("Payment of %s has been processed for your service.",
					payment.ProviderAmount.StringFixed(2)),
				Category:  models.NotifyPayment,
				RequestID: s.RequestID,
			})
		}
	}
	if admins, aerr := s.IdentityRepo.ListAdmins(); aerr == nil {
		s.notifier().Fanout(s.RequestID, admins,
			fmt.Sprintf("Payment Received for Booking #%d", bookingID),
			fmt.Sprintf("Payment of %s has been processed for booking #%d (%s). Admin commission: %s, provider amount: %s.",
				payment.TotalAmount.StringFixed(2), bookingID, booking.ServiceName,
				payment.AdminCommission.StringFixed(2), payment.ProviderAmount.StringFixed(2)),
			models.NotifyPayment)
	} else {
		utils.LogEventError(s.RequestID, "payment", "notify_admins", "admin lookup failed: "+aerr.Error())
	}

	return payment, nil
}

// Details returns the settlement for a booking the caller may read.
func (s PaymentService) Details(actor domain.Actor, bookingID int64) (models.Payment, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Payment{}, err
	}
	if booking.UserID != actor.UserID && !actor.IsAdmin() {
		return models.Payment{}, domain.ForbiddenError{Msg: "not your booking"}
	}
	payment, found, err := s.PaymentRepo.GetByBookingID(bookingID)
	if err != nil {
		return models.Payment{}, domain.InternalError{Err: err}
	}
	if !found {
		return models.Payment{}, domain.NotFoundError{Resource: "payment"}
	}
	return payment, nil
}
