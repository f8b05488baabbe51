package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
	"homeservice/internal/notify"
	"homeservice/internal/repositories"
	"homeservice/internal/utils"
)

// OtpService issues and verifies the one-time codes gating completion.
type OtpService struct {
	BookingRepo repositories.BookingRepository
	WorkerRepo  repositories.WorkerRepository
	OtpRepo     repositories.OtpRepository
	Notify      *notify.Dispatcher
	RequestID   string

	// CodeFn overrides code generation in tests.
	CodeFn func() (string, error)
}

func (s OtpService) notifier() *notify.Dispatcher {
	if s.Notify != nil {
		return s.Notify
	}
	return notify.Shared()
}

var otpMax = big.NewInt(900000)

// generateCode returns a 6-digit code from a cryptographically secure
// source.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s OtpService) code() (string, error) {
	if s.CodeFn != nil {
		return s.CodeFn()
	}
	return generateCode()
}

func (s OtpService) boundWorker(actor domain.Actor, bookingID int64) (models.Booking, models.WorkerProfile, error) {
	if !actor.IsWorker() {
		return models.Booking{}, models.WorkerProfile{}, domain.ForbiddenError{Msg: "only workers can perform this action"}
	}
	worker, err := s.WorkerRepo.GetByUserID(actor.UserID)
	if err != nil {
		return models.Booking{}, models.WorkerProfile{}, domain.ForbiddenError{Msg: "only workers can perform this action", Err: err}
	}
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, models.WorkerProfile{}, err
	}
	if !booking.BoundTo(worker.ID) {
		return models.Booking{}, models.WorkerProfile{}, domain.ForbiddenError{Msg: "booking is not assigned to you"}
	}
	return booking, worker, nil
}

// Generate issues a fresh code for the booking, superseding any earlier
// unverified one, moves the booking to IN_PROGRESS, and enqueues delivery
// to the customer. The transition commits before delivery is attempted.
func (s OtpService) Generate(actor domain.Actor, bookingID int64) (models.OTP, error) {
	booking, worker, err := s.boundWorker(actor, bookingID)
	if err != nil {
		return models.OTP{}, err
	}

	ok, err := s.BookingRepo.MarkInProgress(bookingID, worker.ID)
	if err != nil {
		return models.OTP{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.OTP{}, domain.InvalidStateError{Status: booking.Status, Msg: "cannot start work on this booking"}
	}

	code, err := s.code()
	if err != nil {
		return models.OTP{}, domain.InternalError{Msg: "otp generation failed", Err: err}
	}
	if err := s.OtpRepo.Upsert(bookingID, code); err != nil {
		return models.OTP{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "otp", "generate", fmt.Sprintf("booking_id=%d worker_id=%d", bookingID, worker.ID))

	s.notifier().Dispatch(notify.Message{
		Recipient: booking.UserID,
		Title:     "OTP Generated for Your Service",
		Body: fmt.Sprintf("Your service for booking #%d is being completed. OTP code: %s. Please share this OTP with the worker to complete the job.",
			bookingID, code),
		Category:  models.NotifyOTP,
		RequestID: s.RequestID,
	})

	return models.OTP{BookingID: bookingID, Code: code}, nil
}

// Verify marks the booking's unverified code as used. Mismatch and
// already-verified both come back as InvalidOtp; a mismatch leaves the
// issued code usable for a retry.
func (s OtpService) Verify(actor domain.Actor, bookingID int64, code string) (models.Booking, error) {
	booking, worker, err := s.boundWorker(actor, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if code == "" {
		return models.Booking{}, domain.ValidationError{Field: "otp_code", Msg: "required"}
	}

	ok, err := s.OtpRepo.Verify(bookingID, code)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Booking{}, domain.InvalidOtpError{BookingID: bookingID}
	}
	utils.LogEvent(s.RequestID, "otp", "verify", fmt.Sprintf("booking_id=%d worker_id=%d", bookingID, worker.ID))

	// Work is confirmed; the booking stays IN_PROGRESS until payment
	// settles it.
	return booking, nil
}
