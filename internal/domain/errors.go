package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// InvalidStateError signals an illegal transition from the booking's
// current status: the conditional write observed a status other than the
// transition's precondition.
type InvalidStateError struct {
	Status Status
	Msg    string
	Err    error
}

func (e InvalidStateError) Error() string {
	switch {
	case e.Msg != "" && e.Status != "":
		return fmt.Sprintf("invalid state %s: %s", e.Status, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Status != "":
		return fmt.Sprintf("invalid state %s", e.Status)
	default:
		return "invalid booking state"
	}
}

func (e InvalidStateError) Unwrap() error { return e.Err }

// ForbiddenError signals the wrong actor or role for an operation.
type ForbiddenError struct {
	Msg string
	Err error
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

func (e ForbiddenError) Unwrap() error { return e.Err }

// NotApprovedError rejects an assignment to a worker awaiting approval.
type NotApprovedError struct {
	WorkerID int64
}

func (e NotApprovedError) Error() string {
	return fmt.Sprintf("worker %d is not approved", e.WorkerID)
}

// NotQualifiedError rejects an assignment when the service is outside the
// worker's qualified set.
type NotQualifiedError struct {
	WorkerID  int64
	ServiceID int64
}

func (e NotQualifiedError) Error() string {
	return fmt.Sprintf("worker %d is not qualified for service %d", e.WorkerID, e.ServiceID)
}

// InvalidOtpError covers code mismatch and already-verified codes alike.
type InvalidOtpError struct {
	BookingID int64
}

func (e InvalidOtpError) Error() string {
	return "invalid or already verified OTP"
}

// AlreadyPaidError rejects a duplicate settlement for a booking that
// already carries a SUCCESS payment.
type AlreadyPaidError struct {
	BookingID int64
}

func (e AlreadyPaidError) Error() string {
	return fmt.Sprintf("payment already processed for booking %d", e.BookingID)
}

// NoSuggestionError rejects a reschedule response when no proposal is
// outstanding.
type NoSuggestionError struct {
	BookingID int64
}

func (e NoSuggestionError) Error() string {
	return "no reschedule suggestion found for this booking"
}

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsNotApproved(err error) bool {
	var target NotApprovedError
	return errors.As(err, &target)
}

func IsNotQualified(err error) bool {
	var target NotQualifiedError
	return errors.As(err, &target)
}

func IsInvalidOtp(err error) bool {
	var target InvalidOtpError
	return errors.As(err, &target)
}

func IsAlreadyPaid(err error) bool {
	var target AlreadyPaidError
	return errors.As(err, &target)
}

func IsNoSuggestion(err error) bool {
	var target NoSuggestionError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}
