package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homeservice/internal/domain"
	"homeservice/internal/http/middleware"
	"homeservice/internal/services"
)

type assignWorkerRequest struct {
	WorkerID int64 `json:"worker_id"`
}

// AssignWorker binds an approved, qualified worker to a pending booking
// (admin only).
func AssignWorker(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req assignWorkerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := services.AssignmentService{RequestID: middleware.GetRequestID(c)}
	booking, err := svc.Assign(actor, id, req.WorkerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

type approvalRequest struct {
	Action string `json:"action"` // approve / reject
}

// WorkerApproval flips the approval flag for a worker (admin only).
func WorkerApproval(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req approvalRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	var approved bool
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "approve":
		approved = true
	case "reject":
		approved = false
	default:
		RespondError(c, http.StatusBadRequest, `invalid action, use "approve" or "reject"`, nil)
		return
	}
	svc := services.AssignmentService{RequestID: middleware.GetRequestID(c)}
	if err := svc.SetApproval(actor, id, approved); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker_id": id, "is_approved": approved})
}

// ListWorkerBookings returns the caller's assignment queue (worker only).
func ListWorkerBookings(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	bookings, err := bookingService(c).ListAssigned(actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type decisionRequest struct {
	Decision string `json:"decision"`
}

// DecideBooking records the bound worker's accept/reject response.
func DecideBooking(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req decisionRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).Decide(actor, id, domain.Decision(strings.ToLower(req.Decision)))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// MarkReached records the bound worker's on-time arrival.
func MarkReached(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService(c).MarkReached(actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func otpService(c *gin.Context) services.OtpService {
	return services.OtpService{RequestID: middleware.GetRequestID(c)}
}

// GenerateOtp issues the completion code and moves the booking to
// IN_PROGRESS; delivery to the customer is asynchronous.
func GenerateOtp(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	otp, err := otpService(c).Generate(actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "OTP generated and sent to customer",
		"booking_id": otp.BookingID,
	})
}

type verifyOtpRequest struct {
	BookingID int64  `json:"booking_id"`
	OtpCode   string `json:"otp_code"`
}

// VerifyOtp checks the code the customer shared with the worker. The
// booking stays IN_PROGRESS until payment settles it.
func VerifyOtp(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	var req verifyOtpRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := otpService(c).Verify(actor, req.BookingID, strings.TrimSpace(req.OtpCode))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "OTP verified successfully",
		"booking": booking,
	})
}
