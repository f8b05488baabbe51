package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homeservice/internal/domain"
	"homeservice/internal/http/middleware"
	"homeservice/internal/services"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{RequestID: middleware.GetRequestID(c)}
}

type createBookingRequest struct {
	ServiceID int64  `json:"service_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Address   string `json:"address"`
}

func CreateBooking(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).Create(actor, req.ServiceID, req.Date, req.TimeSlot, req.Address)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func GetBooking(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService(c).Get(actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func ListMyBookings(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	bookings, err := bookingService(c).ListMine(actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func ListAllBookings(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	bookings, err := bookingService(c).ListAll(actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func CancelBooking(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService(c).Cancel(actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func DeleteBooking(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if err := bookingService(c).Delete(actor, id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type suggestRequest struct {
	SuggestedDate string `json:"suggested_date"`
	SuggestedTime string `json:"suggested_time"`
}

// SuggestReschedule records an admin's new-slot proposal for a delayed
// booking.
func SuggestReschedule(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req suggestRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).Suggest(actor, id, req.SuggestedDate, req.SuggestedTime)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

type respondRequest struct {
	Action string `json:"action"`
}

// RespondToReschedule handles the customer's accept/cancel answer.
func RespondToReschedule(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req respondRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).Respond(actor, id, domain.RescheduleAction(req.Action))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// MarkBookingRated flips the is_rated flag after the external rating store
// has accepted a review.
func MarkBookingRated(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService(c).MarkRated(actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
