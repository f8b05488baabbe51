package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeservice/internal/http/middleware"
	"homeservice/internal/services"
)

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{RequestID: middleware.GetRequestID(c)}
}

type paymentRequest struct {
	BookingID     int64  `json:"booking_id"`
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id"`
}

// ProcessPayment settles a booking and completes it on success.
func ProcessPayment(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	var req paymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	payment, err := paymentService(c).Process(actor, req.BookingID, req.PaymentMethod, req.TransactionID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment processed successfully",
		"payment": payment,
	})
}

// PaymentDetails returns the settlement record for a booking.
func PaymentDetails(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	payment, err := paymentService(c).Details(actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// PaymentReceipt streams the settlement receipt as a PDF download.
func PaymentReceipt(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	svc := services.ReceiptService{
		Payments:  paymentService(c),
		RequestID: middleware.GetRequestID(c),
	}
	data, filename, err := svc.GenerateReceipt(actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
