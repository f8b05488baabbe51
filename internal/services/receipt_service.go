package services

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
	"homeservice/internal/utils"
)

// ReceiptService renders a settlement receipt PDF for a paid booking.
type ReceiptService struct {
	Payments  PaymentService
	RequestID string
}

func (s ReceiptService) GenerateReceipt(actor domain.Actor, bookingID int64) ([]byte, string, error) {
	payment, err := s.Payments.Details(actor, bookingID)
	if err != nil {
		return nil, "", err
	}
	booking, err := s.Payments.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "receipt", "generate", fmt.Sprintf("booking_id=%d", bookingID))
	return buildReceiptPDF(booking, payment)
}

func buildReceiptPDF(b models.Booking, p models.Payment) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		pdf.Cell(0, 7, fmt.Sprintf("%-16s: %s", label, value))
		pdf.Ln(7)
	}
	line("Receipt No", fmt.Sprintf("RCP-%d", p.BookingID))
	line("Transaction", p.TransactionID)
	line("Booking", fmt.Sprintf("#%d", b.ID))
	line("Service", b.ServiceName)
	line("Date", b.Date)
	line("Time Slot", b.TimeSlot)
	line("Method", p.Method)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	line("Total", p.TotalAmount.StringFixed(2))
	pdf.SetFont("Helvetica", "", 12)
	line("Platform Fee", p.AdminCommission.StringFixed(2))
	line("Provider Share", p.ProviderAmount.StringFixed(2))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("receipt-booking-%d.pdf", b.ID)
	return buf.Bytes(), filename, nil
}
