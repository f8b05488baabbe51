package models

import "time"

// Notification categories, matching the delivery payload contract.
const (
	NotifyBookingStatus    = "BOOKING_STATUS"
	NotifyAssignment       = "ASSIGNMENT"
	NotifyOTP              = "OTP"
	NotifyPayment          = "PAYMENT"
	NotifySystem           = "SYSTEM"
	NotifyBookingRejection = "BOOKING_REJECTION"
)

// Notification is a write-once delivery record owned by the sink.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  string    `json:"notificationType"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
