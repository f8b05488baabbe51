package models

import (
	"time"

	"homeservice/internal/domain"
)

// Booking is a scheduled service engagement. Dates are stored as
// YYYY-MM-DD strings and time slots as either "9:00 AM - 11:00 AM" or
// 24-hour "14:00" forms, matching what customers submit.
type Booking struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"userId"`
	WorkerID      *int64        `json:"workerId,omitempty"`
	ServiceID     int64         `json:"serviceId"`
	ServiceName   string        `json:"serviceName,omitempty"`
	Date          string        `json:"date"`
	TimeSlot      string        `json:"timeSlot"`
	Status        domain.Status `json:"status"`
	Address       string        `json:"address"`
	SuggestedDate *string       `json:"suggestedDate,omitempty"`
	SuggestedTime *string       `json:"suggestedTime,omitempty"`
	IsRated       bool          `json:"isRated"`
	ReachedAt     *time.Time    `json:"reachedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// HasSuggestion reports whether a reschedule proposal is outstanding.
func (b Booking) HasSuggestion() bool {
	return b.SuggestedDate != nil && *b.SuggestedDate != "" &&
		b.SuggestedTime != nil && *b.SuggestedTime != ""
}

// BoundTo reports whether workerID is the booking's bound worker.
func (b Booking) BoundTo(workerID int64) bool {
	return b.WorkerID != nil && *b.WorkerID == workerID
}

// NewBooking is the payload for booking creation.
type NewBooking struct {
	UserID    int64
	ServiceID int64
	Date      string
	TimeSlot  string
	Address   string
}
