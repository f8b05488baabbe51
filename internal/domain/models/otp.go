package models

import "time"

// OTP is the one-time code gating completion of a booking. At most one
// unverified code exists per booking; issuing a new one supersedes it in
// place.
type OTP struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"bookingId"`
	Code       string    `json:"-"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}
