package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberCheckin посещение клуба: открывается при входе, закрывается при выходе.
// Открытым считается посещение без отметки о выходе.
type MemberCheckin struct {
	ID              uuid.UUID  `json:"id"`
	MemberID        uuid.UUID  `json:"member_id"`
	CheckinTime     time.Time  `json:"checkin_time"`
	CheckoutTime    *time.Time `json:"checkout_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
}