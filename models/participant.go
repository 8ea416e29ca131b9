package models

import (
	"time"
)

type Participant struct {
	ID          string       `json:"id" db:"id"`
	EventID     string       `json:"eventId" db:"event_id"`
	Name        string       `json:"name" db:"name"`
	Email       string       `json:"email" db:"email"`
	Company     *string      `json:"company,omitempty" db:"company"`
	QRToken     string       `json:"qrToken" db:"qr_token"`
	CheckedIn   bool         `json:"checkedIn" db:"checked_in"`
	CheckedInAt *time.Time   `json:"checkedInAt,omitempty" db:"checked_in_at"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	Event       *Event       `json:"event,omitempty"`
	CheckInLogs []CheckInLog `json:"checkInLogs,omitempty"`
}

type CreateParticipantRequest struct {
	EventID string `json:"eventId" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company"`
}
