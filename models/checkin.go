package models

import (
	"time"
)

// CheckInLog is an append-only audit record: one row per successful check-in.
type CheckInLog struct {
	ID            string    `json:"id" db:"id"`
	ParticipantID string    `json:"participantId" db:"participant_id"`
	DeviceInfo    *string   `json:"deviceInfo,omitempty" db:"device_info"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

type CheckInRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"deviceInfo"`
}

type CheckInStats struct {
	Total        int `json:"total"`
	CheckedIn    int `json:"checkedIn"`
	NotCheckedIn int `json:"notCheckedIn"`
	CheckInRate  int `json:"checkInRate"`
}
