package models

import (
	"time"
)

type Event struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Date      time.Time `json:"date" db:"date"`
	Location  string    `json:"location" db:"location"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// EventWithStats is the list-view shape: the event plus attendance counts.
type EventWithStats struct {
	Event
	TotalParticipants int `json:"totalParticipants"`
	CheckedInCount    int `json:"checkedInCount"`
}

type CreateEventRequest struct {
	Name     string `json:"name" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Location string `json:"location" binding:"required"`
}
