// Package store is the datastore boundary: everything the handlers need
// from persistence, behind one interface so the server can run against
// Postgres or an in-memory map.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"checkin-backend/models"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrDuplicateParticipant = errors.New("participant already registered for this event")
)

// AlreadyCheckedInError carries enough of the participant for the caller
// to display "already checked in at T" instead of a bare error.
type AlreadyCheckedInError struct {
	Name        string
	Email       string
	CheckedInAt time.Time
}

func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("participant %s already checked in at %s", e.Email, e.CheckedInAt.Format(time.RFC3339))
}

type Store interface {
	CreateEvent(ctx context.Context, name string, date time.Time, location string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.EventWithStats, error)

	CreateParticipant(ctx context.Context, eventID, name, email, company, qrToken string) (*models.Participant, error)
	// ListParticipants returns participants newest first, each with its
	// event and check-in logs attached. Empty eventID means no filter.
	ListParticipants(ctx context.Context, eventID string) ([]models.Participant, error)
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)

	// CheckIn resolves the token, enforces at-most-once, and appends the
	// log entry atomically. On success the returned participant carries
	// its parent event. Returns *AlreadyCheckedInError on a repeat.
	CheckIn(ctx context.Context, qrToken, deviceInfo string) (*models.Participant, error)

	EventStats(ctx context.Context, eventID string) (models.CheckInStats, error)

	Ping(ctx context.Context) error
	Close()
}

// buildStats derives the read-side stats from one consistent pair of counts.
func buildStats(total, checkedIn int) models.CheckInStats {
	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(checkedIn) / float64(total) * 100))
	}
	return models.CheckInStats{
		Total:        total,
		CheckedIn:    checkedIn,
		NotCheckedIn: total - checkedIn,
		CheckInRate:  rate,
	}
}
