package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"checkin-backend/models"
)

// Memory keeps everything in maps behind one mutex. It backs the server
// when DATASTORE=memory and the handler tests; the mutex is this
// datastore's atomic read-modify-write, so the check-in transition has
// the same at-most-once behavior as the Postgres transaction.
type Memory struct {
	mu           sync.Mutex
	events       map[string]*models.Event
	participants map[string]*models.Participant
	logs         map[string][]models.CheckInLog
}

func NewMemory() *Memory {
	return &Memory{
		events:       map[string]*models.Event{},
		participants: map[string]*models.Participant{},
		logs:         map[string][]models.CheckInLog{},
	}
}

func (s *Memory) CreateEvent(_ context.Context, name string, date time.Time, location string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := &models.Event{
		ID:        uuid.NewString(),
		Name:      name,
		Date:      date,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}
	s.events[ev.ID] = ev
	return copyEvent(ev), nil
}

func (s *Memory) ListEvents(_ context.Context) ([]models.EventWithStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := []models.EventWithStats{}
	for _, ev := range s.events {
		stats := models.EventWithStats{Event: *ev}
		for _, p := range s.participants {
			if p.EventID != ev.ID {
				continue
			}
			stats.TotalParticipants++
			if p.CheckedIn {
				stats.CheckedInCount++
			}
		}
		events = append(events, stats)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})
	return events, nil
}

func (s *Memory) CreateParticipant(_ context.Context, eventID, name, email, company, qrToken string) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	for _, p := range s.participants {
		if p.EventID == eventID && p.Email == email {
			return nil, ErrDuplicateParticipant
		}
	}

	p := &models.Participant{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Name:      name,
		Email:     email,
		QRToken:   qrToken,
		CreatedAt: time.Now().UTC(),
	}
	if company != "" {
		p.Company = &company
	}
	s.participants[p.ID] = p

	out := copyParticipant(p)
	out.Event = copyEvent(ev)
	return out, nil
}

func (s *Memory) ListParticipants(_ context.Context, eventID string) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants := []models.Participant{}
	for _, p := range s.participants {
		if eventID != "" && p.EventID != eventID {
			continue
		}
		out := copyParticipant(p)
		out.Event = copyEvent(s.events[p.EventID])
		out.CheckInLogs = append([]models.CheckInLog{}, s.logs[p.ID]...)
		participants = append(participants, *out)
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].CreatedAt.After(participants[j].CreatedAt)
	})
	return participants, nil
}

func (s *Memory) GetParticipant(_ context.Context, id string) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[id]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return copyParticipant(p), nil
}

func (s *Memory) CheckIn(_ context.Context, qrToken, deviceInfo string) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p *models.Participant
	for _, candidate := range s.participants {
		if candidate.QRToken == qrToken {
			p = candidate
			break
		}
	}
	if p == nil {
		return nil, ErrParticipantNotFound
	}
	if p.CheckedIn {
		already := &AlreadyCheckedInError{Name: p.Name, Email: p.Email}
		if p.CheckedInAt != nil {
			already.CheckedInAt = *p.CheckedInAt
		}
		return nil, already
	}

	now := time.Now().UTC()
	p.CheckedIn = true
	p.CheckedInAt = &now

	log := models.CheckInLog{
		ID:            uuid.NewString(),
		ParticipantID: p.ID,
		CreatedAt:     now,
	}
	if deviceInfo != "" {
		log.DeviceInfo = &deviceInfo
	}
	s.logs[p.ID] = append(s.logs[p.ID], log)

	out := copyParticipant(p)
	out.Event = copyEvent(s.events[p.EventID])
	return out, nil
}

func (s *Memory) EventStats(_ context.Context, eventID string) (models.CheckInStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, checkedIn := 0, 0
	for _, p := range s.participants {
		if p.EventID != eventID {
			continue
		}
		total++
		if p.CheckedIn {
			checkedIn++
		}
	}
	return buildStats(total, checkedIn), nil
}

func (s *Memory) Ping(_ context.Context) error { return nil }

func (s *Memory) Close() {}

func copyEvent(ev *models.Event) *models.Event {
	if ev == nil {
		return nil
	}
	out := *ev
	return &out
}

func copyParticipant(p *models.Participant) *models.Participant {
	out := *p
	if p.CheckedInAt != nil {
		at := *p.CheckedInAt
		out.CheckedInAt = &at
	}
	return &out
}
