package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-backend/models"
	"checkin-backend/token"
)

func seedParticipant(t *testing.T, s *Memory) *models.Participant {
	t.Helper()
	ctx := context.Background()

	ev, err := s.CreateEvent(ctx, "Launch", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), "Tokyo")
	require.NoError(t, err)

	p, err := s.CreateParticipant(ctx, ev.ID, "Alice", "alice@example.com", "Acme", token.Generate(ev.ID, "alice@example.com"))
	require.NoError(t, err)
	return p
}

func TestCheckInOnce(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	p := seedParticipant(t, s)

	checked, err := s.CheckIn(ctx, p.QRToken, "door-1")
	require.NoError(t, err)
	assert.True(t, checked.CheckedIn)
	require.NotNil(t, checked.CheckedInAt)
	require.NotNil(t, checked.Event)
	assert.Equal(t, "Launch", checked.Event.Name)

	list, err := s.ListParticipants(ctx, p.EventID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].CheckInLogs, 1)
	require.NotNil(t, list[0].CheckInLogs[0].DeviceInfo)
	assert.Equal(t, "door-1", *list[0].CheckInLogs[0].DeviceInfo)
}

func TestCheckInTwice(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	p := seedParticipant(t, s)

	first, err := s.CheckIn(ctx, p.QRToken, "")
	require.NoError(t, err)

	_, err = s.CheckIn(ctx, p.QRToken, "")
	var already *AlreadyCheckedInError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, "Alice", already.Name)
	assert.Equal(t, "alice@example.com", already.Email)
	assert.Equal(t, *first.CheckedInAt, already.CheckedInAt)

	list, err := s.ListParticipants(ctx, p.EventID)
	require.NoError(t, err)
	assert.Len(t, list[0].CheckInLogs, 1)
}

func TestCheckInConcurrent(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	p := seedParticipant(t, s)

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CheckIn(ctx, p.QRToken, "scanner")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var already *AlreadyCheckedInError
		require.ErrorAs(t, err, &already)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	list, err := s.ListParticipants(ctx, p.EventID)
	require.NoError(t, err)
	assert.Len(t, list[0].CheckInLogs, 1)
}

func TestCheckInUnknownToken(t *testing.T) {
	s := NewMemory()
	seedParticipant(t, s)

	_, err := s.CheckIn(context.Background(), token.Generate("nope", "nope@example.com"), "")
	assert.True(t, errors.Is(err, ErrParticipantNotFound))
}

func TestDuplicateParticipant(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	p := seedParticipant(t, s)

	_, err := s.CreateParticipant(ctx, p.EventID, "Alice Again", "alice@example.com", "", token.Generate(p.EventID, "alice@example.com"))
	assert.True(t, errors.Is(err, ErrDuplicateParticipant))

	// Same email under a different event is a separate registration.
	other, err := s.CreateEvent(ctx, "Afterparty", time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC), "Tokyo")
	require.NoError(t, err)
	_, err = s.CreateParticipant(ctx, other.ID, "Alice", "alice@example.com", "", token.Generate(other.ID, "alice@example.com"))
	assert.NoError(t, err)
}

func TestCreateParticipantUnknownEvent(t *testing.T) {
	s := NewMemory()

	_, err := s.CreateParticipant(context.Background(), "missing", "Bob", "bob@example.com", "", token.Generate("missing", "bob@example.com"))
	assert.True(t, errors.Is(err, ErrEventNotFound))
}

func TestEventStats(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	ev, err := s.CreateEvent(ctx, "Launch", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), "Tokyo")
	require.NoError(t, err)

	empty, err := s.EventStats(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CheckInStats{}, empty)

	tokens := []string{}
	for i := 0; i < 10; i++ {
		email := fmt.Sprintf("p%d@example.com", i)
		p, err := s.CreateParticipant(ctx, ev.ID, "P", email, "", token.Generate(ev.ID, email))
		require.NoError(t, err)
		tokens = append(tokens, p.QRToken)
	}
	for i := 0; i < 3; i++ {
		_, err := s.CheckIn(ctx, tokens[i], "")
		require.NoError(t, err)
	}

	stats, err := s.EventStats(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CheckInStats{Total: 10, CheckedIn: 3, NotCheckedIn: 7, CheckInRate: 30}, stats)
}

func TestListEventsCounts(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	p := seedParticipant(t, s)

	_, err := s.CheckIn(ctx, p.QRToken, "")
	require.NoError(t, err)

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].TotalParticipants)
	assert.Equal(t, 1, events[0].CheckedInCount)
}
