package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"checkin-backend/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	date TIMESTAMPTZ NOT NULL,
	location TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS participants (
	id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	company TEXT,
	qr_token TEXT NOT NULL,
	checked_in BOOLEAN NOT NULL DEFAULT false,
	checked_in_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (event_id, email)
);

CREATE INDEX IF NOT EXISTS idx_participants_qr_token ON participants (qr_token);

CREATE TABLE IF NOT EXISTS check_in_logs (
	id UUID PRIMARY KEY,
	participant_id UUID NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
	device_info TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

// EnsureSchema creates the tables on first run. Idempotent.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Postgres) CreateEvent(ctx context.Context, name string, date time.Time, location string) (*models.Event, error) {
	query := `
		INSERT INTO events (id, name, date, location, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, date, location, created_at
	`

	var ev models.Event
	err := s.pool.QueryRow(ctx, query, uuid.NewString(), name, date, location, time.Now().UTC()).Scan(
		&ev.ID,
		&ev.Name,
		&ev.Date,
		&ev.Location,
		&ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Postgres) ListEvents(ctx context.Context) ([]models.EventWithStats, error) {
	query := `
		SELECT e.id, e.name, e.date, e.location, e.created_at,
		       COUNT(p.id), COUNT(p.id) FILTER (WHERE p.checked_in)
		FROM events e
		LEFT JOIN participants p ON p.event_id = e.id
		GROUP BY e.id
		ORDER BY e.date DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.EventWithStats{}
	for rows.Next() {
		var ev models.EventWithStats
		err := rows.Scan(
			&ev.ID,
			&ev.Name,
			&ev.Date,
			&ev.Location,
			&ev.CreatedAt,
			&ev.TotalParticipants,
			&ev.CheckedInCount,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Postgres) CreateParticipant(ctx context.Context, eventID, name, email, company, qrToken string) (*models.Participant, error) {
	query := `
		INSERT INTO participants (id, event_id, name, email, company, qr_token, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING id, event_id, name, email, company, qr_token, checked_in, checked_in_at, created_at
	`

	var p models.Participant
	err := s.pool.QueryRow(ctx, query, uuid.NewString(), eventID, name, email, company, qrToken, time.Now().UTC()).Scan(
		&p.ID,
		&p.EventID,
		&p.Name,
		&p.Email,
		&p.Company,
		&p.QRToken,
		&p.CheckedIn,
		&p.CheckedInAt,
		&p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation on (event_id, email)
				return nil, ErrDuplicateParticipant
			case "23503": // foreign_key_violation on event_id
				return nil, ErrEventNotFound
			}
		}
		return nil, err
	}

	ev, err := s.getEvent(ctx, p.EventID)
	if err != nil {
		return nil, err
	}
	p.Event = ev
	return &p, nil
}

func (s *Postgres) getEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var ev models.Event
	err := s.pool.QueryRow(ctx, `SELECT id, name, date, location, created_at FROM events WHERE id = $1`, eventID).Scan(
		&ev.ID,
		&ev.Name,
		&ev.Date,
		&ev.Location,
		&ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Postgres) ListParticipants(ctx context.Context, eventID string) ([]models.Participant, error) {
	query := `
		SELECT p.id, p.event_id, p.name, p.email, p.company, p.qr_token, p.checked_in, p.checked_in_at, p.created_at,
		       e.id, e.name, e.date, e.location, e.created_at
		FROM participants p
		JOIN events e ON e.id = p.event_id
		WHERE $1 = '' OR p.event_id::text = $1
		ORDER BY p.created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []models.Participant{}
	ids := []string{}
	for rows.Next() {
		var p models.Participant
		var ev models.Event
		err := rows.Scan(
			&p.ID,
			&p.EventID,
			&p.Name,
			&p.Email,
			&p.Company,
			&p.QRToken,
			&p.CheckedIn,
			&p.CheckedInAt,
			&p.CreatedAt,
			&ev.ID,
			&ev.Name,
			&ev.Date,
			&ev.Location,
			&ev.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.Event = &ev
		p.CheckInLogs = []models.CheckInLog{}
		participants = append(participants, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return participants, nil
	}

	logs, err := s.logsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range participants {
		participants[i].CheckInLogs = logs[participants[i].ID]
	}
	return participants, nil
}

func (s *Postgres) logsFor(ctx context.Context, participantIDs []string) (map[string][]models.CheckInLog, error) {
	query := `
		SELECT id, participant_id, device_info, created_at
		FROM check_in_logs
		WHERE participant_id::text = ANY($1)
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, participantIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := map[string][]models.CheckInLog{}
	for rows.Next() {
		var l models.CheckInLog
		if err := rows.Scan(&l.ID, &l.ParticipantID, &l.DeviceInfo, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs[l.ParticipantID] = append(logs[l.ParticipantID], l)
	}
	return logs, rows.Err()
}

func (s *Postgres) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	query := `
		SELECT id, event_id, name, email, company, qr_token, checked_in, checked_in_at, created_at
		FROM participants
		WHERE id::text = $1
	`

	var p models.Participant
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.EventID,
		&p.Name,
		&p.Email,
		&p.Company,
		&p.QRToken,
		&p.CheckedIn,
		&p.CheckedInAt,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CheckIn runs the transition as one transaction: a conditional update
// that only fires while checked_in is still false, plus the log insert.
// Two concurrent calls with the same token serialize on the row lock;
// the loser sees zero rows updated and reports the earlier check-in.
func (s *Postgres) CheckIn(ctx context.Context, qrToken, deviceInfo string) (*models.Participant, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE participants
		SET checked_in = true, checked_in_at = $2
		WHERE qr_token = $1 AND checked_in = false
		RETURNING id, event_id, name, email, company, qr_token, checked_in, checked_in_at, created_at
	`

	now := time.Now().UTC()
	var p models.Participant
	err = tx.QueryRow(ctx, updateQuery, qrToken, now).Scan(
		&p.ID,
		&p.EventID,
		&p.Name,
		&p.Email,
		&p.Company,
		&p.QRToken,
		&p.CheckedIn,
		&p.CheckedInAt,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// Unknown token, or a check-in that already happened.
		var already AlreadyCheckedInError
		var at *time.Time
		err = tx.QueryRow(ctx, `SELECT name, email, checked_in_at FROM participants WHERE qr_token = $1`, qrToken).
			Scan(&already.Name, &already.Email, &at)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		if err != nil {
			return nil, err
		}
		if at != nil {
			already.CheckedInAt = *at
		}
		return nil, &already
	}
	if err != nil {
		return nil, err
	}

	logQuery := `
		INSERT INTO check_in_logs (id, participant_id, device_info, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)
	`
	if _, err := tx.Exec(ctx, logQuery, uuid.NewString(), p.ID, deviceInfo, now); err != nil {
		return nil, err
	}

	var ev models.Event
	err = tx.QueryRow(ctx, `SELECT id, name, date, location, created_at FROM events WHERE id = $1`, p.EventID).Scan(
		&ev.ID,
		&ev.Name,
		&ev.Date,
		&ev.Location,
		&ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Event = &ev

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Postgres) EventStats(ctx context.Context, eventID string) (models.CheckInStats, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE checked_in)
		FROM participants
		WHERE event_id::text = $1
	`

	var total, checkedIn int
	if err := s.pool.QueryRow(ctx, query, eventID).Scan(&total, &checkedIn); err != nil {
		return models.CheckInStats{}, err
	}
	return buildStats(total, checkedIn), nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Postgres) Close() {
	s.pool.Close()
}
