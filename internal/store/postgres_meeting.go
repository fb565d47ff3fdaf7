package store

import (
	"context"

	"github.com/google/uuid"

	"meetings-api/internal/model"
)

const pgMeetingWithUser = `
	SELECT m.id, m.title, m.description, m.start_time, m.end_time, m.location, m.user_id,
	       u.id, u.email, u.name
	FROM meetings m JOIN users u ON u.id = m.user_id`

type row interface {
	Scan(dest ...any) error
}

func scanPgMeetingWithUser(r row) (model.MeetingWithUser, error) {
	var m model.MeetingWithUser
	err := r.Scan(&m.ID, &m.Title, &m.Description, &m.StartTime, &m.EndTime, &m.Location, &m.UserID,
		&m.User.ID, &m.User.Email, &m.User.Name)
	m.StartTime = m.StartTime.UTC()
	m.EndTime = m.EndTime.UTC()
	return m, err
}

// meetings loads bare meetings; clause is appended after FROM.
func (p *Postgres) meetings(ctx context.Context, clause string, args ...any) ([]model.Meeting, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, title, description, start_time, end_time, location, user_id
		 FROM meetings `+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Meeting{}
	for rows.Next() {
		var m model.Meeting
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.StartTime, &m.EndTime, &m.Location, &m.UserID); err != nil {
			return nil, err
		}
		m.StartTime = m.StartTime.UTC()
		m.EndTime = m.EndTime.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *Postgres) ListMeetings(ctx context.Context) ([]model.MeetingWithUser, error) {
	rows, err := p.pool.Query(ctx, pgMeetingWithUser+` ORDER BY m.created_at, m.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MeetingWithUser{}
	for rows.Next() {
		m, err := scanPgMeetingWithUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *Postgres) GetMeeting(ctx context.Context, id string) (*model.MeetingWithUser, error) {
	m, err := scanPgMeetingWithUser(p.pool.QueryRow(ctx, pgMeetingWithUser+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// CreateMeeting inserts m and returns it joined with its user in one round trip.
// A missing user surfaces as the foreign key violation.
func (p *Postgres) CreateMeeting(ctx context.Context, m *model.Meeting) (*model.MeetingWithUser, error) {
	out, err := scanPgMeetingWithUser(p.pool.QueryRow(ctx,
		`WITH m AS (
			INSERT INTO meetings (id, title, description, start_time, end_time, location, user_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id, title, description, start_time, end_time, location, user_id
		)
		SELECT m.id, m.title, m.description, m.start_time, m.end_time, m.location, m.user_id,
		       u.id, u.email, u.name
		FROM m JOIN users u ON u.id = m.user_id`,
		uuid.New().String(), m.Title, m.Description, m.StartTime.UTC(), m.EndTime.UTC(), m.Location, m.UserID,
	))
	if err != nil {
		return nil, err
	}
	*m = out.Meeting
	return &out, nil
}
