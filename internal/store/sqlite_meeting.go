package store

import (
	"context"

	"github.com/google/uuid"

	"meetings-api/internal/model"
)

const liteMeetingWithUser = `
	SELECT m.id, m.title, m.description, m.start_time, m.end_time, m.location, m.user_id,
	       u.id, u.email, u.name
	FROM meetings m JOIN users u ON u.id = m.user_id`

func scanLiteMeeting(r row, m *model.Meeting, extra ...any) error {
	var start, end string
	dest := append([]any{&m.ID, &m.Title, &m.Description, &start, &end, &m.Location, &m.UserID}, extra...)
	if err := r.Scan(dest...); err != nil {
		return err
	}
	var err error
	if m.StartTime, err = parseTime(start); err != nil {
		return err
	}
	m.EndTime, err = parseTime(end)
	return err
}

func scanLiteMeetingWithUser(r row) (model.MeetingWithUser, error) {
	var m model.MeetingWithUser
	err := scanLiteMeeting(r, &m.Meeting, &m.User.ID, &m.User.Email, &m.User.Name)
	return m, err
}

func (s *SQLite) meetings(ctx context.Context, clause string, args ...any) ([]model.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, start_time, end_time, location, user_id
		 FROM meetings `+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Meeting{}
	for rows.Next() {
		var m model.Meeting
		if err := scanLiteMeeting(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLite) ListMeetings(ctx context.Context) ([]model.MeetingWithUser, error) {
	rows, err := s.db.QueryContext(ctx, liteMeetingWithUser+` ORDER BY m.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MeetingWithUser{}
	for rows.Next() {
		m, err := scanLiteMeetingWithUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLite) GetMeeting(ctx context.Context, id string) (*model.MeetingWithUser, error) {
	m, err := scanLiteMeetingWithUser(s.db.QueryRowContext(ctx, liteMeetingWithUser+` WHERE m.id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *SQLite) CreateMeeting(ctx context.Context, m *model.Meeting) (*model.MeetingWithUser, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meetings (id, title, description, start_time, end_time, location, user_id)
		 VALUES (?,?,?,?,?,?,?)`,
		id, m.Title, m.Description, formatTime(m.StartTime), formatTime(m.EndTime), m.Location, m.UserID,
	)
	if err != nil {
		return nil, err
	}
	out, err := s.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	*m = out.Meeting
	return out, nil
}
