package store

import (
	"context"

	"github.com/google/uuid"

	"meetings-api/internal/model"
)

func (s *SQLite) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.QueryRowContext(ctx,
		`INSERT INTO users (id, email, name) VALUES (?,?,?)
		 RETURNING id, email, name`,
		uuid.New().String(), u.Email, u.Name,
	).Scan(&u.ID, &u.Email, &u.Name)
}

func (s *SQLite) UpsertUserByEmail(ctx context.Context, u *model.User) error {
	return s.db.QueryRowContext(ctx,
		`INSERT INTO users (id, email, name) VALUES (?,?,?)
		 ON CONFLICT (email) DO UPDATE SET email = excluded.email
		 RETURNING id, email, name`,
		uuid.New().String(), u.Email, u.Name,
	).Scan(&u.ID, &u.Email, &u.Name)
}

func (s *SQLite) ListUsers(ctx context.Context) ([]model.UserWithMeetings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, email, name FROM users ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	meetings, err := s.meetings(ctx, `ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	return groupMeetings(users, meetings), nil
}

func (s *SQLite) GetUser(ctx context.Context, id string) (*model.UserWithMeetings, error) {
	out := &model.UserWithMeetings{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name FROM users WHERE id = ?`, id,
	).Scan(&out.ID, &out.Email, &out.Name)
	if err != nil {
		return nil, notFound(err)
	}

	out.Meetings, err = s.meetings(ctx, `WHERE user_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, err
	}
	return out, nil
}
