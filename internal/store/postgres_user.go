package store

import (
	"context"

	"github.com/google/uuid"

	"meetings-api/internal/model"
)

func (p *Postgres) CreateUser(ctx context.Context, u *model.User) error {
	return p.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name) VALUES ($1,$2,$3)
		 RETURNING id, email, name`,
		uuid.New().String(), u.Email, u.Name,
	).Scan(&u.ID, &u.Email, &u.Name)
}

// UpsertUserByEmail leaves an existing row untouched and loads it into u.
func (p *Postgres) UpsertUserByEmail(ctx context.Context, u *model.User) error {
	return p.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name) VALUES ($1,$2,$3)
		 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		 RETURNING id, email, name`,
		uuid.New().String(), u.Email, u.Name,
	).Scan(&u.ID, &u.Email, &u.Name)
}

func (p *Postgres) ListUsers(ctx context.Context) ([]model.UserWithMeetings, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, email, name FROM users ORDER BY created_at, id`)
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

	meetings, err := p.meetings(ctx, `ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return groupMeetings(users, meetings), nil
}

func (p *Postgres) GetUser(ctx context.Context, id string) (*model.UserWithMeetings, error) {
	out := &model.UserWithMeetings{}
	err := p.pool.QueryRow(ctx,
		`SELECT id, email, name FROM users WHERE id = $1`, id,
	).Scan(&out.ID, &out.Email, &out.Name)
	if err != nil {
		return nil, notFound(err)
	}

	out.Meetings, err = p.meetings(ctx, `WHERE user_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, err
	}
	return out, nil
}
