package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"meetings-api/internal/model"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Store is the persistence handle shared by every request handler.
// Implementations are safe for concurrent use.
type Store interface {
	Driver() Driver
	Ping(ctx context.Context) error
	Close()
	Migrate(ctx context.Context) error

	ListUsers(ctx context.Context) ([]model.UserWithMeetings, error)
	GetUser(ctx context.Context, id string) (*model.UserWithMeetings, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpsertUserByEmail(ctx context.Context, u *model.User) error

	ListMeetings(ctx context.Context) ([]model.MeetingWithUser, error)
	GetMeeting(ctx context.Context, id string) (*model.MeetingWithUser, error)
	CreateMeeting(ctx context.Context, m *model.Meeting) (*model.MeetingWithUser, error)
}

// DetectDriver picks a driver from the shape of a connection string.
func DetectDriver(url string) (Driver, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(url, "sqlite:"),
		strings.HasPrefix(url, "file:"),
		strings.HasPrefix(url, ":memory:"),
		strings.HasSuffix(url, ".db"):
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("unrecognized database url %q", redact(url))
}

// Open connects to the store named by url and verifies it is reachable.
func Open(ctx context.Context, url string) (Store, error) {
	driver, err := DetectDriver(url)
	if err != nil {
		return nil, err
	}
	if driver == DriverPostgres {
		pg, err := OpenPostgres(ctx, url)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	lite, err := OpenSQLite(ctx, url)
	if err != nil {
		return nil, err
	}
	return lite, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// redact hides credentials in a connection string before it reaches a log line.
func redact(url string) string {
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}

// groupMeetings attaches meetings to their users, keeping user order.
func groupMeetings(users []model.User, meetings []model.Meeting) []model.UserWithMeetings {
	byUser := make(map[string][]model.Meeting, len(users))
	for _, m := range meetings {
		byUser[m.UserID] = append(byUser[m.UserID], m)
	}
	out := make([]model.UserWithMeetings, 0, len(users))
	for _, u := range users {
		ms := byUser[u.ID]
		if ms == nil {
			ms = []model.Meeting{}
		}
		out = append(out, model.UserWithMeetings{User: u, Meetings: ms})
	}
	return out
}
