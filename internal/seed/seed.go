// Package seed loads a fixed set of sample users and meetings.
//
// Users are upserted by email and survive repeated runs unchanged; meetings
// are inserted unconditionally, so every run adds another copy of them.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"meetings-api/internal/model"
	"meetings-api/internal/store"
)

type sampleMeeting struct {
	owner int // index into sampleUsers
	model.Meeting
}

var sampleUsers = []model.User{
	{Email: "john@example.com", Name: ptr("John Doe")},
	{Email: "jane@example.com", Name: ptr("Jane Smith")},
}

var sampleMeetings = []sampleMeeting{
	{owner: 0, Meeting: model.Meeting{
		Title:       "Team Standup",
		Description: ptr("Daily team sync meeting"),
		StartTime:   time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 11, 1, 9, 30, 0, 0, time.UTC),
		Location:    ptr("Conference Room A"),
	}},
	{owner: 1, Meeting: model.Meeting{
		Title:       "Client Presentation",
		Description: ptr("Q4 results presentation"),
		StartTime:   time.Date(2025, 11, 2, 14, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 11, 2, 15, 30, 0, 0, time.UTC),
		Location:    ptr("Virtual - Zoom"),
	}},
}

func ptr(s string) *string { return &s }

// Result holds what one run wrote.
type Result struct {
	Users    []model.User
	Meetings []model.MeetingWithUser
}

// Run seeds st and stops at the first failure.
func Run(ctx context.Context, st store.Store, log *slog.Logger) (*Result, error) {
	log.Info("seeding database")

	res := &Result{}
	for _, u := range sampleUsers {
		if err := st.UpsertUserByEmail(ctx, &u); err != nil {
			return nil, fmt.Errorf("upsert user %s: %w", u.Email, err)
		}
		res.Users = append(res.Users, u)
	}
	log.Info("users ready", "count", len(res.Users), "ids", userIDs(res.Users))

	for _, sm := range sampleMeetings {
		m := sm.Meeting
		m.UserID = res.Users[sm.owner].ID
		created, err := st.CreateMeeting(ctx, &m)
		if err != nil {
			return nil, fmt.Errorf("create meeting %q: %w", m.Title, err)
		}
		res.Meetings = append(res.Meetings, *created)
	}
	log.Info("meetings created", "count", len(res.Meetings))
	log.Info("seeding completed")
	return res, nil
}

func userIDs(us []model.User) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.ID
	}
	return out
}
