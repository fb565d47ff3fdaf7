package model

import "time"

type User struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// UserWithMeetings is a user plus the meetings that reference it.
type UserWithMeetings struct {
	User
	Meetings []Meeting `json:"meetings"`
}

type Meeting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Location    *string   `json:"location"`
	UserID      string    `json:"userId"`
}

// MeetingWithUser is a meeting plus its owning user.
type MeetingWithUser struct {
	Meeting
	User User `json:"user"`
}
