package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const maxBodyBytes = 1 << 20

type createUserRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

func (req createUserRequest) validate() error {
	if req.Email == nil || strings.TrimSpace(*req.Email) == "" {
		return errors.New("email is required")
	}
	return nil
}

type createMeetingRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *Timestamp `json:"startTime"`
	EndTime     *Timestamp `json:"endTime"`
	Location    *string    `json:"location"`
	UserID      *string    `json:"userId"`
}

func (req createMeetingRequest) validate() error {
	switch {
	case req.Title == nil || strings.TrimSpace(*req.Title) == "":
		return errors.New("title is required")
	case req.StartTime == nil:
		return errors.New("startTime is required")
	case req.EndTime == nil:
		return errors.New("endTime is required")
	case req.UserID == nil || *req.UserID == "":
		return errors.New("userId is required")
	}
	// start after end is accepted as given
	return nil
}

// decodeJSON reads a JSON object body into v. An empty body decodes as {}.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// Timestamp is a point in time read from either a date string or epoch milliseconds.
type Timestamp struct {
	time.Time
}

// zone-less layouts are read as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		ts.Time = t
		return nil
	}
	ms, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid date %s: want a string or epoch milliseconds", b)
	}
	ts.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}
