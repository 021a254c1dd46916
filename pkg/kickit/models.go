package kickit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// User represents a KickIt account as returned by the API.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// DisplayName returns the best available human readable name for the user.
func (u User) DisplayName() string {
	switch {
	case u.Username != "":
		return u.Username
	case u.Name != "":
		return u.Name
	default:
		return "Unknown"
	}
}

// Author references the user that created a kick or a comment.
// The API returns either a populated user object or a bare user id.
type Author struct {
	User
}

func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		a.ID = id
		return nil
	}
	return json.Unmarshal(data, &a.User)
}

// Category groups kicks on the dashboard.
type Category string

const (
	CategoryTravel    Category = "Travel"
	CategoryAdventure Category = "Adventure"
	CategorySkills    Category = "Skills"
	CategoryPersonal  Category = "Personal"
	CategoryCareer    Category = "Career"
	CategoryOther     Category = "Other"
)

// DefaultCategory is preselected for new kicks.
const DefaultCategory = CategoryTravel

// Categories lists the valid categories in display order.
var Categories = []Category{
	CategoryTravel,
	CategoryAdventure,
	CategorySkills,
	CategoryPersonal,
	CategoryCareer,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status is the completion state of a kick.
type Status string

const (
	StatusOpen      Status = "Open"
	StatusCompleted Status = "Completed"
)

// Statuses lists the valid statuses in display order.
var Statuses = []Status{StatusOpen, StatusCompleted}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusCompleted
}

// Next returns the status a toggle moves to.
// Anything that is not Open is treated as Completed and reopens.
func (s Status) Next() Status {
	if s == StatusOpen {
		return StatusCompleted
	}
	return StatusOpen
}

// DateLayout is the wire format of target dates sent to the API.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
// The zero value means "not set".
type Date struct {
	time.Time
}

// NewDate returns the date of t in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// String returns the date as YYYY-MM-DD or an empty string when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, *s); err == nil {
		*d = NewDate(t)
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Comment is a note attached to a single kick.
type Comment struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Kick is a bucket list item.
type Kick struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Category    Category  `json:"category,omitempty"`
	TargetDate  Date      `json:"targetDate"`
	Status      Status    `json:"status"`
	Author      *Author   `json:"author,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Comments    []Comment `json:"comments"`
}

// OwnedBy reports whether the kick was created by the given user id.
func (k Kick) OwnedBy(userID string) bool {
	return userID != "" && k.Author != nil && k.Author.ID == userID
}

// OwnedBy reports whether the comment was written by the given user id.
func (c Comment) OwnedBy(userID string) bool {
	return userID != "" && c.Author != nil && c.Author.ID == userID
}

// KickInput carries the fields of a create or update call.
// Nil fields are left out of the request body, so an update only
// touches what was set.
type KickInput struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Category    *Category `json:"category,omitempty"`
	TargetDate  *Date     `json:"targetDate,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the body of POST /auth/signin.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by both sign-up and sign-in.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type commentRequest struct {
	Text string `json:"text"`
}
