package models

import (
	"strings"
	"time"

	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/samber/lo"
)

// SignInForm is posted by the sign-in page.
type SignInForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Validate checks the form before anything is sent to the API.
func (f *SignInForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	if f.Username == "" || f.Password == "" {
		return kickit.NewValidationError(kickit.MsgMissingFields)
	}
	return nil
}

// Credentials returns the API request body.
func (f SignInForm) Credentials() kickit.Credentials {
	return kickit.Credentials{Username: f.Username, Password: f.Password}
}

// SignUpForm is posted by the sign-up page.
type SignUpForm struct {
	Username        string `form:"username"`
	Name            string `form:"name"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

// Validate runs the sign-up checks in the order the user sees them:
// matching passwords first, then the minimum length, then the rest.
func (f *SignUpForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)

	if f.Password != f.ConfirmPassword {
		return kickit.NewValidationError(kickit.MsgPasswordMismatch)
	}
	if len(f.Password) < kickit.MinPasswordLength {
		return kickit.NewValidationError(kickit.MsgPasswordTooShort)
	}
	if f.Username == "" || f.Name == "" || f.Email == "" {
		return kickit.NewValidationError(kickit.MsgMissingFields)
	}
	return nil
}

// Request returns the API request body.
func (f SignUpForm) Request() kickit.SignupRequest {
	return kickit.SignupRequest{
		Username: f.Username,
		Name:     f.Name,
		Email:    f.Email,
		Password: f.Password,
	}
}

// KickForm backs both the create and the edit form.
type KickForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Location    string `form:"location"`
	Category    string `form:"category"`
	TargetDate  string `form:"targetDate"`
	Status      string `form:"status"`
}

// NewKickForm returns the empty create form with the default category.
func NewKickForm() KickForm {
	return KickForm{
		Category: string(kickit.DefaultCategory),
		Status:   string(kickit.StatusOpen),
	}
}

// KickFormFrom prefills the edit form with an existing kick.
func KickFormFrom(k kickit.Kick) KickForm {
	return KickForm{
		Title:       k.Title,
		Description: k.Description,
		Location:    k.Location,
		Category:    string(k.Category),
		TargetDate:  k.TargetDate.String(),
		Status:      string(k.Status),
	}
}

// Input validates the form and converts it into an API request.
// Every field is sent so that clearing an input clears it remotely.
func (f *KickForm) Input() (kickit.KickInput, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	f.TargetDate = strings.TrimSpace(f.TargetDate)

	if f.Title == "" {
		return kickit.KickInput{}, kickit.NewValidationError("Title is required")
	}

	category := kickit.Category(f.Category)
	if f.Category == "" {
		category = kickit.DefaultCategory
	}
	if !category.Valid() {
		return kickit.KickInput{}, kickit.NewValidationError("Please choose a valid category")
	}

	status := kickit.Status(f.Status)
	if f.Status == "" {
		status = kickit.StatusOpen
	}
	if !status.Valid() {
		return kickit.KickInput{}, kickit.NewValidationError("Please choose a valid status")
	}

	date, err := kickit.ParseDate(f.TargetDate)
	if err != nil {
		return kickit.KickInput{}, kickit.NewValidationError("Target date must be a valid date")
	}

	return kickit.KickInput{
		Title:       lo.ToPtr(f.Title),
		Description: lo.ToPtr(f.Description),
		Location:    lo.ToPtr(f.Location),
		Category:    lo.ToPtr(category),
		TargetDate:  lo.ToPtr(date),
		Status:      lo.ToPtr(status),
	}, nil
}

// MinTargetDate is the earliest date offered by the date picker. It is only
// a hint for the browser; past dates from an edit are still accepted.
func MinTargetDate(now time.Time) string {
	return now.Format(kickit.DateLayout)
}

// CommentForm is posted when adding or editing a comment.
type CommentForm struct {
	Text string `form:"text"`
}

// Validate rejects blank comments.
func (f *CommentForm) Validate() error {
	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" {
		return kickit.NewValidationError("Comment cannot be empty")
	}
	return nil
}

// ToggleForm carries the status the kick had when the page was rendered.
type ToggleForm struct {
	Status   string `form:"status"`
	Redirect string `form:"redirect"`
}

// Current returns the status shown to the user when they clicked toggle.
func (f ToggleForm) Current() (kickit.Status, error) {
	status := kickit.Status(f.Status)
	if !status.Valid() {
		return "", kickit.NewValidationError("Please choose a valid status")
	}
	return status, nil
}
