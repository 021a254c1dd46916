package models

import (
	"testing"
	"time"

	"github.com/kickit-app/kickit/internal/config"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpFormValidate(t *testing.T) {
	valid := SignUpForm{
		Username:        "ada",
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}

	tests := []struct {
		name    string
		mutate  func(f *SignUpForm)
		message string
	}{
		{name: "valid", mutate: func(*SignUpForm) {}},
		{
			name:    "mismatch",
			mutate:  func(f *SignUpForm) { f.ConfirmPassword = "secret2" },
			message: kickit.MsgPasswordMismatch,
		},
		{
			name: "mismatch wins over length",
			mutate: func(f *SignUpForm) {
				f.Password = "abc"
				f.ConfirmPassword = "abd"
			},
			message: kickit.MsgPasswordMismatch,
		},
		{
			name: "too short",
			mutate: func(f *SignUpForm) {
				f.Password = "abcde"
				f.ConfirmPassword = "abcde"
			},
			message: kickit.MsgPasswordTooShort,
		},
		{
			name:    "missing username",
			mutate:  func(f *SignUpForm) { f.Username = "   " },
			message: kickit.MsgMissingFields,
		},
		{
			name:    "missing email",
			mutate:  func(f *SignUpForm) { f.Email = "" },
			message: kickit.MsgMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			err := form.Validate()
			if tt.message == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, kickit.IsKind(err, kickit.KindValidation))
			assert.Equal(t, tt.message, kickit.Message(err, ""))
		})
	}
}

func TestSignUpFormRequest(t *testing.T) {
	form := SignUpForm{Username: " ada ", Name: "Ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	require.NoError(t, form.Validate())
	assert.Equal(t, kickit.SignupRequest{
		Username: "ada",
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret1",
	}, form.Request())
}

func TestSignInFormValidate(t *testing.T) {
	form := SignInForm{Username: " ada ", Password: "pw"}
	require.NoError(t, form.Validate())
	assert.Equal(t, kickit.Credentials{Username: "ada", Password: "pw"}, form.Credentials())

	form = SignInForm{Username: "ada"}
	assert.Equal(t, kickit.MsgMissingFields, kickit.Message(form.Validate(), ""))
}

func TestKickFormInput(t *testing.T) {
	form := KickForm{
		Title:      "  Visit Kyoto ",
		Location:   "Japan",
		Category:   "Travel",
		TargetDate: "2027-04-01",
		Status:     "Open",
	}
	input, err := form.Input()
	require.NoError(t, err)
	assert.Equal(t, "Visit Kyoto", *input.Title)
	assert.Equal(t, "Japan", *input.Location)
	assert.Equal(t, "", *input.Description)
	assert.Equal(t, kickit.CategoryTravel, *input.Category)
	assert.Equal(t, "2027-04-01", input.TargetDate.String())
	assert.Equal(t, kickit.StatusOpen, *input.Status)
}

func TestKickFormDefaults(t *testing.T) {
	form := KickForm{Title: "Learn Go"}
	input, err := form.Input()
	require.NoError(t, err)
	assert.Equal(t, kickit.DefaultCategory, *input.Category)
	assert.Equal(t, kickit.StatusOpen, *input.Status)
	assert.True(t, input.TargetDate.IsZero())

	assert.Equal(t, string(kickit.CategoryTravel), NewKickForm().Category)
}

func TestKickFormValidation(t *testing.T) {
	tests := []struct {
		name string
		form KickForm
	}{
		{name: "blank title", form: KickForm{Title: "   "}},
		{name: "unknown category", form: KickForm{Title: "x", Category: "Cooking"}},
		{name: "unknown status", form: KickForm{Title: "x", Status: "Done"}},
		{name: "bad date", form: KickForm{Title: "x", TargetDate: "01/04/2027"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Input()
			assert.True(t, kickit.IsKind(err, kickit.KindValidation))
		})
	}
}

func TestKickFormPastDateAccepted(t *testing.T) {
	form := KickForm{Title: "Old plan", TargetDate: "2001-01-01"}
	_, err := form.Input()
	assert.NoError(t, err)
}

func TestKickFormFrom(t *testing.T) {
	date, err := kickit.ParseDate("2027-04-01")
	require.NoError(t, err)
	form := KickFormFrom(kickit.Kick{
		Title:      "Visit Kyoto",
		Category:   kickit.CategoryAdventure,
		TargetDate: date,
		Status:     kickit.StatusCompleted,
	})
	assert.Equal(t, "Visit Kyoto", form.Title)
	assert.Equal(t, "Adventure", form.Category)
	assert.Equal(t, "2027-04-01", form.TargetDate)
	assert.Equal(t, "Completed", form.Status)
}

func TestMinTargetDate(t *testing.T) {
	now := time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-15", MinTargetDate(now))
}

func TestCommentFormValidate(t *testing.T) {
	form := CommentForm{Text: "  nice  "}
	require.NoError(t, form.Validate())
	assert.Equal(t, "nice", form.Text)

	form = CommentForm{Text: " \n\t "}
	assert.True(t, kickit.IsKind(form.Validate(), kickit.KindValidation))
}

func TestToggleFormCurrent(t *testing.T) {
	status, err := ToggleForm{Status: "Open"}.Current()
	require.NoError(t, err)
	assert.Equal(t, kickit.StatusCompleted, status.Next())

	_, err = ToggleForm{Status: "bogus"}.Current()
	assert.Error(t, err)
}

func TestToKickView(t *testing.T) {
	cfg := &config.GravatarConfig{Enabled: false}
	kick := kickit.Kick{
		ID:     "k1",
		Title:  "Visit Kyoto",
		Status: kickit.StatusCompleted,
		Author: &kickit.Author{User: kickit.User{ID: "u1", Username: "ada"}},
		Comments: []kickit.Comment{
			{ID: "c1", Text: "mine", Author: &kickit.Author{User: kickit.User{ID: "u1"}}},
			{ID: "c2", Text: "theirs", Author: &kickit.Author{User: kickit.User{ID: "u2", Name: "Grace"}}},
			{ID: "c3", Text: "ghost"},
		},
	}

	view := ToKickView(kick, "u1", cfg)
	assert.True(t, view.Owned)
	assert.True(t, view.Completed)
	assert.Equal(t, "ada", view.Author.Name)
	require.Len(t, view.CommentViews, 3)
	assert.True(t, view.CommentViews[0].Owned)
	assert.False(t, view.CommentViews[1].Owned)
	assert.Equal(t, "Grace", view.CommentViews[1].Author.Name)
	assert.Equal(t, "Unknown", view.CommentViews[2].Author.Name)

	view = ToKickView(kick, "u2", cfg)
	assert.False(t, view.Owned)

	view = ToKickView(kickit.Kick{ID: "k2"}, "", cfg)
	assert.False(t, view.Owned)
	assert.Equal(t, "Unknown", view.Author.Name)

	view = ToKickView(kickit.Kick{ID: "k2"}, "u1", cfg)
	assert.True(t, view.Owned)
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]kickit.Kick{
		{Status: kickit.StatusOpen},
		{Status: kickit.StatusCompleted},
		{Status: kickit.StatusCompleted},
	})
	assert.Equal(t, Summary{Total: 3, Completed: 2, Open: 1}, summary)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestViewer(t *testing.T) {
	assert.Nil(t, NewViewer(kickit.User{}, false, nil))
	var anonymous *Viewer
	assert.Empty(t, anonymous.UserID())

	v := NewViewer(kickit.User{ID: "u1", Username: "ada"}, true, nil)
	require.NotNil(t, v)
	assert.Equal(t, "u1", v.UserID())
	assert.Equal(t, "A", v.Avatar.Initials)
}
