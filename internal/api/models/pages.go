package models

import (
	"errors"

	"github.com/kickit-app/kickit/pkg/kickit"
)

// Page carries what every page needs.
type Page struct {
	Title  string
	User   *Viewer
	Error  string
	Notice string
	// ErrorCode is the machine readable kind of Error, if known.
	ErrorCode string
}

// Fail shows err on the page. The code is set only for API errors.
func (p *Page) Fail(err error, fallback string) {
	p.Error = kickit.Message(err, fallback)
	p.ErrorCode = ""
	var apiErr *kickit.Error
	if errors.As(err, &apiErr) {
		p.ErrorCode = apiErr.Code()
	}
}

// SignInPage is the data of the sign-in page.
type SignInPage struct {
	Page
	Username string
}

// SignUpPage is the data of the sign-up page. Passwords are never echoed.
type SignUpPage struct {
	Page
	Username string
	Name     string
	Email    string
}

// FormMode tells the dashboard which kick form to show, if any.
type FormMode string

const (
	FormNone   FormMode = ""
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// KickFormView is a kick form together with the choices it offers.
type KickFormView struct {
	Mode       FormMode
	KickID     string
	Values     KickForm
	Categories []kickit.Category
	Statuses   []kickit.Status
	MinDate    string
	Redirect   string
}

// DashboardPage is the data of the dashboard.
type DashboardPage struct {
	Page
	Kicks    []KickView
	Summary  Summary
	Form     *KickFormView
	Deleting *KickView
}

// KickPage is the data of the kick details page.
type KickPage struct {
	Page
	Kick *KickView
	Form *KickFormView
}
