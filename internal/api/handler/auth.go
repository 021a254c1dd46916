package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kickit-app/kickit/internal/api/auth"
	"github.com/kickit-app/kickit/internal/api/models"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/kickit-app/kickit/web/templates"
)

func (h *Handler) SignInPage(c *gin.Context) {
	h.render(c, http.StatusOK, templates.PageSignIn, models.SignInPage{Page: h.page(c, "Sign In")})
}

func (h *Handler) SignIn(c *gin.Context) {
	var form models.SignInForm
	err := bindForm(c, &form)
	if err == nil {
		err = form.Validate()
	}

	data := models.SignInPage{Page: h.page(c, "Sign In"), Username: form.Username}
	if err != nil {
		data.Fail(err, kickit.MsgMissingFields)
		h.render(c, statusFor(err), templates.PageSignIn, data)
		return
	}

	store := auth.Store(c)
	if _, err := h.client.Auth(store).Signin(c.Request.Context(), form.Credentials()); err != nil {
		logFailure(c.Request.Context(), err)
		data.Fail(err, "Unable to sign in. Please try again.")
		h.render(c, statusFor(err), templates.PageSignIn, data)
		return
	}

	c.Redirect(http.StatusSeeOther, auth.DashboardPath)
}

func (h *Handler) SignUpPage(c *gin.Context) {
	h.render(c, http.StatusOK, templates.PageSignUp, models.SignUpPage{Page: h.page(c, "Sign Up")})
}

func (h *Handler) SignUp(c *gin.Context) {
	var form models.SignUpForm
	bindErr := bindForm(c, &form)

	render := func(err error) {
		data := models.SignUpPage{
			Page:     h.page(c, "Sign Up"),
			Username: form.Username,
			Name:     form.Name,
			Email:    form.Email,
		}
		data.Fail(err, "Unable to sign up. Please try again.")
		h.render(c, statusFor(err), templates.PageSignUp, data)
	}

	if bindErr != nil {
		render(bindErr)
		return
	}
	if err := form.Validate(); err != nil {
		render(err)
		return
	}

	store := auth.Store(c)
	resp, err := h.client.Auth(store).Signup(c.Request.Context(), form.Request())
	if err != nil {
		logFailure(c.Request.Context(), err)
		render(err)
		return
	}

	if resp.Token == "" {
		h.flash(c, flashNotice, "Account created. Please sign in.")
		c.Redirect(http.StatusSeeOther, auth.SignInPath)
		return
	}
	c.Redirect(http.StatusSeeOther, auth.DashboardPath)
}

func (h *Handler) SignOut(c *gin.Context) {
	store := auth.Store(c)
	user, ok := store.User()

	if err := h.client.Auth(store).Signout(); err != nil {
		logFailure(c.Request.Context(), err)
	}
	if ok {
		h.kickCache.Invalidate(c.Request.Context(), user.ID)
	}

	c.Redirect(http.StatusSeeOther, "/")
}
