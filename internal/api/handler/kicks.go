package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kickit-app/kickit/internal/api/auth"
	"github.com/kickit-app/kickit/internal/api/models"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/kickit-app/kickit/web/templates"
	"github.com/samber/lo"
)

func kickURL(kickID string) string {
	return "/kicks/" + url.PathEscape(kickID)
}

func (h *Handler) formView(mode models.FormMode, kickID string, values models.KickForm, redirect string) *models.KickFormView {
	return &models.KickFormView{
		Mode:       mode,
		KickID:     kickID,
		Values:     values,
		Categories: kickit.Categories,
		Statuses:   kickit.Statuses,
		MinDate:    models.MinTargetDate(time.Now()),
		Redirect:   redirect,
	}
}

// loadDashboard builds the dashboard around the kick list. fresh skips the
// cache so a plain page load always shows the server's list.
func (h *Handler) loadDashboard(c *gin.Context, fresh bool) (models.DashboardPage, error) {
	ctx := c.Request.Context()
	user, _ := auth.User(c)
	data := models.DashboardPage{Page: h.page(c, "Dashboard")}

	svc := h.service(c)
	load := svc.List
	if fresh {
		load = svc.Reload
	}
	list, err := load(ctx)
	if err != nil {
		logFailure(ctx, err)
		if data.Error == "" {
			data.Fail(err, "Failed to load kicks")
		}
		list = []kickit.Kick{}
	}

	data.Kicks = models.ToKickViews(list, user.ID, h.gravatar)
	data.Summary = models.Summarize(list)
	return data, err
}

// Dashboard lists the kicks of the signed-in user. The query selects an
// overlay: new=1 opens the create form, edit=<id> the edit form and
// delete=<id> the delete confirmation.
func (h *Handler) Dashboard(c *gin.Context) {
	creating, editing, deleting := c.Query("new"), c.Query("edit"), c.Query("delete")
	data, err := h.loadDashboard(c, creating == "" && editing == "" && deleting == "")

	findOwned := func(id string) (models.KickView, bool) {
		view, ok := lo.Find(data.Kicks, func(k models.KickView) bool { return k.ID == id })
		if ok && !view.Owned {
			return models.KickView{}, false
		}
		return view, ok
	}

	switch {
	case creating != "":
		data.Form = h.formView(models.FormCreate, "", models.NewKickForm(), auth.DashboardPath)
	case editing != "":
		if view, ok := findOwned(editing); ok {
			data.Form = h.formView(models.FormEdit, view.ID, models.KickFormFrom(view.Kick), auth.DashboardPath)
		} else if err == nil {
			data.Error = "Kick not found"
		}
	case deleting != "":
		if view, ok := findOwned(deleting); ok {
			data.Deleting = &view
		} else if err == nil {
			data.Error = "Kick not found"
		}
	}

	h.render(c, http.StatusOK, templates.PageDashboard, data)
}

// dashboardFormFailed re-renders the dashboard with the submitted form so
// nothing the user typed is lost.
func (h *Handler) dashboardFormFailed(c *gin.Context, err error, fallback string, form *models.KickFormView) {
	logFailure(c.Request.Context(), err)
	data, _ := h.loadDashboard(c, false)
	data.Fail(err, fallback)
	data.Form = form
	h.render(c, statusFor(err), templates.PageDashboard, data)
}

func (h *Handler) CreateKick(c *gin.Context) {
	form := models.NewKickForm()
	err := bindForm(c, &form)

	var input kickit.KickInput
	if err == nil {
		input, err = form.Input()
	}
	if err == nil {
		_, err = h.service(c).Create(c.Request.Context(), input)
	}
	if err != nil {
		h.dashboardFormFailed(c, err, "Failed to create kick",
			h.formView(models.FormCreate, "", form, auth.DashboardPath))
		return
	}
	c.Redirect(http.StatusSeeOther, auth.DashboardPath)
}

// loadKick builds the details page of a kick.
func (h *Handler) loadKick(c *gin.Context, kickID string) (models.KickPage, error) {
	user, _ := auth.User(c)
	kick, err := h.service(c).Get(c.Request.Context(), kickID)
	if err != nil {
		return models.KickPage{}, err
	}
	view := models.ToKickView(*kick, user.ID, h.gravatar)
	return models.KickPage{Page: h.page(c, kick.Title), Kick: &view}, nil
}

func (h *Handler) kickError(c *gin.Context, err error) {
	logFailure(c.Request.Context(), err)
	page := h.page(c, "")
	page.Fail(err, "Failed to load kick")
	page.Title, page.Error = page.Error, ""
	h.render(c, statusFor(err), templates.PageError, page)
}

// Kick shows a single kick with its comments. edit=1 opens the edit form and
// editComment=<id> switches that comment into edit mode.
func (h *Handler) Kick(c *gin.Context) {
	data, err := h.loadKick(c, c.Param("kickId"))
	if err != nil {
		h.kickError(c, err)
		return
	}

	if editing := c.Query("editComment"); editing != "" {
		for i := range data.Kick.CommentViews {
			if data.Kick.CommentViews[i].ID == editing && data.Kick.CommentViews[i].Owned {
				data.Kick.CommentViews[i].Editing = true
			}
		}
	}
	if c.Query("edit") != "" && data.Kick.Owned {
		data.Form = h.formView(models.FormEdit, data.Kick.ID, models.KickFormFrom(data.Kick.Kick), kickURL(data.Kick.ID))
	}
	h.render(c, http.StatusOK, templates.PageKick, data)
}

func (h *Handler) UpdateKick(c *gin.Context) {
	kickID := c.Param("kickId")
	var form models.KickForm
	err := bindForm(c, &form)
	target := h.localRedirect(c.PostForm("redirect"), auth.DashboardPath)

	var input kickit.KickInput
	if err == nil {
		input, err = form.Input()
	}
	if err == nil {
		_, err = h.service(c).Update(c.Request.Context(), kickID, input)
	}
	if err == nil {
		c.Redirect(http.StatusSeeOther, target)
		return
	}

	view := h.formView(models.FormEdit, kickID, form, target)
	if target != kickURL(kickID) {
		h.dashboardFormFailed(c, err, "Failed to update kick", view)
		return
	}

	logFailure(c.Request.Context(), err)
	data, loadErr := h.loadKick(c, kickID)
	if loadErr != nil {
		h.kickError(c, loadErr)
		return
	}
	data.Fail(err, "Failed to update kick")
	data.Form = view
	h.render(c, statusFor(err), templates.PageKick, data)
}

func (h *Handler) DeleteKick(c *gin.Context) {
	if err := h.service(c).Delete(c.Request.Context(), c.Param("kickId")); err != nil {
		h.fail(c, err, "Failed to delete kick", auth.DashboardPath)
		return
	}
	c.Redirect(http.StatusSeeOther, auth.DashboardPath)
}

func (h *Handler) ToggleKick(c *gin.Context) {
	var form models.ToggleForm
	err := bindForm(c, &form)
	target := h.localRedirect(form.Redirect, auth.DashboardPath)

	var current kickit.Status
	if err == nil {
		current, err = form.Current()
	}
	if err == nil {
		_, err = h.service(c).ToggleStatus(c.Request.Context(), c.Param("kickId"), current)
	}
	if err != nil {
		h.fail(c, err, "Failed to update status", target)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}
