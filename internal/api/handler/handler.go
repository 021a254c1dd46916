package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/kickit-app/kickit/internal/api/auth"
	"github.com/kickit-app/kickit/internal/api/models"
	"github.com/kickit-app/kickit/internal/cache"
	"github.com/kickit-app/kickit/internal/config"
	"github.com/kickit-app/kickit/internal/kicks"
	"github.com/kickit-app/kickit/internal/version"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/kickit-app/kickit/web/templates"
)

// Flash keys used for the post/redirect/get cycle.
const (
	flashError  = "error"
	flashNotice = "notice"
)

type Handler struct {
	client    *kickit.Client
	kickCache *cache.KickCache
	gravatar  *config.GravatarConfig
	serverURL *url.URL
}

func New(client *kickit.Client, kickCache *cache.KickCache, cfg *config.Config) *Handler {
	h := &Handler{
		client:    client,
		kickCache: kickCache,
		gravatar:  cfg.Gravatar,
	}
	if cfg.ServerURL != "" {
		u, err := url.Parse(cfg.ServerURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			log.Warn("ignoring invalid server url", "server_url", cfg.ServerURL)
		} else {
			h.serverURL = u
		}
	}
	return h
}

// page builds the data shared by every page and consumes pending flashes.
func (h *Handler) page(c *gin.Context, title string) models.Page {
	user, ok := auth.Store(c).User()
	p := models.Page{
		Title: title,
		User:  models.NewViewer(user, ok, h.gravatar),
	}

	session := sessions.Default(c)
	errs := session.Flashes(flashError)
	notices := session.Flashes(flashNotice)
	if len(errs) > 0 || len(notices) > 0 {
		if err := session.Save(); err != nil {
			log.Error("failed to clear flashes", "error", err)
		}
	}
	p.Error = joinFlashes(errs)
	p.Notice = joinFlashes(notices)
	return p
}

func joinFlashes(flashes []any) string {
	msgs := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok && s != "" {
			msgs = append(msgs, s)
		}
	}
	return strings.Join(msgs, " ")
}

func (h *Handler) flash(c *gin.Context, key, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, key)
	if err := session.Save(); err != nil {
		log.Error("failed to save flash", "error", err)
	}
}

// fail reports err on the next page and redirects there.
func (h *Handler) fail(c *gin.Context, err error, fallback, target string) {
	logFailure(c.Request.Context(), err)
	h.flash(c, flashError, kickit.Message(err, fallback))
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) render(c *gin.Context, status int, name string, data any) {
	c.Header("Cache-Control", "no-store")
	c.HTML(status, name, data)
}

// service returns the kick service of the signed-in user.
func (h *Handler) service(c *gin.Context) *kicks.Service {
	store := auth.Store(c)
	user, _ := auth.User(c)
	return kicks.New(h.client.Kicks(store), h.kickCache, user.ID)
}

func logFailure(ctx context.Context, err error) {
	var apiErr *kickit.Error
	if !errors.As(err, &apiErr) {
		log.Error("request failed", "error", err, "request_id", kickit.RequestIDFromContext(ctx))
		return
	}
	switch apiErr.Kind {
	case kickit.KindValidation:
	case kickit.KindNetwork, kickit.KindServer, kickit.KindDecode, kickit.KindUnknown:
		log.Error("api call failed", "op", apiErr.Op, "status", apiErr.StatusCode, "error", apiErr, "request_id", kickit.RequestIDFromContext(ctx))
	default:
		log.Debug("api call rejected", "op", apiErr.Op, "status", apiErr.StatusCode, "kind", apiErr.Kind)
	}
}

// statusFor picks the HTTP status of a page re-rendered after err.
func statusFor(err error) int {
	var apiErr *kickit.Error
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch {
	case apiErr.Kind == kickit.KindValidation:
		return http.StatusUnprocessableEntity
	case apiErr.Kind == kickit.KindNetwork, apiErr.StatusCode >= 500:
		return http.StatusBadGateway
	case apiErr.StatusCode >= 400:
		return apiErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}

// localRedirect only follows local paths. Absolute URLs on the public
// server URL are reduced to their path.
func (h *Handler) localRedirect(target, fallback string) string {
	if h.serverURL != nil {
		if u, err := url.Parse(target); err == nil && u.IsAbs() &&
			u.Scheme == h.serverURL.Scheme && u.Host == h.serverURL.Host {
			target = u.RequestURI()
		}
	}
	if target == "" || !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

// bindForm binds the posted form. A body that cannot be bound is reported
// as a bad request, like any other rejected input.
func bindForm(c *gin.Context, form any) error {
	if err := c.ShouldBind(form); err != nil {
		log.Debug("failed to bind form", "path", c.FullPath(), "error", err)
		return &kickit.Error{
			Kind:       kickit.KindBadRequest,
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request format",
			Err:        err,
		}
	}
	return nil
}

func (h *Handler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, templates.PageHome, h.page(c, ""))
}

// Loading is rendered while a session cannot be evaluated yet.
func (h *Handler) Loading(c *gin.Context) {
	h.render(c, http.StatusOK, templates.PageLoading, models.Page{Title: "Loading"})
}

func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, templates.PageError, h.page(c, "Page not found"))
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}
