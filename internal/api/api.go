package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/kickit-app/kickit/internal/api/auth"
	"github.com/kickit-app/kickit/internal/api/handler"
	"github.com/kickit-app/kickit/internal/cache"
	"github.com/kickit-app/kickit/internal/config"
	"github.com/kickit-app/kickit/internal/gravatar"
	"github.com/kickit-app/kickit/internal/static"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/kickit-app/kickit/web/templates"
)

// SessionCookieName is the name of the signed session cookie.
const SessionCookieName = "kickit_session"

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	client    *kickit.Client
	kickCache *cache.KickCache
}

// New builds the web server. kickCache may be nil to disable caching.
func New(cfg *config.Config, client *kickit.Client, kickCache *cache.KickCache, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.ValidateServer(); err != nil {
		return nil, err
	}
	if err := gravatar.Validate(cfg.Gravatar); err != nil {
		return nil, err
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := templates.Parse()
	if err != nil {
		return nil, err
	}

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery(), RequestID(), RequestLogger())
	ginEngine.SetHTMLTemplate(tmpl)

	s := &Server{
		cfg:       cfg,
		ginEngine: ginEngine,
		client:    client,
		kickCache: kickCache,
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(SessionCookieName, store))
}

func (s *Server) setupRoutes() error {
	staticFS, err := static.FS()
	if err != nil {
		return err
	}

	h := handler.New(s.client, s.kickCache, s.cfg)

	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	s.ginEngine.GET("/healthz", h.Healthz)
	s.ginEngine.StaticFS("/static", http.FS(staticFS))

	// everything below needs the session cookie
	s.setupSession()
	s.ginEngine.NoRoute(h.NotFound)

	s.ginEngine.GET("/", h.Home)
	s.ginEngine.GET(auth.SignInPath, auth.RedirectIfAuthenticated(), h.SignInPage)
	s.ginEngine.POST(auth.SignInPath, h.SignIn)
	s.ginEngine.GET("/signup", auth.RedirectIfAuthenticated(), h.SignUpPage)
	s.ginEngine.POST("/signup", h.SignUp)
	s.ginEngine.POST("/signout", h.SignOut)

	protected := s.ginEngine.Group("/")
	protected.Use(auth.RequireAuth(h.Loading))

	protected.GET(auth.DashboardPath, h.Dashboard)
	protected.POST("/kicks", h.CreateKick)
	protected.GET("/kicks/:kickId", h.Kick)
	protected.POST("/kicks/:kickId", h.UpdateKick)
	protected.POST("/kicks/:kickId/delete", h.DeleteKick)
	protected.POST("/kicks/:kickId/toggle", h.ToggleKick)
	protected.POST("/kicks/:kickId/comments", h.AddComment)
	protected.POST("/kicks/:kickId/comments/:commentId", h.UpdateComment)
	protected.POST("/kicks/:kickId/comments/:commentId/delete", h.DeleteComment)

	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting web server", "listen", s.cfg.Listen, "server_url", s.cfg.ServerURL, "api_url", s.cfg.APIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return <-errCh
}
