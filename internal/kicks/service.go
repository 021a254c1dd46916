// Package kicks reconciles the dashboard with the API: reads go through a
// short lived per-user cache and every mutation drops that cache so the
// next read reloads the authoritative list.
package kicks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/kickit-app/kickit/internal/cache"
	"github.com/kickit-app/kickit/pkg/kickit"
)

// API is the subset of kickit.KickService the service needs.
type API interface {
	List(ctx context.Context) ([]kickit.Kick, error)
	Get(ctx context.Context, kickID string) (*kickit.Kick, error)
	Create(ctx context.Context, input kickit.KickInput) (*kickit.Kick, error)
	Update(ctx context.Context, kickID string, input kickit.KickInput) (*kickit.Kick, error)
	Delete(ctx context.Context, kickID string) error
	ToggleStatus(ctx context.Context, kickID string, current kickit.Status) (*kickit.Kick, error)
	AddComment(ctx context.Context, kickID, text string) (*kickit.Comment, error)
	UpdateComment(ctx context.Context, kickID, commentID, text string) (*kickit.Comment, error)
	DeleteComment(ctx context.Context, kickID, commentID string) error
}

var _ API = (*kickit.KickService)(nil)

// Service serves the kicks of one signed-in user.
type Service struct {
	api    API
	cache  *cache.KickCache
	userID string
}

// New returns a Service for userID. cache may be nil.
func New(api API, c *cache.KickCache, userID string) *Service {
	return &Service{api: api, cache: c, userID: userID}
}

// List returns the kick list, from cache when fresh.
func (s *Service) List(ctx context.Context) ([]kickit.Kick, error) {
	if kicks, ok := s.cache.List(ctx, s.userID); ok {
		log.Debug("kick list served from cache", "user_id", s.userID, "count", len(kicks))
		return kicks, nil
	}

	kicks, err := s.api.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetList(ctx, s.userID, kicks)
	return kicks, nil
}

// Reload drops the cached list and fetches it again.
func (s *Service) Reload(ctx context.Context) ([]kickit.Kick, error) {
	s.cache.Invalidate(ctx, s.userID)
	return s.List(ctx)
}

// Get always asks the API so the details page shows the latest comments.
func (s *Service) Get(ctx context.Context, kickID string) (*kickit.Kick, error) {
	return s.api.Get(ctx, kickID)
}

func (s *Service) Create(ctx context.Context, input kickit.KickInput) (*kickit.Kick, error) {
	kick, err := s.api.Create(ctx, input)
	s.invalidate(ctx, err)
	return kick, err
}

func (s *Service) Update(ctx context.Context, kickID string, input kickit.KickInput) (*kickit.Kick, error) {
	kick, err := s.api.Update(ctx, kickID, input)
	s.invalidate(ctx, err)
	return kick, err
}

func (s *Service) Delete(ctx context.Context, kickID string) error {
	err := s.api.Delete(ctx, kickID)
	s.invalidate(ctx, err)
	return err
}

func (s *Service) ToggleStatus(ctx context.Context, kickID string, current kickit.Status) (*kickit.Kick, error) {
	kick, err := s.api.ToggleStatus(ctx, kickID, current)
	s.invalidate(ctx, err)
	return kick, err
}

func (s *Service) AddComment(ctx context.Context, kickID, text string) (*kickit.Comment, error) {
	comment, err := s.api.AddComment(ctx, kickID, text)
	s.invalidate(ctx, err)
	return comment, err
}

func (s *Service) UpdateComment(ctx context.Context, kickID, commentID, text string) (*kickit.Comment, error) {
	comment, err := s.api.UpdateComment(ctx, kickID, commentID, text)
	s.invalidate(ctx, err)
	return comment, err
}

func (s *Service) DeleteComment(ctx context.Context, kickID, commentID string) error {
	err := s.api.DeleteComment(ctx, kickID, commentID)
	s.invalidate(ctx, err)
	return err
}

// invalidate drops the cached list after a mutation. Client side validation
// failures never reached the API and leave the cache alone.
func (s *Service) invalidate(ctx context.Context, err error) {
	if kickit.IsKind(err, kickit.KindValidation) {
		return
	}
	s.cache.Invalidate(ctx, s.userID)
}
