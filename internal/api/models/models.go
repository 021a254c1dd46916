package models

import (
	"github.com/kickit-app/kickit/internal/config"
	"github.com/kickit-app/kickit/internal/gravatar"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/samber/lo"
)

// Viewer is the signed-in user as shown in the navigation bar.
type Viewer struct {
	kickit.User
	Avatar gravatar.Avatar
}

// NewViewer returns nil when there is no signed-in user.
func NewViewer(user kickit.User, ok bool, cfg *config.GravatarConfig) *Viewer {
	if !ok {
		return nil
	}
	return &Viewer{User: user, Avatar: gravatar.For(user, cfg)}
}

// UserID returns the viewer id, or "" for anonymous visitors.
func (v *Viewer) UserID() string {
	if v == nil {
		return ""
	}
	return v.User.ID
}

// KickView is a kick prepared for a template.
type KickView struct {
	kickit.Kick
	Author       gravatar.Avatar
	Owned        bool
	Completed    bool
	CommentViews []CommentView
}

// CommentView is a comment prepared for a template.
type CommentView struct {
	kickit.Comment
	Author  gravatar.Avatar
	Owned   bool
	Editing bool
}

// Summary holds the dashboard counters.
type Summary struct {
	Total     int
	Completed int
	Open      int
}

func authorOf(a *kickit.Author) kickit.User {
	if a == nil {
		return kickit.User{}
	}
	return a.User
}

// ToKickView converts a kick for viewerID. Owner-only controls are a hint
// for the UI; the API enforces ownership. Kicks listed without an author
// are assumed to belong to the viewer.
func ToKickView(k kickit.Kick, viewerID string, cfg *config.GravatarConfig) KickView {
	return KickView{
		Kick:      k,
		Author:    gravatar.For(authorOf(k.Author), cfg),
		Owned:     viewerID != "" && (k.Author == nil || k.OwnedBy(viewerID)),
		Completed: k.Status == kickit.StatusCompleted,
		CommentViews: lo.Map(k.Comments, func(c kickit.Comment, _ int) CommentView {
			return ToCommentView(c, viewerID, cfg)
		}),
	}
}

// ToKickViews converts a list of kicks.
func ToKickViews(kicks []kickit.Kick, viewerID string, cfg *config.GravatarConfig) []KickView {
	return lo.Map(kicks, func(k kickit.Kick, _ int) KickView {
		return ToKickView(k, viewerID, cfg)
	})
}

// ToCommentView converts a comment for viewerID.
func ToCommentView(c kickit.Comment, viewerID string, cfg *config.GravatarConfig) CommentView {
	return CommentView{
		Comment: c,
		Author:  gravatar.For(authorOf(c.Author), cfg),
		Owned:   c.OwnedBy(viewerID),
	}
}

// Summarize counts the kicks by status.
func Summarize(kicks []kickit.Kick) Summary {
	completed := lo.CountBy(kicks, func(k kickit.Kick) bool {
		return k.Status == kickit.StatusCompleted
	})
	return Summary{
		Total:     len(kicks),
		Completed: completed,
		Open:      len(kicks) - completed,
	}
}
