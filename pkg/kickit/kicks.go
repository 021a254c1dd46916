package kickit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// KickService wraps the /kicks endpoints. Every call is authenticated
// with the token of the given source at call time.
type KickService struct {
	client *Client
	tokens TokenSource
}

// Kicks returns a KickService authenticating with tokens.
func (c *Client) Kicks(tokens TokenSource) *KickService {
	return &KickService{client: c, tokens: tokens}
}

func (s *KickService) call(ctx context.Context, method, endpoint, op string, body, out any) error {
	return s.client.doJSON(ctx, request{
		method:   method,
		endpoint: endpoint,
		token:    s.tokens.Token(),
		body:     body,
		op:       op,
		family:   familyKicks,
	}, out)
}

func kickPath(kickID string) string {
	return "/kicks/" + url.PathEscape(kickID)
}

func commentPath(kickID, commentID string) string {
	return kickPath(kickID) + "/comments/" + url.PathEscape(commentID)
}

// List returns all kicks visible to the current user.
func (s *KickService) List(ctx context.Context) ([]Kick, error) {
	var kicks []Kick
	if err := s.call(ctx, http.MethodGet, "/kicks", "load kicks", nil, &kicks); err != nil {
		return nil, err
	}
	if kicks == nil {
		kicks = []Kick{}
	}
	return kicks, nil
}

// Get returns a single kick with its comments.
func (s *KickService) Get(ctx context.Context, kickID string) (*Kick, error) {
	var kick Kick
	if err := s.call(ctx, http.MethodGet, kickPath(kickID), "load kick", nil, &kick); err != nil {
		return nil, err
	}
	return &kick, nil
}

// Create creates a new kick. The API assigns the id.
func (s *KickService) Create(ctx context.Context, input KickInput) (*Kick, error) {
	if input.Title == nil || *input.Title == "" {
		return nil, NewValidationError("Title is required")
	}
	var kick Kick
	if err := s.call(ctx, http.MethodPost, "/kicks", "create kick", input, &kick); err != nil {
		return nil, err
	}
	return &kick, nil
}

// Update changes the fields set in input.
func (s *KickService) Update(ctx context.Context, kickID string, input KickInput) (*Kick, error) {
	var kick Kick
	if err := s.call(ctx, http.MethodPut, kickPath(kickID), "update kick", input, &kick); err != nil {
		return nil, err
	}
	return &kick, nil
}

// Delete removes a kick.
func (s *KickService) Delete(ctx context.Context, kickID string) error {
	return s.call(ctx, http.MethodDelete, kickPath(kickID), "delete kick", nil, nil)
}

// ToggleStatus flips current and sends only the new status.
func (s *KickService) ToggleStatus(ctx context.Context, kickID string, current Status) (*Kick, error) {
	next := current.Next()
	kick, err := s.Update(ctx, kickID, KickInput{Status: &next})
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Op == "update kick" {
			apiErr.Op = "update status"
		}
		return nil, err
	}
	return kick, nil
}

// AddComment posts a new comment on a kick.
func (s *KickService) AddComment(ctx context.Context, kickID, text string) (*Comment, error) {
	if text == "" {
		return nil, NewValidationError("Comment cannot be empty")
	}
	var comment Comment
	endpoint := kickPath(kickID) + "/comments"
	if err := s.call(ctx, http.MethodPost, endpoint, "add comment", commentRequest{Text: text}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment replaces the text of a comment.
func (s *KickService) UpdateComment(ctx context.Context, kickID, commentID, text string) (*Comment, error) {
	if text == "" {
		return nil, NewValidationError("Comment cannot be empty")
	}
	var comment Comment
	if err := s.call(ctx, http.MethodPut, commentPath(kickID, commentID), "update comment", commentRequest{Text: text}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment from a kick.
func (s *KickService) DeleteComment(ctx context.Context, kickID, commentID string) error {
	if commentID == "" {
		return fmt.Errorf("comment id is required")
	}
	return s.call(ctx, http.MethodDelete, commentPath(kickID, commentID), "delete comment", nil, nil)
}
