package kickit

import (
	"context"
	"fmt"
	"net/http"
)

// TokenSource provides the bearer token attached to authenticated calls.
type TokenSource interface {
	Token() string
}

// Session is the read/write contract the auth service needs from a
// session store.
type Session interface {
	TokenSource
	User() (User, bool)
	Login(user User, token string) error
	Logout() error
}

// AuthService wraps the /auth endpoints and keeps the session in sync.
type AuthService struct {
	client  *Client
	session Session
}

// Auth returns an AuthService that persists successful logins into session.
func (c *Client) Auth(session Session) *AuthService {
	return &AuthService{client: c, session: session}
}

// Signup creates a new account and signs it in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	return s.authenticate(ctx, "/auth/signup", "sign up", req)
}

// Signin exchanges credentials for a session.
func (s *AuthService) Signin(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return s.authenticate(ctx, "/auth/signin", "sign in", creds)
}

func (s *AuthService) authenticate(ctx context.Context, endpoint, op string, body any) (*AuthResponse, error) {
	var resp AuthResponse
	err := s.client.doJSON(ctx, request{
		method:   http.MethodPost,
		endpoint: endpoint,
		body:     body,
		op:       op,
		family:   familyAuth,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Token != "" {
		if err := s.session.Login(resp.User, resp.Token); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}

	return &resp, nil
}

// Signout clears the stored session. The API keeps no server side session.
func (s *AuthService) Signout() error {
	return s.session.Logout()
}

// Current returns the signed-in user and token, if any.
func (s *AuthService) Current() (User, string, bool) {
	user, ok := s.session.User()
	token := s.session.Token()
	if !ok || token == "" {
		return User{}, "", false
	}
	return user, token, true
}
