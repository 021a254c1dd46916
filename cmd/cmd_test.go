package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeAPI serves just enough of the KickIt API for the terminal commands.
type fakeAPI struct {
	mu       sync.Mutex
	kicks    map[string]*kickit.Kick
	nextID   int
	lastBody map[string]any
	calls    int
}

func newFakeAPI() *fakeAPI {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &fakeAPI{
		kicks: map[string]*kickit.Kick{
			"k1": {ID: "k1", Title: "See the northern lights", Category: kickit.CategoryTravel, Status: kickit.StatusOpen,
				Author: &kickit.Author{User: kickit.User{ID: "u1", Username: "ada"}}, CreatedAt: created,
				Comments: []kickit.Comment{{ID: "c1", Text: "Booked!", Author: &kickit.Author{User: kickit.User{ID: "u1", Username: "ada"}}, CreatedAt: created}}},
			"k2": {ID: "k2", Title: "Learn to sail", Category: kickit.CategorySkills, Status: kickit.StatusCompleted, CreatedAt: created},
		},
		nextID: 3,
	}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var creds kickit.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "ada" || creds.Password != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, kickit.AuthResponse{Token: "t1", User: kickit.User{ID: "u1", Username: "ada", Email: "ada@example.com"}})
	})
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls++
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, kickit.AuthResponse{})
	})

	authed := func(next func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.calls++
			if r.Header.Get("Authorization") != "Bearer t1" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "jwt expired"})
				return
			}
			f.lastBody = nil
			_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
			next(w, r)
		}
	}

	mux.HandleFunc("GET /kicks", authed(func(w http.ResponseWriter, _ *http.Request) {
		list := make([]kickit.Kick, 0, len(f.kicks))
		for _, id := range []string{"k1", "k2", "k3"} {
			if k, ok := f.kicks[id]; ok {
				list = append(list, *k)
			}
		}
		writeJSON(w, http.StatusOK, list)
	}))
	mux.HandleFunc("POST /kicks", authed(func(w http.ResponseWriter, r *http.Request) {
		id := fmt.Sprintf("k%d", f.nextID)
		f.nextID++
		k := &kickit.Kick{ID: id, Title: fmt.Sprint(f.lastBody["title"]), Status: kickit.StatusOpen}
		f.kicks[id] = k
		writeJSON(w, http.StatusCreated, k)
	}))
	mux.HandleFunc("GET /kicks/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		k, ok := f.kicks[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Kick not found"})
			return
		}
		writeJSON(w, http.StatusOK, k)
	}))
	mux.HandleFunc("PUT /kicks/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		k, ok := f.kicks[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Kick not found"})
			return
		}
		if v, ok := f.lastBody["title"].(string); ok {
			k.Title = v
		}
		if v, ok := f.lastBody["location"].(string); ok {
			k.Location = v
		}
		if v, ok := f.lastBody["status"].(string); ok {
			k.Status = kickit.Status(v)
		}
		writeJSON(w, http.StatusOK, k)
	}))
	mux.HandleFunc("DELETE /kicks/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		delete(f.kicks, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("POST /kicks/{id}/comments", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, kickit.Comment{ID: "c9", Text: fmt.Sprint(f.lastBody["text"])})
	}))
	mux.HandleFunc("PUT /kicks/{id}/comments/{cid}", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, kickit.Comment{ID: r.PathValue("cid"), Text: fmt.Sprint(f.lastBody["text"])})
	}))
	mux.HandleFunc("DELETE /kicks/{id}/comments/{cid}", authed(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	return mux
}

type CLITestSuite struct {
	suite.Suite
	api    *fakeAPI
	server *httptest.Server
	config string
}

func (s *CLITestSuite) SetupTest() {
	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	s.T().Cleanup(func() { isTerminal = origTerm })

	s.api = newFakeAPI()
	s.server = httptest.NewServer(s.api.handler())

	dir := s.T().TempDir()
	s.config = filepath.Join(dir, "config.yml")
	content := fmt.Sprintf("api_url: %s\nclient:\n  session_db: %s\n", s.server.URL, filepath.Join(dir, "session.db"))
	require.NoError(s.T(), os.WriteFile(s.config, []byte(content), 0o600))
}

func (s *CLITestSuite) TearDownTest() {
	s.server.Close()
}

// resetFlags clears flag values left over from a previous run of the
// shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func (s *CLITestSuite) run(stdin string, args ...string) (string, error) {
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", s.config}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (s *CLITestSuite) signin() {
	out, err := s.run("secret1\n", "signin", "--username", "ada")
	require.NoError(s.T(), err, out)
	require.Contains(s.T(), out, "Signed in as ada")
}

func (s *CLITestSuite) TestCommandsRequireSignin() {
	_, err := s.run("", "kicks", "list")
	assert.ErrorIs(s.T(), err, errNotSignedIn)

	_, err = s.run("", "whoami")
	assert.ErrorIs(s.T(), err, errNotSignedIn)
}

func (s *CLITestSuite) TestSigninPromptsAndPersists() {
	out, err := s.run("ada\nsecret1\n", "signin")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "Username: ")
	assert.Contains(s.T(), out, "Signed in as ada")

	out, err = s.run("", "whoami")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "ada (u1)")
	assert.Contains(s.T(), out, "ada@example.com")
	assert.Contains(s.T(), out, s.server.URL)
}

func (s *CLITestSuite) TestSigninFailure() {
	_, err := s.run("wrong\n", "signin", "-u", "ada")
	require.Error(s.T(), err)
	assert.Equal(s.T(), "Invalid credentials", err.Error())

	_, err = s.run("", "whoami")
	assert.ErrorIs(s.T(), err, errNotSignedIn)
}

func (s *CLITestSuite) TestSignupValidationSkipsNetwork() {
	_, err := s.run("secret1\nsecret2\n", "signup", "-u", "ada", "--name", "Ada", "--email", "ada@example.com")
	require.Error(s.T(), err)
	assert.Equal(s.T(), "Passwords do not match", err.Error())
	assert.Zero(s.T(), s.api.calls)
}

func (s *CLITestSuite) TestSignupWithoutToken() {
	out, err := s.run("secret1\nsecret1\n", "signup", "-u", "grace", "--name", "Grace", "--email", "grace@example.com")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "Run `kickit signin`")
	assert.Equal(s.T(), 1, s.api.calls)
}

func (s *CLITestSuite) TestListAndFilter() {
	s.signin()

	out, err := s.run("", "kicks", "list")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "See the northern lights")
	assert.Contains(s.T(), out, "Learn to sail")
	assert.Contains(s.T(), out, "2 kicks, 1 completed, 1 open")

	out, err = s.run("", "kicks", "list", "--status", "completed")
	require.NoError(s.T(), err)
	assert.NotContains(s.T(), out, "See the northern lights")
	assert.Contains(s.T(), out, "Learn to sail")

	out, err = s.run("", "kicks", "ls", "--category", "Career")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "No kicks yet")
}

func (s *CLITestSuite) TestShow() {
	s.signin()

	out, err := s.run("", "kicks", "show", "k1")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "See the northern lights")
	assert.Contains(s.T(), out, "Author:   ada")
	assert.Contains(s.T(), out, "1 comment")
	assert.Contains(s.T(), out, "Booked!")

	_, err = s.run("", "kicks", "show", "nope")
	require.Error(s.T(), err)
	assert.Equal(s.T(), "Kick not found", err.Error())
}

func (s *CLITestSuite) TestAddEditToggleDelete() {
	s.signin()

	_, err := s.run("", "kicks", "add", "--category", "Travel")
	require.Error(s.T(), err)
	assert.Equal(s.T(), "Title is required", err.Error())

	out, err := s.run("", "kicks", "add", "--title", "Run a marathon", "--category", "Skills")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "Created kick Run a marathon (k3)")
	assert.Equal(s.T(), "Skills", s.api.lastBody["category"])
	assert.Equal(s.T(), "Open", s.api.lastBody["status"])

	_, err = s.run("", "kicks", "edit", "k1")
	assert.ErrorIs(s.T(), err, errNoChanges)

	out, err = s.run("", "kicks", "edit", "k1", "--location", "Tromsø")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "Updated kick See the northern lights")
	assert.Equal(s.T(), "See the northern lights", s.api.lastBody["title"])
	assert.Equal(s.T(), "Tromsø", s.api.lastBody["location"])

	out, err = s.run("", "kicks", "toggle", "k1")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "is now Completed")
	assert.Equal(s.T(), map[string]any{"status": "Completed"}, s.api.lastBody)

	out, err = s.run("", "kicks", "delete", "k3")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "Kick deleted")
	assert.NotContains(s.T(), s.api.kicks, "k3")
}

func (s *CLITestSuite) TestComments() {
	s.signin()

	_, err := s.run("", "comments", "add", "k1", "   ")
	require.Error(s.T(), err)
	assert.Equal(s.T(), "Comment cannot be empty", err.Error())

	out, err := s.run("", "comments", "add", "k1", "Packed", "my", "bags")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "Added comment c9")
	assert.Equal(s.T(), "Packed my bags", s.api.lastBody["text"])

	out, err = s.run("", "comments", "edit", "k1", "c1", "Flights", "booked")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "Comment updated")

	out, err = s.run("", "comments", "delete", "k1", "c1")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "Comment deleted")
}

func (s *CLITestSuite) TestSignout() {
	s.signin()

	out, err := s.run("", "signout")
	require.NoError(s.T(), err)
	assert.Contains(s.T(), out, "Signed out")

	_, err = s.run("", "kicks", "list")
	assert.ErrorIs(s.T(), err, errNotSignedIn)
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func TestPrompterPasswordOnTerminal(t *testing.T) {
	origRead, origTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origTerm })

	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("hunter22"), nil }

	var out bytes.Buffer
	p := newPrompter(strings.NewReader(""), &out)
	pw, err := p.Password("Password")
	require.NoError(t, err)
	assert.Equal(t, "hunter22", pw)
	assert.Equal(t, "Password: \n", out.String())
}

func TestFileDescriptor(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "fd")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	fd, err := fileDescriptor(f)
	require.NoError(t, err)
	assert.Equal(t, f.Fd(), uintptr(fd))

	_, err = fileDescriptor(os.Stdin)
	assert.NoError(t, err)
}

func TestPrompterLine(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("  ada  \nlast"), &out)

	v, err := p.Line("Username")
	require.NoError(t, err)
	assert.Equal(t, "ada", v)

	v, err = p.Line("Name")
	require.NoError(t, err)
	assert.Equal(t, "last", v)

	_, err = p.Line("Email")
	assert.Error(t, err)

	v, err = p.valueOr("flag", "Ignored")
	require.NoError(t, err)
	assert.Equal(t, "flag", v)
}

func TestUserError(t *testing.T) {
	assert.NoError(t, userError(nil, "x"))
	assert.EqualError(t, userError(kickit.NewValidationError("Title is required"), "x"), "Title is required")
	assert.EqualError(t, userError(&kickit.Error{Kind: kickit.KindUnauthorized, Message: kickit.MsgSessionExpired}, "x"),
		kickit.MsgSessionExpired+" Run `kickit signin`")
	assert.EqualError(t, userError(&kickit.Error{Kind: kickit.KindUnauthorized, Message: "Invalid credentials"}, "x"),
		"Invalid credentials")
	assert.EqualError(t, userError(&kickit.Error{Kind: kickit.KindServer}, "Failed to load kicks"), "Failed to load kicks")
}

func TestFilterKicks(t *testing.T) {
	kicks := []kickit.Kick{
		{ID: "1", Status: kickit.StatusOpen, Category: kickit.CategoryTravel},
		{ID: "2", Status: kickit.StatusCompleted, Category: kickit.CategoryTravel},
		{ID: "3", Status: kickit.StatusOpen, Category: kickit.CategoryCareer},
	}
	assert.Len(t, filterKicks(kicks, "", ""), 3)
	assert.Len(t, filterKicks(kicks, kickit.StatusOpen, ""), 2)
	assert.Len(t, filterKicks(kicks, "open", "travel"), 1)
}
