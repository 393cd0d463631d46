package voterclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/VoterDesk/VD-Backend/internal/auth"
)

// ErrInvalidCredentials is returned by Login when the server rejects the
// email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session holds the authenticated account for a client session. It is an
// explicit object owned by the Client rather than ambient global state; the
// persisted file is read once at construction and cleared on logout.
type Session struct {
	path string
	user *auth.User
}

func NewSession(path string) *Session {
	s := &Session{path: path}
	if path == "" {
		return s
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var u auth.User
	if json.Unmarshal(raw, &u) == nil && u.Email != "" {
		s.user = &u
	}
	return s
}

func (s *Session) User() *auth.User { return s.user }

func (s *Session) IsAuthenticated() bool { return s.user != nil }

// Role is the account role, or empty when unauthenticated.
func (s *Session) Role() string {
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

func (s *Session) IsAdmin() bool     { return s.Role() == auth.RoleAdmin }
func (s *Session) IsVolunteer() bool { return s.Role() == auth.RoleVolunteer }

func (s *Session) set(u *auth.User) error {
	s.user = u
	if s.path == "" || u == nil {
		return nil
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *Session) clear() error {
	s.user = nil
	if s.path == "" {
		return nil
	}
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type authEnvelope struct {
	Success bool       `json:"success"`
	User    *auth.User `json:"user"`
	Message string     `json:"message"`
}

// Login authenticates against the backend and stores the returned account in
// the session, persisting it when a session path is configured.
func (c *Client) Login(ctx context.Context, email, password string) error {
	creds := map[string]string{"email": email, "password": password}
	body, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope authEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("login: %s", resp.Status)
	}

	switch {
	case resp.StatusCode == http.StatusOK && envelope.Success && envelope.User != nil:
		return c.session.set(envelope.User)
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case envelope.Message != "":
		return errors.New(envelope.Message)
	default:
		return fmt.Errorf("login: %s", resp.Status)
	}
}

// Logout tears the session down on both sides: the server session row is
// deleted (best effort) and local state plus the persisted file are cleared.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logout", nil)
	if err == nil {
		if resp, doErr := c.http.Do(req); doErr == nil {
			resp.Body.Close()
		}
	}
	return c.session.clear()
}
