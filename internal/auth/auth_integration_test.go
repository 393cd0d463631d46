package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/VoterDesk/VD-Backend/internal/auth"
	"github.com/VoterDesk/VD-Backend/internal/db"
	"github.com/VoterDesk/VD-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	// .env.local lives at the repo root, two directories up from internal/auth/.
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		// No database available. Every test skips via requireDB.
		os.Exit(m.Run())
	}

	// Force local dev cookie mode so the jar accepts cookies over plain HTTP
	// (httptest serves HTTP), and give the login limiter headroom for a suite
	// that logs in from one IP.
	os.Setenv("PORT", "")
	os.Setenv("LOGIN_RATE_BURST", "100")

	db.Connect()
	dbAvailable = true

	auth.Init()

	// Mount the auth routes the way main.go does.
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORSMiddleware)
	r.Mount("/api", auth.SetupRoutes())

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() || !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
}

// createAccount registers an account through POST /api/users and schedules its
// removal. Returns the unique email and the plaintext password.
func createAccount(t *testing.T, role string) (email, password string) {
	t.Helper()

	email = fmt.Sprintf("it_%s@voterdesk.test", uuid.NewString()[:8])
	password = "TestPass123!"

	resp := postJSON(t, http.DefaultClient, "/api/users", map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create account: expected 201, got %d; body: %s", resp.StatusCode, body)
	}

	t.Cleanup(func() {
		var u auth.User
		if err := db.DB.Where("email = ?", email).First(&u).Error; err == nil {
			db.DB.Where("user_id = ?", u.ID).Delete(&auth.Session{})
			db.DB.Delete(&u)
		}
	})

	return email, password
}

func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, path string, payload any) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := client.Post(testServer.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func login(t *testing.T, client *http.Client, email, password string) *http.Response {
	t.Helper()
	return postJSON(t, client, "/api/auth", map[string]string{
		"email":    email,
		"password": password,
	})
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// TestCreateUserDuplicateEmail verifies that registering the same email twice
// yields 409.
func TestCreateUserDuplicateEmail(t *testing.T) {
	requireDB(t)
	email, password := createAccount(t, auth.RoleViewer)

	resp := postJSON(t, http.DefaultClient, "/api/users", map[string]string{
		"email":    email,
		"password": password,
		"role":     auth.RoleViewer,
	})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d; body: %s", resp.StatusCode, body)
	}
}

// TestLoginRejectsBadPassword verifies 401 with the generic message for a
// wrong password.
func TestLoginRejectsBadPassword(t *testing.T) {
	requireDB(t)
	email, _ := createAccount(t, auth.RoleViewer)
	client := newClientWithJar(t)

	resp := login(t, client, email, "not-the-password")
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d; body: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "Invalid credentials") {
		t.Errorf("expected generic rejection, got: %s", body)
	}
}

// TestLoginSetsSessionCookie verifies 200, the session_id cookie, and that the
// returned account carries no password hash.
func TestLoginSetsSessionCookie(t *testing.T) {
	requireDB(t)
	email, password := createAccount(t, auth.RoleVolunteer)
	client := newClientWithJar(t)

	resp := login(t, client, email, password)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", resp.StatusCode, body)
	}
	if !strings.Contains(resp.Header.Get("Set-Cookie"), "session_id") {
		t.Errorf("expected a session_id cookie, got: %q", resp.Header.Get("Set-Cookie"))
	}

	var envelope struct {
		Success bool       `json:"success"`
		User    *auth.User `json:"user"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		t.Fatalf("invalid JSON body: %s", body)
	}
	if !envelope.Success || envelope.User == nil {
		t.Fatalf("expected success envelope with user, got: %s", body)
	}
	if envelope.User.Email != email || envelope.User.Role != auth.RoleVolunteer {
		t.Errorf("wrong account in envelope: %+v", envelope.User)
	}
	if strings.Contains(body, "password_hash") {
		t.Error("password hash leaked into the login response")
	}
}

// TestAdminListUsers verifies the admin gate on GET /api/users: an admin
// session sees the account list, an anonymous client gets 401.
func TestAdminListUsers(t *testing.T) {
	requireDB(t)
	email, password := createAccount(t, auth.RoleAdmin)
	client := newClientWithJar(t)

	loginResp := login(t, client, email, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	resp, err := client.Get(testServer.URL + "/api/users")
	if err != nil {
		t.Fatalf("GET /api/users: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, email) {
		t.Errorf("expected the admin account in the listing, got: %s", body)
	}

	// Without a session the same route is unauthorized.
	anonResp, err := http.Get(testServer.URL + "/api/users")
	if err != nil {
		t.Fatalf("anonymous GET /api/users: %v", err)
	}
	readBody(t, anonResp)
	if anonResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous client, got %d", anonResp.StatusCode)
	}
}

// TestLogoutRevokesSession verifies that logout deletes the server session, so
// the cookie no longer opens admin routes.
func TestLogoutRevokesSession(t *testing.T) {
	requireDB(t)
	email, password := createAccount(t, auth.RoleAdmin)
	client := newClientWithJar(t)

	loginResp := login(t, client, email, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	logoutResp := postJSON(t, client, "/api/logout", nil)
	logoutBody := readBody(t, logoutResp)
	if logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d; body: %s", logoutResp.StatusCode, logoutBody)
	}

	resp, err := client.Get(testServer.URL + "/api/users")
	if err != nil {
		t.Fatalf("GET /api/users after logout: %v", err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}
