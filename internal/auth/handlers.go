package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/VoterDesk/VD-Backend/internal/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 6 * time.Hour

// pgUniqueViolation is the Postgres error code for a duplicate unique key.
const pgUniqueViolation = "23505"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func failJSON(w http.ResponseWriter, status int, message string) {
	writeJSONStatus(w, status, loginResponse{Success: false, Message: message})
}

// LoginHandler authenticates an email/password pair, issues a session cookie
// and returns the account without its credential hash.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failJSON(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	var user User
	err := db.DB.First(&user, "email = ?", req.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		failJSON(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		failJSON(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	sessionID := uuid.NewString()
	expires := time.Now().Add(sessionTTL)

	var existing Session
	err = db.DB.First(&existing, "user_id = ?", user.ID).Error
	switch {
	case err == nil:
		err = db.DB.Model(&existing).Updates(Session{SessionID: sessionID, ExpiresAt: expires}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = db.DB.Create(&Session{SessionID: sessionID, UserID: user.ID, ExpiresAt: expires}).Error
	}
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, sessionCookie(sessionID, expires))
	writeJSONStatus(w, http.StatusOK, loginResponse{Success: true, User: &user})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	var session Session
	if err := db.DB.First(&session, "session_id = ?", cookie.Value).Error; err != nil {
		http.Error(w, "Couldn't find session", http.StatusUnauthorized)
		return
	}

	db.DB.Delete(&session)
	http.SetCookie(w, sessionCookie("", time.Unix(0, 0)))
	w.WriteHeader(http.StatusOK)
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// CreateUserHandler registers a new account. The hash is computed at write
// time; duplicate emails surface as 409.
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failJSON(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Email == "" || req.Password == "" || req.Role == "" {
		failJSON(w, http.StatusBadRequest, "Missing required fields (email, password, role)")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	name := req.Name
	if name == "" {
		name = req.Email
	}

	user := User{
		Email:        req.Email,
		PasswordHash: string(hashed),
		Name:         name,
		Role:         req.Role,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			failJSON(w, http.StatusConflict, "User with this email already exists")
			return
		}
		failJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSONStatus(w, http.StatusCreated, loginResponse{Success: true, User: &user})
}

type listUsersResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users := make([]User, 0)
	if err := db.DB.Order("id").Find(&users).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSONStatus(w, http.StatusOK, listUsersResponse{Success: true, Users: users})
}

// sessionCookie builds the session cookie. With PORT set (hosted deploys,
// HTTPS in front) the cookie is Secure and cross-site capable; with PORT
// empty local dev over plain HTTP keeps working.
func sessionCookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     "session_id",
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if os.Getenv("PORT") != "" {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
