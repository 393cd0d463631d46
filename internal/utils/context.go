package utils

import (
	"context"
	"time"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"

// SessionData is what middleware needs to know about a session without
// depending on the auth package's storage model.
type SessionData struct {
	UserID    uint
	ExpiresAt time.Time
}

func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	userID := ctx.Value(ContextUserIDKey)
	id, ok := userID.(uint)
	return id, ok
}
