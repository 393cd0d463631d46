package auth

import (
	"github.com/VoterDesk/VD-Backend/internal/db"
	"github.com/VoterDesk/VD-Backend/internal/utils"
)

type SessionInfo struct{}

func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session

	err := db.DB.First(&session, "session_id = ?", id).Error
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (si SessionInfo) FindRoleByUserID(id uint) (string, error) {
	var user User

	err := db.DB.First(&user, "id = ?", id).Error
	if err != nil {
		return "", err
	}

	return user.Role, nil
}
