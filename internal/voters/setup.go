package voters

import (
	"log"

	"github.com/VoterDesk/VD-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&Voter{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
