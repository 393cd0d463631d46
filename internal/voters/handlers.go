package voters

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/VoterDesk/VD-Backend/internal/db"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func failJSON(w http.ResponseWriter, status int, message string) {
	writeJSONStatus(w, status, map[string]string{"message": message})
}

type ListResponse struct {
	Voters      []Voter `json:"voters"`
	CurrentPage int     `json:"currentPage"`
	TotalItems  int64   `json:"totalItems"`
	TotalPages  int     `json:"totalPages"`
}

// ListVotersHandler serves a filtered, paginated window of the roll.
// Requesting past the last page yields an empty list with unchanged totals.
func ListVotersHandler(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r.URL.Query())

	tx := lq.Apply(db.DB.Model(&Voter{}))

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to fetch voters")
		return
	}

	rows := make([]Voter, 0, lq.Size)
	err := tx.Order("id").Limit(lq.Size).Offset(lq.Page * lq.Size).Find(&rows).Error
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to fetch voters")
		return
	}

	writeJSON(w, ListResponse{
		Voters:      rows,
		CurrentPage: lq.Page,
		TotalItems:  total,
		TotalPages:  TotalPages(total, lq.Size),
	})
}

// SaveVotersHandler accepts a batch of drafts: elements carrying an id are
// full-document updates, the rest are inserts. The response is the saved
// records in input order, ids assigned by the store.
func SaveVotersHandler(w http.ResponseWriter, r *http.Request) {
	var drafts []Voter
	if err := json.NewDecoder(r.Body).Decode(&drafts); err != nil {
		failJSON(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	saved := make([]Voter, 0, len(drafts))
	for i := range drafts {
		v := drafts[i]
		if v.ID != 0 {
			var existing Voter
			if err := db.DB.First(&existing, v.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					failJSON(w, http.StatusNotFound, "Voter not found")
					return
				}
				failJSON(w, http.StatusInternalServerError, "Failed to save voter")
				return
			}
			if err := db.DB.Save(&v).Error; err != nil {
				failJSON(w, http.StatusInternalServerError, "Failed to save voter")
				return
			}
		} else {
			if err := db.DB.Create(&v).Error; err != nil {
				failJSON(w, http.StatusInternalServerError, "Failed to save voter")
				return
			}
		}
		saved = append(saved, v)
	}

	writeJSON(w, saved)
}

// UpdateVoterHandler replaces the full document under an existing id.
func UpdateVoterHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		failJSON(w, http.StatusBadRequest, "Invalid voter id")
		return
	}

	var draft Voter
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		failJSON(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	var existing Voter
	if err := db.DB.First(&existing, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			failJSON(w, http.StatusNotFound, "Voter not found")
			return
		}
		failJSON(w, http.StatusInternalServerError, "Failed to update voter")
		return
	}

	draft.ID = uint(id)
	if err := db.DB.Save(&draft).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to update voter")
		return
	}

	writeJSON(w, draft)
}

// DeleteVoterHandler hard-deletes by id. Deleting an id that is already gone
// is a no-op, still 204.
func DeleteVoterHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		failJSON(w, http.StatusBadRequest, "Invalid voter id")
		return
	}

	if err := db.DB.Delete(&Voter{}, uint(id)).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to delete voter")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
