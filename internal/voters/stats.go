package voters

import (
	"net/http"

	"github.com/VoterDesk/VD-Backend/internal/db"
)

type AgeGroup struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	Total     int64            `json:"total"`
	Male      int64            `json:"male"`
	Female    int64            `json:"female"`
	Other     int64            `json:"other"`
	Booths    int64            `json:"booths"`
	AgeGroups []AgeGroup       `json:"ageGroups"`
	Sentiment map[string]int64 `json:"sentiment"`
}

type ageBucketsRow struct {
	A1825 int64 `gorm:"column:a_18_25"`
	A2635 int64 `gorm:"column:a_26_35"`
	A3650 int64 `gorm:"column:a_36_50"`
	A5165 int64 `gorm:"column:a_51_65"`
	A65Up int64 `gorm:"column:a_65_up"`
}

// StatsHandler computes the aggregate view (gender split, age buckets,
// sentiment distribution) in SQL rather than by paging records to the client.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	var resp StatsResponse

	if err := db.DB.Model(&Voter{}).Count(&resp.Total).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	genderCounts := []struct {
		Gender string
		Count  int64
	}{}
	err := db.DB.Model(&Voter{}).
		Select("gender, COUNT(*) AS count").
		Group("gender").
		Scan(&genderCounts).Error
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	for _, gc := range genderCounts {
		switch gc.Gender {
		case "Male":
			resp.Male = gc.Count
		case "Female":
			resp.Female = gc.Count
		default:
			resp.Other += gc.Count
		}
	}

	err = db.DB.Model(&Voter{}).
		Where("booth <> ''").
		Distinct("booth").
		Count(&resp.Booths).Error
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	var buckets ageBucketsRow
	err = db.DB.Raw(`SELECT
			COUNT(*) FILTER (WHERE age BETWEEN 18 AND 25) AS a_18_25,
			COUNT(*) FILTER (WHERE age BETWEEN 26 AND 35) AS a_26_35,
			COUNT(*) FILTER (WHERE age BETWEEN 36 AND 50) AS a_36_50,
			COUNT(*) FILTER (WHERE age BETWEEN 51 AND 65) AS a_51_65,
			COUNT(*) FILTER (WHERE age > 65)              AS a_65_up
		FROM voters`).Scan(&buckets).Error
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	resp.AgeGroups = []AgeGroup{
		{Name: "18-25", Count: buckets.A1825},
		{Name: "26-35", Count: buckets.A2635},
		{Name: "36-50", Count: buckets.A3650},
		{Name: "51-65", Count: buckets.A5165},
		{Name: "65+", Count: buckets.A65Up},
	}

	sentimentCounts := []struct {
		Sentiment string
		Count     int64
	}{}
	err = db.DB.Model(&Voter{}).
		Select("sentiment, COUNT(*) AS count").
		Group("sentiment").
		Scan(&sentimentCounts).Error
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	resp.Sentiment = map[string]int64{
		SentimentPositive: 0,
		SentimentNeutral:  0,
		SentimentNegative: 0,
	}
	for _, sc := range sentimentCounts {
		if sc.Sentiment != "" {
			resp.Sentiment[sc.Sentiment] = sc.Count
		}
	}

	writeJSON(w, resp)
}
