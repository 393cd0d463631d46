package voters

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/VoterDesk/VD-Backend/internal/db"
	"github.com/redis/go-redis/v9"
)

// BoothWindowSize is the fixed batch used when scanning the full roll for
// distinct booth values. The store exposes no distinct/group-by endpoint at
// this layer, so the directory is an O(N) windowed scan.
const BoothWindowSize = 1000

const (
	boothCacheKey = "voters:booths"
	boothCacheTTL = 5 * time.Minute
)

// BoothWindowFetcher yields one window of raw booth values. Kept as an
// interface so the scan loop can be tested without a database.
type BoothWindowFetcher interface {
	FetchBoothWindow(offset, limit int) ([]string, error)
}

type boothTable struct{}

func (boothTable) FetchBoothWindow(offset, limit int) ([]string, error) {
	var booths []string
	err := db.DB.Model(&Voter{}).
		Order("id").
		Offset(offset).
		Limit(limit).
		Pluck("booth", &booths).Error
	return booths, err
}

// DistinctBooths pages through the entire roll and accumulates the sorted,
// deduplicated set of non-empty booth identifiers. A window shorter than
// BoothWindowSize signals end of data, so 2500 rows cost exactly three calls.
func DistinctBooths(src BoothWindowFetcher) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)

	for offset := 0; ; offset += BoothWindowSize {
		window, err := src.FetchBoothWindow(offset, BoothWindowSize)
		if err != nil {
			return nil, err
		}
		for _, booth := range window {
			if booth == "" {
				continue
			}
			if _, ok := seen[booth]; ok {
				continue
			}
			seen[booth] = struct{}{}
			out = append(out, booth)
		}
		if len(window) < BoothWindowSize {
			break
		}
	}

	sort.Strings(out)
	return out, nil
}

// BoothsHandler serves the booth directory, independent of any active
// filters. The scan result is held in Redis for a short TTL when available;
// callers should not hit this on every filter change regardless.
func BoothsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if rdb != nil {
		if raw, err := rdb.Get(ctx, boothCacheKey).Bytes(); err == nil {
			var booths []string
			if json.Unmarshal(raw, &booths) == nil {
				writeJSON(w, booths)
				return
			}
		}
	}

	booths, err := DistinctBooths(boothTable{})
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "Failed to fetch booths")
		return
	}

	cacheBooths(ctx, booths)
	writeJSON(w, booths)
}

func cacheBooths(ctx context.Context, booths []string) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(booths)
	if err != nil {
		return
	}
	_ = rdb.SetEx(ctx, boothCacheKey, raw, boothCacheTTL).Err()
}

// rdb is the optional Redis client handed over by SetupRoutes.
var rdb *redis.Client
