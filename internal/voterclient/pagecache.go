package voterclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/VoterDesk/VD-Backend/internal/voters"
)

// Filters is the filter tuple a dashboard applies to the voter list. An
// empty value or the sentinel "all" means the filter is off. AgeRange is a
// bucket label ("18-25" ... "65+") or "all".
type Filters struct {
	Search   string
	Booth    string
	Gender   string
	AgeRange string
}

// normalized maps logically-identical filter sets onto one representation:
// search is trimmed and NFC-normalized (the one normalization rule, shared
// with the query path; case folding happens server-side), and the "all"
// sentinel collapses to empty.
func (f Filters) normalized() Filters {
	return Filters{
		Search:   voters.NormalizeSearch(f.Search),
		Booth:    noneIfAll(f.Booth),
		Gender:   noneIfAll(f.Gender),
		AgeRange: noneIfAll(f.AgeRange),
	}
}

func noneIfAll(s string) string {
	if s == "all" {
		return ""
	}
	return s
}

// AgeBounds parses the bucket label into query bounds. "18-25" yields both
// bounds, "65+" only the lower one.
func (f Filters) AgeBounds() (minAge, maxAge *int) {
	label := noneIfAll(f.AgeRange)
	if label == "" {
		return nil, nil
	}
	var lo, hi int
	if _, err := fmt.Sscanf(label, "%d-%d", &lo, &hi); err == nil {
		return &lo, &hi
	}
	if _, err := fmt.Sscanf(label, "%d+", &lo); err == nil {
		return &lo, nil
	}
	return nil, nil
}

// PageResult is one fetched page plus its pagination metadata, as served by
// GET /api/voters.
type PageResult struct {
	Voters      []voters.Voter `json:"voters"`
	CurrentPage int            `json:"currentPage"`
	TotalItems  int64          `json:"totalItems"`
	TotalPages  int            `json:"totalPages"`
}

// CacheKey builds the deterministic key for a (page, pageSize, filters)
// combination: fixed field order, joined on the unit separator so content
// cannot shift between fields ("x"/"y-z" and "x-y"/"z" stay distinct keys).
// Identical logical filter sets always produce identical keys.
func CacheKey(page, size int, f Filters) string {
	n := f.normalized()
	return strings.Join([]string{
		strconv.Itoa(page),
		strconv.Itoa(size),
		n.Search,
		n.Booth,
		n.Gender,
		n.AgeRange,
	}, "\x1f")
}

// PageCache memoizes fetched pages for the lifetime of a client session.
// Entries are never updated in place or expired; a refetch overwrites, and
// the only invalidation is the wholesale Clear when the page size changes.
// Growth is unbounded by design — the cache lives exactly as long as the
// session. Not safe for concurrent use.
type PageCache struct {
	entries map[string]PageResult
}

func NewPageCache() *PageCache {
	return &PageCache{entries: make(map[string]PageResult)}
}

func (pc *PageCache) Get(key string) (PageResult, bool) {
	res, ok := pc.entries[key]
	return res, ok
}

func (pc *PageCache) Put(key string, res PageResult) {
	pc.entries[key] = res
}

// Clear drops every entry. Called when the page size changes, since a new
// size changes the meaning of every cached page index.
func (pc *PageCache) Clear() {
	pc.entries = make(map[string]PageResult)
}

func (pc *PageCache) Len() int {
	return len(pc.entries)
}
