package voters

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const DefaultPageSize = 100

// ListQuery is the parsed filter set for a paginated voter listing.
// Pages are zero-indexed. A nil age bound means "no bound"; an empty or
// "all" string filter is a no-op.
type ListQuery struct {
	Page int
	Size int

	Search    string
	Booth     string
	Gender    string
	Caste     string
	Relegion  string
	Sentiment string
	MinAge    *int
	MaxAge    *int
}

func ParseListQuery(values url.Values) ListQuery {
	lq := ListQuery{
		Page:      intOr(values.Get("page"), 0),
		Size:      intOr(values.Get("size"), DefaultPageSize),
		Search:    values.Get("search"),
		Booth:     values.Get("booth"),
		Gender:    values.Get("gender"),
		Caste:     values.Get("caste"),
		Relegion:  values.Get("relegion"),
		Sentiment: values.Get("sentiment"),
	}
	if lq.Page < 0 {
		lq.Page = 0
	}
	if lq.Size <= 0 {
		lq.Size = DefaultPageSize
	}
	if n, err := strconv.Atoi(values.Get("minAge")); err == nil {
		lq.MinAge = &n
	}
	if n, err := strconv.Atoi(values.Get("maxAge")); err == nil {
		lq.MaxAge = &n
	}
	return lq
}

// searchColumns is the fixed set of text fields a free-text search matches
// against. Any single match includes the record.
var searchColumns = []string{
	"c_house_no",
	"fm_name_en",
	"fm_name_v1",
	"lastname_en",
	"lastname_v1",
	"mobile_no",
	"polling_st_address",
	"street",
	"relationname",
	"relationnameen",
	"relationsurname",
	"relationsurnameen",
	"surname",
	"vid_no",
	"comment_1",
	"comment_2",
}

// NormalizeSearch trims and NFC-normalizes a search term. The roll mixes
// Latin and Telugu-script fields, and vernacular input can arrive in either
// composed or decomposed form. Case folding is left to ILIKE.
func NormalizeSearch(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// SearchCondition builds the OR-group predicate for a free-text search.
// Returns an empty clause when the normalized term is empty.
func SearchCondition(term string) (string, []any) {
	term = NormalizeSearch(term)
	if term == "" {
		return "", nil
	}
	pattern := "%" + term + "%"

	preds := make([]string, len(searchColumns))
	args := make([]any, len(searchColumns))
	for i, col := range searchColumns {
		preds[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	return "(" + strings.Join(preds, " OR ") + ")", args
}

// Apply translates the filter set into query predicates: the search OR-group
// AND-ed with exact-match filters and age bounds.
func (lq ListQuery) Apply(tx *gorm.DB) *gorm.DB {
	if clause, args := SearchCondition(lq.Search); clause != "" {
		tx = tx.Where(clause, args...)
	}

	for col, val := range map[string]string{
		"booth":     lq.Booth,
		"gender":    lq.Gender,
		"caste":     lq.Caste,
		"relegion":  lq.Relegion,
		"sentiment": lq.Sentiment,
	} {
		if val != "" && val != "all" {
			tx = tx.Where(col+" = ?", val)
		}
	}

	if lq.MinAge != nil {
		tx = tx.Where("age >= ?", *lq.MinAge)
	}
	if lq.MaxAge != nil {
		tx = tx.Where("age <= ?", *lq.MaxAge)
	}
	return tx
}

// TotalPages is ceil(totalItems / size).
func TotalPages(totalItems int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((totalItems + int64(size) - 1) / int64(size))
}

func intOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
