package services

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// PageSize is the fixed result page size shared by every vertical
const PageSize = 12

// Sort keys. Anything outside the closed set falls back to SortNewest.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortMostViewed = "most_viewed"
	SortTopRated   = "top_rated"
)

// Tri-state boolean filter values. Empty or unknown input means "any".
const (
	FilterAny = "any"
	FilterYes = "yes"
	FilterNo  = "no"
)

// textSearch adds a case-insensitive OR match over the given columns. A
// match in any single column qualifies the row.
func textSearch(q *gorm.DB, query string, columns ...string) *gorm.DB {
	query = strings.TrimSpace(query)
	if query == "" {
		return q
	}
	pattern := "%" + strings.ToLower(query) + "%"

	clause := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		clause = append(clause, fmt.Sprintf("LOWER(%s) LIKE ?", col))
		args = append(args, pattern)
	}
	return q.Where(strings.Join(clause, " OR "), args...)
}

// triState applies a yes/no filter on a boolean column, treating anything
// other than yes/no as "any".
func triState(q *gorm.DB, column, value string) *gorm.DB {
	switch value {
	case FilterYes:
		return q.Where(column+" = ?", true)
	case FilterNo:
		return q.Where(column+" = ?", false)
	default:
		return q
	}
}

// applySort orders a listing query. priceColumn names the vertical's numeric
// attribute; an empty priceColumn means the vertical has none and price
// sorts fall back to newest. SortTopRated is only meaningful for verticals
// with reviews and is handled by the caller; here it falls back to newest
// like any other unsupported key.
func applySort(q *gorm.DB, sort, priceColumn string) *gorm.DB {
	switch sort {
	case SortOldest:
		return q.Order("created_at ASC")
	case SortPriceAsc:
		if priceColumn != "" {
			return q.Order(priceColumn + " ASC")
		}
	case SortPriceDesc:
		if priceColumn != "" {
			return q.Order(priceColumn + " DESC")
		}
	case SortMostViewed:
		return q.Order("views DESC")
	}
	return q.Order("created_at DESC")
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// atoi parses an optional numeric filter value; malformed input imposes no
// constraint.
func atoi(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// paginate runs the count and the page fetch. Pages are 1-indexed; a page
// past the end is clamped to the last valid page instead of returning an
// empty result. countQ must carry the same filters as listQ but no ordering
// or joins.
func paginate(countQ, listQ *gorm.DB, page int, dest interface{}) (total int64, current int, err error) {
	if err := countQ.Count(&total).Error; err != nil {
		return 0, 0, err
	}

	if page < 1 {
		page = 1
	}
	lastPage := int((total + PageSize - 1) / PageSize)
	if lastPage > 0 && page > lastPage {
		page = lastPage
	}

	if err := listQ.Offset((page - 1) * PageSize).Limit(PageSize).Find(dest).Error; err != nil {
		return 0, 0, err
	}
	return total, page, nil
}
