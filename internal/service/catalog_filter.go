package service

import (
	"fmt"
	"strings"

	"cyberacademy/internal/model"
)

// DefaultPageSize is the catalog page size used when none is requested.
const DefaultPageSize = 6

// PriceRange buckets courses by their INR price.
type PriceRange string

const (
	PriceUpTo10000    PriceRange = "0-10000"
	Price10000To15000 PriceRange = "10000-15000"
	PriceAbove15000   PriceRange = "15000+"
)

// ParsePriceRange accepts the empty string and "all" as "no filter".
func ParsePriceRange(s string) (PriceRange, error) {
	switch r := PriceRange(s); r {
	case "", "all":
		return "", nil
	case PriceUpTo10000, Price10000To15000, PriceAbove15000:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown price range %q", ErrValidation, s)
}

func (r PriceRange) contains(inr int64) bool {
	switch r {
	case PriceUpTo10000:
		return inr <= 10000
	case Price10000To15000:
		return inr > 10000 && inr <= 15000
	case PriceAbove15000:
		return inr > 15000
	}
	return true
}

// CourseFilter narrows the catalog. Zero values match everything; Page 0
// returns the whole filtered list.
type CourseFilter struct {
	Search     string
	Level      model.Level
	PriceRange PriceRange
	Page       int
	PageSize   int
}

// CoursePage is one page of filtered courses.
type CoursePage struct {
	Courses    []model.Course `json:"courses"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// FilterCourses applies search, level and price filters over the full list.
func FilterCourses(courses []model.Course, f CourseFilter) []model.Course {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Title), search) &&
			!strings.Contains(strings.ToLower(c.Description), search) {
			continue
		}
		if f.Level != "" && c.Level != f.Level {
			continue
		}
		if !f.PriceRange.contains(c.PriceINR) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Paginate slices an already filtered list.
func Paginate(courses []model.Course, page, pageSize int) CoursePage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(courses)
	totalPages := (total + pageSize - 1) / pageSize
	if page <= 0 {
		return CoursePage{Courses: courses, Total: total, Page: 1, PageSize: pageSize, TotalPages: totalPages}
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return CoursePage{
		Courses:    courses[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
