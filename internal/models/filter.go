package models

import (
	"strconv"
	"strings"
)

// FilterKind names the criterion currently restricting the catalog.
type FilterKind string

// Filter kinds in precedence order.
const (
	FilterKeyword FilterKind = "keyword"
	FilterStudent FilterKind = "student"
	FilterAll     FilterKind = "all"
)

// AllStudents is the sentinel student selection meaning "no student filter".
const AllStudents = "all"

// CatalogFilter holds both catalog inputs. A non-empty keyword wins over a
// selected student; see Kind.
type CatalogFilter struct {
	Keyword   string `json:"keyword"`
	StudentID *int   `json:"student_id"`
}

// Kind resolves the active criterion.
func (f CatalogFilter) Kind() FilterKind {
	switch {
	case f.Keyword != "":
		return FilterKeyword
	case f.StudentID != nil:
		return FilterStudent
	default:
		return FilterAll
	}
}

// ParseStudentSelection turns the dropdown value into a student filter.
func ParseStudentSelection(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AllStudents) {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
