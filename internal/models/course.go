package models

import "strconv"

// Course is a catalog entry as served by the directory. Entries projected from
// a student's enrollment list carry only ID, Code and Name and are marked
// Summary.
type Course struct {
	ID          int    `json:"id"`
	Code        string `json:"course_code"`
	Name        string `json:"course_name"`
	Description string `json:"course_description,omitempty"`
	Credits     int    `json:"credits,omitempty"`
	Instructor  string `json:"instructor,omitempty"`
	Semester    string `json:"semester,omitempty"`
	TimeSlot    string `json:"time_slot,omitempty"`
	Location    string `json:"course_location,omitempty"`
	Summary     bool   `json:"summary,omitempty"`
}

// CourseInput is the directory payload for a new course.
type CourseInput struct {
	Code        string `json:"course_code"`
	Name        string `json:"course_name"`
	Description string `json:"course_description"`
	Credits     int    `json:"credits"`
	Instructor  string `json:"instructor"`
	Semester    string `json:"semester"`
	TimeSlot    string `json:"time_slot"`
	Location    string `json:"course_location"`
}

// DefaultCredits is applied when the admin form leaves credits empty.
const DefaultCredits = 3

// StudentCourse is one row of a student's enrollment listing.
type StudentCourse struct {
	CourseID   int    `json:"course_id"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
}

// Project narrows an enrollment row to the catalog shape.
func (sc StudentCourse) Project() Course {
	return Course{ID: sc.CourseID, Code: sc.CourseCode, Name: sc.CourseName, Summary: true}
}

// ProjectAll maps enrollment rows to catalog entries preserving order.
func ProjectAll(rows []StudentCourse) []Course {
	out := make([]Course, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Project())
	}
	return out
}

// ExportRow flattens the course for tabular export. Absent fields of summary
// entries stay empty.
func (c Course) ExportRow() map[string]string {
	row := map[string]string{
		"code":       c.Code,
		"name":       c.Name,
		"instructor": c.Instructor,
		"semester":   c.Semester,
		"time_slot":  c.TimeSlot,
		"location":   c.Location,
	}
	if c.Credits > 0 {
		row["credits"] = strconv.Itoa(c.Credits)
	}
	return row
}
