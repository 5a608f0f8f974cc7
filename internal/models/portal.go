package models

import "fmt"

// Modal identifies the single overlay open in the portal.
type Modal int

// Portal overlays. At most one is active.
const (
	ModalNone Modal = iota
	ModalLogin
	ModalDetail
	ModalAdmin
	ModalMyCourses
)

var modalNames = map[Modal]string{
	ModalNone:      "none",
	ModalLogin:     "login",
	ModalDetail:    "detail",
	ModalAdmin:     "admin",
	ModalMyCourses: "my-courses",
}

func (m Modal) String() string {
	if name, ok := modalNames[m]; ok {
		return name
	}
	return fmt.Sprintf("modal(%d)", int(m))
}

// MarshalText renders the modal by name.
func (m Modal) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseModal resolves a modal name.
func ParseModal(name string) (Modal, bool) {
	for m, n := range modalNames {
		if n == name {
			return m, true
		}
	}
	return ModalNone, false
}

// DetailState is the rendered state of one course-detail view.
type DetailState struct {
	ViewID             string  `json:"view_id"`
	CourseID           int     `json:"course_id"`
	Course             *Course `json:"course,omitempty"`
	Loading            bool    `json:"loading"`
	IsEnrolled         bool    `json:"is_enrolled"`
	CheckingEnrollment bool    `json:"checking_enrollment"`
	Mutating           bool    `json:"mutating"`
	CanEnroll          bool    `json:"can_enroll"`
	CanUnenroll        bool    `json:"can_unenroll"`
	Closed             bool    `json:"closed,omitempty"`
}

// CatalogView is the rendered course grid.
type CatalogView struct {
	Filter     CatalogFilter `json:"filter"`
	ActiveKind FilterKind    `json:"active_kind"`
	Courses    []Course      `json:"courses"`
	Students   []Student     `json:"students"`
	Loading    bool          `json:"loading"`
}

// MyCoursesView lists the signed-in student's enrollments.
type MyCoursesView struct {
	SignedIn bool            `json:"signed_in"`
	Courses  []StudentCourse `json:"courses"`
}

// PortalState is the top-level shell state.
type PortalState struct {
	Loading     bool          `json:"loading"`
	User        *Student      `json:"user"`
	ActiveModal Modal         `json:"active_modal"`
	Filter      CatalogFilter `json:"filter"`
}
