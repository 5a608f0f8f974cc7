package models

// Student is a directory student record. The signed-in portal user is always a
// Student.
type Student struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the login-or-register form.
type Credentials struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// FindStudent returns the student with id, or nil.
func FindStudent(students []Student, id int) *Student {
	for i := range students {
		if students[i].ID == id {
			s := students[i]
			return &s
		}
	}
	return nil
}
