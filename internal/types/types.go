// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles —
// the store, the console, and the HTTP handlers can all import types
// without depending on each other.
package types

// Student is one student's record, keyed by ID.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     by the HTTP handlers.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package (see internal/validate). student_email and single_line are
//     custom tags registered there. single_line keeps a newline out of a
//     name or course, where it would split the record across two lines
//     of the records file.
type Student struct {
	ID     int    `json:"id"`
	Name   string `json:"name"   validate:"required,single_line"`
	Age    int    `json:"age"    validate:"gt=0"`
	Email  string `json:"email"  validate:"student_email"`
	Course string `json:"course" validate:"required,single_line"`
}

// Changes describes a partial update. A nil field is left untouched.
type Changes struct {
	Name   *string `json:"name,omitempty"`
	Age    *int    `json:"age,omitempty"`
	Email  *string `json:"email,omitempty"`
	Course *string `json:"course,omitempty"`
}

// Empty reports whether no field is set.
func (c Changes) Empty() bool {
	return c.Name == nil && c.Age == nil && c.Email == nil && c.Course == nil
}
