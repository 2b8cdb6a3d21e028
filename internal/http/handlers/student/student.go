// Package student contains the HTTP handlers for the Student resource.
//
// Every handler is a factory: it receives its dependencies once at route
// registration and returns the http.HandlerFunc the router calls on each
// request.
//
//	router.HandleFunc("POST /api/students", student.New(registry))
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
	"github.com/aanand-mishra/student-records/internal/validate"
	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body (JSON):
//
//	{ "id": 1, "name": "Alice", "age": 20, "email": "a@x.com", "course": "CS" }
//
// Responses: 201 with the stored student, 400 on an empty/malformed body
// or failed validation, 409 when the id is taken.
// ─────────────────────────────────────────────────────────────────────────────
func New(registry storage.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.Student
		err := json.NewDecoder(r.Body).Decode(&student)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student.Name = strings.TrimSpace(student.Name)
		student.Email = strings.TrimSpace(student.Email)
		student.Course = strings.TrimSpace(student.Course)

		if err := validate.Struct(student); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				response.WriteJSON(w, http.StatusBadRequest,
					response.ValidationError(validateErrs))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := registry.Add(student); err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("student created", slog.Int("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(registry storage.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int("id", id))

		student, err := registry.FindByID(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns students in insertion order, [] (not null) when there are none.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(registry storage.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")
		response.WriteJSON(w, http.StatusOK, registry.List())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PATCH /api/students/{id}
// Only the fields present in the body change:
//
//	{ "age": 21, "course": "Maths" }
//
// Unlike the console, the request is all-or-nothing: if any field fails
// validation nothing is applied and the response is 400.
// ─────────────────────────────────────────────────────────────────────────────
func Update(registry storage.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int("id", id))

		var changes types.Changes
		err := json.NewDecoder(r.Body).Decode(&changes)
		if errors.Is(err, io.EOF) || (err == nil && changes.Empty()) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body has no fields to update")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := checkChanges(changes); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Rejected(err))
			return
		}

		updated, err := registry.Update(id, changes)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("student updated", slog.Int("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// ─────────────────────────────────────────────────────────────────────────────
func Delete(registry storage.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int("id", id))

		if err := registry.Delete(id); err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("student deleted", slog.Int("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Save handles POST /api/students/save
// Writes every record through the persister. A failed save leaves the
// in-memory records untouched and answers 500.
// ─────────────────────────────────────────────────────────────────────────────
func Save(registry storage.Registry, persister storage.Persister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lines := registry.Serialize()
		if err := persister.Save(lines); err != nil {
			slog.Error("error saving students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("students saved",
			slog.Int("count", len(lines)),
			slog.String("location", persister.Location()))
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"status": response.StatusOK,
			"saved":  len(lines),
		})
	}
}

// pathID parses {id}, answering 400 itself when it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := validate.ID(r.PathValue("id"))
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// checkChanges runs the store's per-field rules ahead of time so a bad
// field rejects the whole request.
func checkChanges(c types.Changes) error {
	var errs []error
	if c.Name != nil {
		if _, err := validate.Required("name", *c.Name); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Age != nil {
		if err := validate.PositiveAge(*c.Age); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Email != nil {
		if _, err := validate.Email(*c.Email); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Course != nil {
		if _, err := validate.Required("course", *c.Course); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeStoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateID):
		status = http.StatusConflict
	default:
		slog.Error("store error", slog.String("error", err.Error()))
	}
	response.WriteJSON(w, status, response.GeneralError(err))
}

// Register adds every student route to router.
//
//	POST   /api/students        → create a new student
//	GET    /api/students        → list all students
//	GET    /api/students/{id}   → get one student by ID
//	PATCH  /api/students/{id}   → change some fields of a student
//	DELETE /api/students/{id}   → delete a student
//	POST   /api/students/save   → write every record to storage
func Register(router *http.ServeMux, registry storage.Registry, persister storage.Persister) {
	router.HandleFunc("POST /api/students", New(registry))
	router.HandleFunc("GET /api/students", GetList(registry))
	router.HandleFunc("GET /api/students/{id}", GetByID(registry))
	router.HandleFunc("PATCH /api/students/{id}", Update(registry))
	router.HandleFunc("DELETE /api/students/{id}", Delete(registry))
	router.HandleFunc("POST /api/students/save", Save(registry, persister))
}
