// Package console drives the record store from a text menu.
//
// The Controller owns prompting, retry-on-invalid-input loops, and menu
// dispatch. It hands the store only values that already passed the
// validate package, and reports every error as a message before going
// back to the menu.
//
// SESSION FLOW:
//  1. Load   — fill the store from the persister (failures are reported,
//     the session still starts)
//  2. Run    — print the menu, read a choice, dispatch, repeat
//  3. Exit   — option 7 (optionally saving first) or end of input
//
// Input is read through an io.Reader and output written to an io.Writer,
// so tests drive a whole session with strings.NewReader and a buffer.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/validate"
)

// errInputClosed ends the session when the input stream runs out.
// Every prompt returns it, and Run treats it like choosing Exit without
// saving.
var errInputClosed = errors.New("input closed")

const rule = "--------------------------------------------------------------------------------"

// Controller is one interactive session over a store.
//
// in is a bufio.Reader rather than a bufio.Scanner: a Scanner stops at
// its 64 KiB token limit and would read an over-long answer as the end
// of input, ending the session.
type Controller struct {
	store     *memory.Store
	persister storage.Persister
	in        *bufio.Reader
	out       io.Writer
	log       *slog.Logger
}

// New returns a Controller reading answers from in and writing to out.
func New(store *memory.Store, persister storage.Persister, in io.Reader, out io.Writer, log *slog.Logger) *Controller {
	return &Controller{
		store:     store,
		persister: persister,
		in:        bufio.NewReader(in),
		out:       out,
		log:       log,
	}
}

// Load fills the store from the persister. A failure is reported and the
// session starts with whatever the store already holds.
func (c *Controller) Load() {
	lines, err := c.persister.Load()
	if err != nil {
		c.log.Error("failed to load students", slog.String("error", err.Error()))
		c.printf("Error reading file: %v\n", err)
		return
	}

	n := c.store.Deserialize(lines)
	c.log.Info("students loaded",
		slog.Int("loaded", n),
		slog.Int("skipped", len(lines)-n),
		slog.String("location", c.persister.Location()))
	if n > 0 {
		c.printf("Loaded %d students from %s\n", n, c.persister.Location())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Run shows the menu until the user exits or input ends.
//
// Each menu action returns an error only for errInputClosed; anything the
// user can recover from (unknown id, failed save, bad value) is printed
// by the action itself and the loop carries on.
// ─────────────────────────────────────────────────────────────────────────────
func (c *Controller) Run() error {
	for {
		c.printMenu()
		choice, err := c.readLine()
		if err != nil {
			c.printf("\nExiting. Goodbye!\n")
			return nil
		}

		exit := false
		switch choice {
		case "1":
			err = c.addStudent()
		case "2":
			c.viewAll()
		case "3":
			err = c.search()
		case "4":
			err = c.update()
		case "5":
			err = c.delete()
		case "6":
			// The failure, if any, is already printed by save.
			_ = c.save()
		case "7":
			exit, err = c.confirmExit()
		default:
			c.printf("Invalid choice. Please enter 1-7.\n")
		}

		if errors.Is(err, errInputClosed) {
			c.printf("\nExiting. Goodbye!\n")
			return nil
		}
		if exit {
			return nil
		}
		c.printf("\n")
	}
}

func (c *Controller) printMenu() {
	c.printf("===== Student Management System =====\n")
	c.printf("1. Add student\n")
	c.printf("2. View all students\n")
	c.printf("3. Search student by ID\n")
	c.printf("4. Update student\n")
	c.printf("5. Delete student\n")
	c.printf("6. Save now\n")
	c.printf("7. Exit\n")
	c.printf("Enter choice: ")
}

// addStudent asks for every field of a new record. The id is checked for
// a duplicate first so the user is not asked for four more values that
// would then be thrown away.
func (c *Controller) addStudent() error {
	c.printf("--- Add New Student ---\n")
	id, err := c.readID("Enter student ID (integer): ")
	if err != nil {
		return err
	}
	// FindByID succeeding means the id is taken.
	if _, err := c.store.FindByID(id); err == nil {
		c.printf("ID already exists. Use a unique ID.\n")
		return nil
	}

	st := types.Student{ID: id}
	if st.Name, err = c.readRequired("Enter name: ", "name"); err != nil {
		return err
	}
	if st.Age, err = c.readAge("Enter age: "); err != nil {
		return err
	}
	if st.Email, err = c.readEmail("Enter email: "); err != nil {
		return err
	}
	if st.Course, err = c.readRequired("Enter course: ", "course"); err != nil {
		return err
	}

	// Add re-checks the id; it can only fail here if the store is shared
	// with the HTTP handlers and someone took the id meanwhile.
	if err := c.store.Add(st); err != nil {
		c.printf("Could not add student: %v\n", err)
		return nil
	}
	c.log.Debug("student added", slog.Int("id", id))
	c.printf("Student added successfully.\n")
	return nil
}

func (c *Controller) viewAll() {
	students := c.store.List()
	if len(students) == 0 {
		c.printf("No student records found.\n")
		return
	}
	c.printf("--- All Students ---\n")
	WriteTable(c.out, students)
}

// WriteTable prints students as fixed-width columns with a total line.
func WriteTable(w io.Writer, students []types.Student) {
	fmt.Fprintf(w, "%-6s %-20s %-5s %-25s %-15s\n", "ID", "Name", "Age", "Email", "Course")
	fmt.Fprintln(w, rule)
	for _, s := range students {
		fmt.Fprintf(w, "%-6d %-20s %-5d %-25s %-15s\n", s.ID, s.Name, s.Age, s.Email, s.Course)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total students: %d\n", len(students))
}

func (c *Controller) search() error {
	id, err := c.readID("Enter student ID to search: ")
	if err != nil {
		return err
	}
	s, err := c.store.FindByID(id)
	if err != nil {
		c.printf("Student with ID %d not found.\n", id)
		return nil
	}
	c.printf("Student found:\n")
	c.printf("ID: %d\nName: %s\nAge: %d\nEmail: %s\nCourse: %s\n",
		s.ID, s.Name, s.Age, s.Email, s.Course)
	return nil
}

// update asks for each field in turn. Empty input keeps the current value;
// an invalid age or email is reported and the old value kept.
func (c *Controller) update() error {
	id, err := c.readID("Enter student ID to update: ")
	if err != nil {
		return err
	}
	current, err := c.store.FindByID(id)
	if err != nil {
		c.printf("Student with ID %d not found.\n", id)
		return nil
	}
	c.printf("Leave input empty to keep current value.\n")

	var changes types.Changes

	c.printf("Current name: %s\n", current.Name)
	name, err := c.prompt("New name: ")
	if err != nil {
		return err
	}
	if name != "" {
		changes.Name = &name
	}

	c.printf("Current age: %d\n", current.Age)
	ageRaw, err := c.prompt("New age: ")
	if err != nil {
		return err
	}
	if ageRaw != "" {
		if age, err := validate.Age(ageRaw); err != nil {
			c.printf("Invalid age, keeping old value.\n")
		} else {
			changes.Age = &age
		}
	}

	c.printf("Current email: %s\n", current.Email)
	emailRaw, err := c.prompt("New email: ")
	if err != nil {
		return err
	}
	if emailRaw != "" {
		if email, err := validate.Email(emailRaw); err != nil {
			c.printf("Invalid email, keeping old value.\n")
		} else {
			changes.Email = &email
		}
	}

	c.printf("Current course: %s\n", current.Course)
	course, err := c.prompt("New course: ")
	if err != nil {
		return err
	}
	if course != "" {
		changes.Course = &course
	}

	// The values were checked above, so a *validate.Error here is only
	// possible for a name or course; it is reported and the rest applies.
	if _, err := c.store.Update(id, changes); err != nil {
		var verr *validate.Error
		if !errors.As(err, &verr) {
			c.printf("Could not update student: %v\n", err)
			return nil
		}
		c.printf("Some values were rejected: %v\n", err)
	}
	c.log.Debug("student updated", slog.Int("id", id))
	c.printf("Student updated.\n")
	return nil
}

// delete asks for confirmation; anything other than "yes"/"y" cancels.
func (c *Controller) delete() error {
	id, err := c.readID("Enter student ID to delete: ")
	if err != nil {
		return err
	}
	if _, err := c.store.FindByID(id); err != nil {
		c.printf("Student not found.\n")
		return nil
	}

	yes, err := c.confirm("Are you sure you want to delete this student? (yes/no): ")
	if err != nil {
		return err
	}
	if !yes {
		c.printf("Delete cancelled.\n")
		return nil
	}
	if err := c.store.Delete(id); err != nil {
		c.printf("Could not delete student: %v\n", err)
		return nil
	}
	c.log.Debug("student deleted", slog.Int("id", id))
	c.printf("Student deleted.\n")
	return nil
}

// save writes the store out and reports whether it succeeded. A failure
// leaves the in-memory records exactly as they were, so the user can fix
// the problem (permissions, disk space) and choose Save again.
func (c *Controller) save() bool {
	if err := c.persister.Save(c.store.Serialize()); err != nil {
		c.log.Error("failed to save students", slog.String("error", err.Error()))
		c.printf("Error saving file: %v\n", err)
		return false
	}
	c.log.Info("students saved",
		slog.Int("count", c.store.Len()),
		slog.String("location", c.persister.Location()))
	c.printf("Data saved to %s\n", c.persister.Location())
	return true
}

func (c *Controller) confirmExit() (bool, error) {
	yes, err := c.confirm("Save before exiting? (yes/no): ")
	if err != nil {
		return true, err
	}
	// A failed final save is reported but never blocks the exit.
	if yes && !c.save() {
		c.printf("Changes since the last successful save were not written.\n")
	}
	c.printf("Exiting. Goodbye!\n")
	return true, nil
}

func (c *Controller) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// readLine returns the next trimmed input line. A last line without a
// trailing newline is still returned; the call after it reports
// errInputClosed.
func (c *Controller) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if line == "" && err != nil {
		return "", errInputClosed
	}
	return strings.TrimSpace(line), nil
}

func (c *Controller) prompt(label string) (string, error) {
	c.printf("%s", label)
	return c.readLine()
}

func (c *Controller) confirm(label string) (bool, error) {
	ans, err := c.prompt(label)
	if err != nil {
		return false, err
	}
	ans = strings.ToLower(ans)
	return ans == "yes" || ans == "y", nil
}

// ask prompts until parse accepts the answer, printing hint after every
// rejected one.
func ask[T any](c *Controller, label, hint string, parse func(string) (T, error)) (T, error) {
	for {
		raw, err := c.prompt(label)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(raw)
		if err == nil {
			return v, nil
		}
		c.printf("%s\n", hint)
	}
}

func (c *Controller) readID(label string) (int, error) {
	return ask(c, label, "Please enter a valid integer.", validate.ID)
}

func (c *Controller) readAge(label string) (int, error) {
	return ask(c, label, "Age must be a whole number of at least 1.", validate.Age)
}

func (c *Controller) readEmail(label string) (string, error) {
	return ask(c, label, "Invalid email format. Example: name@example.com", validate.Email)
}

func (c *Controller) readRequired(label, field string) (string, error) {
	return ask(c, label, "Input cannot be empty or contain control characters.", func(raw string) (string, error) {
		return validate.Required(field, raw)
	})
}
