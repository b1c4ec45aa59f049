// Package form holds the per-form state machine that wires input events to
// the validation package: values, per-field errors, touched flags and a
// form-level message.
//
// States move clean → editing (a field was touched) → submitting (the form
// validated and the caller's action is running) and back to clean on
// success or editing on failure.
package form

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/recipebook/internal/validation"
)

// State of a form instance.
type State int

const (
	StateClean State = iota
	StateEditing
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// ErrBusy is returned by Submit while a previous submission is in flight.
var ErrBusy = errors.New("form is already submitting")

// Action is the caller-supplied work performed with validated values.
type Action func(ctx context.Context, values validation.Record) error

// FieldErrorer is implemented by errors that carry structured per-field
// messages, e.g. API validation failures.
type FieldErrorer interface {
	FieldErrors() map[string]string
}

// UserMessager is implemented by errors that know how to describe
// themselves to an end user.
type UserMessager interface {
	UserMessage() string
}

// Form is the state of one form instance. It is safe for concurrent use.
type Form struct {
	mu      sync.Mutex
	schema  *validation.Schema
	initial validation.Record
	values  validation.Record
	errors  map[string]string
	touched map[string]bool
	general string
	state   State
}

// New creates a form in the clean state. initial may be nil.
func New(schema *validation.Schema, initial validation.Record) *Form {
	f := &Form{schema: schema, initial: validation.Record{}}
	for _, name := range schema.Fields() {
		f.initial[name] = initial[name]
	}
	f.resetLocked()
	return f
}

func (f *Form) resetLocked() {
	f.values = f.initial.Clone()
	f.errors = map[string]string{}
	f.touched = map[string]bool{}
	f.general = ""
	f.state = StateClean
}

// Reset restores the initial values and clears errors and touched flags.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

// OnChange stores a new value. A pending error on the field is cleared;
// re-validation waits for blur or submit. Unknown fields are ignored.
func (f *Form) OnChange(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.schema.Has(field) {
		return
	}
	f.values[field] = value
	if f.errors[field] != "" {
		delete(f.errors, field)
	}
}

// OnBlur marks the field touched and validates it. The returned message is
// empty when the field is valid.
func (f *Form) OnBlur(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg, err := f.schema.ValidateField(field, f.values)
	if err != nil {
		return ""
	}
	f.touched[field] = true
	if f.state == StateClean {
		f.state = StateEditing
	}
	if msg == "" {
		delete(f.errors, field)
	} else {
		f.errors[field] = msg
	}
	return msg
}

// Submit validates every field. Invalid forms return validation.Errors
// without calling action. Otherwise the form enters StateSubmitting for
// the duration of action; success resets it, failure returns it to
// StateEditing with the server errors attached.
func (f *Form) Submit(ctx context.Context, action Action) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrBusy
	}

	f.general = ""
	errs := f.schema.ValidateForm(f.values)
	for _, name := range f.schema.Fields() {
		f.touched[name] = true
	}
	if !errs.OK() {
		f.errors = make(map[string]string, len(errs))
		for k, v := range errs {
			f.errors[k] = v
		}
		f.state = StateEditing
		f.mu.Unlock()
		return errs
	}

	f.errors = map[string]string{}
	f.state = StateSubmitting
	values := f.values.Clone()
	f.mu.Unlock()

	err := action(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		f.resetLocked()
		return nil
	}
	f.state = StateEditing
	f.attachLocked(err)
	return err
}

func (f *Form) attachLocked(err error) {
	var fe FieldErrorer
	if errors.As(err, &fe) {
		fields := fe.FieldErrors()
		var general []string
		for _, field := range slices.Sorted(maps.Keys(fields)) {
			msg := fields[field]
			if f.schema.Has(field) {
				f.errors[field] = msg
				continue
			}
			if msg != "" {
				general = append(general, msg)
			}
		}
		f.general = strings.Join(general, "; ")
		if len(f.errors) > 0 || f.general != "" {
			return
		}
	}
	var um UserMessager
	if errors.As(err, &um) {
		f.general = um.UserMessage()
		return
	}
	f.general = err.Error()
}

// SetFieldError attaches msg to field. Names outside the schema are
// stored as the general message.
func (f *Form) SetFieldError(field, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.schema.Has(field) {
		f.general = msg
		return
	}
	if msg == "" {
		delete(f.errors, field)
		return
	}
	f.errors[field] = msg
}

// SetValues replaces all values, e.g. when an edit form is loaded.
func (f *Form) SetValues(values validation.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range f.schema.Fields() {
		f.values[name] = values[name]
	}
}

// Values returns a copy of the current values.
func (f *Form) Values() validation.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Clone()
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Error returns the current message for field.
func (f *Form) Error(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

// Touched reports whether field has been blurred or submitted.
func (f *Form) Touched(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[field]
}

// General returns the form-level error message.
func (f *Form) General() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.general
}

// State returns the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Schema returns the schema the form validates against.
func (f *Form) Schema() *validation.Schema { return f.schema }
