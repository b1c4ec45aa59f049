// Package validation implements declarative, schema-driven validation of
// form input.
//
// A Schema is an ordered list of fields; every field owns an ordered chain of
// rules. Evaluation of a field stops at the first failing rule and reports
// its message, so rules are declared in the order required, format,
// length/range, cross-field. Schemas are immutable once built and are safe
// for concurrent use.
package validation

import (
	"errors"
	"sort"
	"strings"
)

// ErrUnknownField is returned by ValidateField for a name the schema does
// not declare.
var ErrUnknownField = errors.New("unknown field")

// Record is raw form input keyed by field name.
type Record map[string]string

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Field is one named input and its rule chain.
type Field struct {
	Name string
	// Optional fields whose trimmed value is empty are treated as not
	// provided and skip the whole chain.
	Optional bool
	// Trim normalizes the value before the rules see it.
	Trim  bool
	Rules []Rule
}

// Schema is a named, ordered set of fields.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema. Field order is preserved for ValidateForm and
// for Fields.
func NewSchema(name string, fields ...Field) *Schema {
	s := &Schema{name: name, fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		s.index[f.Name] = i
	}
	return s
}

// Name returns the registry name of the schema.
func (s *Schema) Name() string { return s.name }

// Fields returns the field names in declaration order.
func (s *Schema) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Has reports whether the schema declares field name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// ValidateField runs only the chain of the named field. The whole record is
// passed so cross-field rules can see their peers. An empty message means
// the value is valid.
func (s *Schema) ValidateField(name string, rec Record) (string, error) {
	i, ok := s.index[name]
	if !ok {
		return "", ErrUnknownField
	}
	return s.fields[i].check(rec), nil
}

// ValidateForm validates every field without stopping at the first failure.
// The result is empty iff rec is fully valid.
func (s *Schema) ValidateForm(rec Record) Errors {
	errs := Errors{}
	for _, f := range s.fields {
		if msg := f.check(rec); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

func (f Field) check(rec Record) string {
	v := rec[f.Name]
	if f.Trim {
		v = strings.TrimSpace(v)
	}
	if f.Optional && strings.TrimSpace(v) == "" {
		return ""
	}
	for _, r := range f.Rules {
		if msg := r.Check(v, rec); msg != "" {
			return msg
		}
	}
	return ""
}

// Errors maps field names to their first failing message.
type Errors map[string]string

// Error implements error so a failed ValidateForm result can be returned
// directly.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation passed"
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldErrors exposes the messages per field.
func (e Errors) FieldErrors() map[string]string { return e }

// OK reports whether there are no errors.
func (e Errors) OK() bool { return len(e) == 0 }
