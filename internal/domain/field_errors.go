package domain

import "sort"

// FieldErrors maps a form field name to a user-facing message. An empty map
// means the input is valid.
type FieldErrors map[string]string

// Merge copies every entry of other into e, overwriting duplicates.
func (e FieldErrors) Merge(other FieldErrors) FieldErrors {
	if e == nil {
		e = FieldErrors{}
	}
	for field, msg := range other {
		e[field] = msg
	}
	return e
}

// Has reports whether field carries an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the fields in error, sorted for stable output.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
