package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrorResponse is the body of every 4xx/5xx answer. Errors is only present
// on validation failures.
type ErrorResponse struct {
	Name    string      `json:"name"`
	Message string      `json:"message"`
	Errors  []Violation `json:"errors,omitempty"`
}

// Violation lists the failed rules of one property.
type Violation struct {
	Property    string      `json:"property"`
	Constraints Constraints `json:"constraints"`
}

// Constraint is a rule name and its message.
type Constraint struct {
	Rule    string
	Message string
}

// Constraints is a JSON object of rule -> message whose key order is kept
// in both directions; the first key is the one shown to users.
type Constraints []Constraint

// First returns the first constraint, if any.
func (c Constraints) First() (Constraint, bool) {
	if len(c) == 0 {
		return Constraint{}, false
	}
	return c[0], true
}

func (c Constraints) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, con := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(con.Rule)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(con.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Constraints) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("constraints: expected object, got %v", tok)
	}

	var out Constraints
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var msg string
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("constraints.%s: %w", key, err)
		}
		out = append(out, Constraint{Rule: key, Message: msg})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}
