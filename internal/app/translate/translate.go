// Package translate turns Products API failures into field error maps that
// can be shown next to form inputs.
package translate

import (
	"errors"

	"github.com/mrops-br/financial-products/internal/domain"
	"github.com/mrops-br/financial-products/internal/infrastructure/client"
)

// MsgGeneral is shown for failures that carry no field information.
const MsgGeneral = "Ocurrió un error inesperado. Por favor, inténtelo de nuevo."

var messages = map[string]string{
	"id must be longer than or equal to 3 characters":           "El ID debe tener al menos 3 caracteres.",
	"id must be shorter than or equal to 10 characters":         "El ID debe tener como máximo 10 caracteres.",
	"id already exists":                                         "El ID ya existe.",
	"name must be longer than or equal to 5 characters":         "El nombre debe tener al menos 5 caracteres.",
	"name must be shorter than or equal to 100 characters":      "El nombre debe tener como máximo 100 caracteres.",
	"description must be longer than or equal to 10 characters": "La descripción debe tener al menos 10 caracteres.",
	"description must be shorter than or equal to 200 characters": "La descripción debe tener como máximo 200 caracteres.",
	"logo is required": "El logo es requerido.",
	"date_release must be equal or greater than today":          "La fecha de liberación debe ser igual o mayor a la fecha actual.",
	"date_revision must be exactly one year after date_release": "La fecha de revisión debe ser exactamente un año posterior a la fecha de liberación.",
}

// Message returns the localized form of a server constraint message, or the
// message itself when there is no translation.
func Message(msg string) string {
	if translated, ok := messages[msg]; ok {
		return translated
	}
	return msg
}

// Errors maps err to field messages. Structured validation failures yield one
// entry per property, built from its first constraint. Anything else,
// including nil, yields a single "general" entry.
func Errors(err error) domain.FieldErrors {
	out := domain.FieldErrors{}

	var verr *client.ValidationError
	if errors.As(err, &verr) {
		for _, v := range verr.Violations {
			if c, ok := v.Constraints.First(); ok && v.Property != "" {
				out[v.Property] = Message(c.Message)
			}
		}
	}

	if len(out) == 0 {
		out[domain.FieldGeneral] = MsgGeneral
	}
	return out
}
