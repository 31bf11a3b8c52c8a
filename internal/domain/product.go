package domain

import (
	"errors"
	"strings"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product already exists")
)

// Field names as they appear on the wire and in FieldErrors.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldLogo         = "logo"
	FieldDateRelease  = "date_release"
	FieldDateRevision = "date_revision"
	FieldGeneral      = "general"
)

// Length limits enforced by the products API.
const (
	IDMinLen          = 3
	IDMaxLen          = 10
	NameMinLen        = 5
	NameMaxLen        = 100
	DescriptionMinLen = 10
	DescriptionMaxLen = 200
)

// Product is a catalogued financial product. Dates are carried as calendar
// date strings (YYYY-MM-DD) exactly as the API exchanges them.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision"`
}

// NameContains reports whether the product name contains term, ignoring case.
// An empty term matches every product.
func (p Product) NameContains(term string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(term))
}

// Normalized returns a copy with both dates reduced to YYYY-MM-DD when they
// parse. Unparseable dates are left untouched for the validator to report.
func (p Product) Normalized() Product {
	if d, err := ParseDate(p.DateRelease); err == nil {
		p.DateRelease = d.String()
	}
	if d, err := ParseDate(p.DateRevision); err == nil {
		p.DateRevision = d.String()
	}
	return p
}
