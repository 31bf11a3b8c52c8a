package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrops-br/financial-products/internal/app/dto"
	"github.com/mrops-br/financial-products/internal/domain"
)

// ValidationError carries the per-property violations of a rejected request.
type ValidationError struct {
	Violations []dto.Violation
}

func (e *ValidationError) Error() string {
	props := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		props[i] = v.Property
	}
	return "invalid product: " + strings.Join(props, ", ")
}

// Rule names follow the class-validator style the API has always used.
const (
	ruleMinLength  = "minLength"
	ruleMaxLength  = "maxLength"
	ruleNotEmpty   = "isNotEmpty"
	ruleUnique     = "isUnique"
	ruleDate       = "isDate"
	ruleAfterToday = "isAfterToday"
	ruleOneYear    = "isOneYearAfter"
)

var propertyOrder = []string{
	domain.FieldID,
	domain.FieldName,
	domain.FieldDescription,
	domain.FieldLogo,
	domain.FieldDateRelease,
	domain.FieldDateRevision,
	domain.FieldGeneral,
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// violations accumulates constraints per property, keeping insertion order.
type violations map[string]dto.Constraints

func (vs violations) add(property, rule, message string) {
	vs[property] = append(vs[property], dto.Constraint{Rule: rule, Message: message})
}

func (vs violations) has(property string) bool {
	_, ok := vs[property]
	return ok
}

func (vs violations) err() error {
	if len(vs) == 0 {
		return nil
	}
	out := make([]dto.Violation, 0, len(vs))
	for _, prop := range propertyOrder {
		if cs, ok := vs[prop]; ok {
			out = append(out, dto.Violation{Property: prop, Constraints: cs})
		}
	}
	return &ValidationError{Violations: out}
}

// checkFields runs the length and presence rules.
func (s *ProductService) checkFields(req *dto.ProductRequest, vs violations) {
	err := s.validate.Struct(req)
	if err == nil {
		return
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		vs.add(domain.FieldGeneral, "isValid", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		prop := fe.Field()
		switch fe.Tag() {
		case "min":
			vs.add(prop, ruleMinLength, fmt.Sprintf("%s must be longer than or equal to %s characters", prop, fe.Param()))
		case "max":
			vs.add(prop, ruleMaxLength, fmt.Sprintf("%s must be shorter than or equal to %s characters", prop, fe.Param()))
		case "required":
			vs.add(prop, ruleNotEmpty, prop+" is required")
		default:
			vs.add(prop, fe.Tag(), fmt.Sprintf("%s failed on %s", prop, fe.Tag()))
		}
	}
}

// checkDates runs the calendar rules. The release date must not be in the
// past only when a product is created.
func checkDates(p *domain.Product, today domain.Date, creating bool, vs violations) {
	rel, relErr := domain.ParseDate(p.DateRelease)
	if relErr != nil {
		vs.add(domain.FieldDateRelease, ruleDate, "date_release must be a valid date")
	} else if creating && rel.Before(today) {
		vs.add(domain.FieldDateRelease, ruleAfterToday, "date_release must be equal or greater than today")
	}

	rev, revErr := domain.ParseDate(p.DateRevision)
	if revErr != nil {
		vs.add(domain.FieldDateRevision, ruleDate, "date_revision must be a valid date")
	} else if relErr == nil && rev != rel.AddYear() {
		vs.add(domain.FieldDateRevision, ruleOneYear, "date_revision must be exactly one year after date_release")
	}
}
