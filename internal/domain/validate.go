package domain

const (
	MsgInvalidRelease  = "La fecha de liberación no es válida."
	MsgInvalidRevision = "La fecha de revisión no es válida."
	MsgRevisionNotYear = "La fecha de revisión debe ser exactamente un año posterior a la fecha de liberación."
)

// ValidateDates checks that both dates parse and that revision is exactly one
// calendar year after release. It has no side effects.
func ValidateDates(release, revision string) FieldErrors {
	errs := FieldErrors{}

	rel, relErr := ParseDate(release)
	if relErr != nil {
		errs[FieldDateRelease] = MsgInvalidRelease
	}
	rev, revErr := ParseDate(revision)
	if revErr != nil {
		errs[FieldDateRevision] = MsgInvalidRevision
	}
	if relErr == nil && revErr == nil && rev != rel.AddYear() {
		errs[FieldDateRevision] = MsgRevisionNotYear
	}

	return errs
}
