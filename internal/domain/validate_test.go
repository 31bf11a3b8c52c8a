package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDates_ExactYearAcceptedForEveryDay(t *testing.T) {
	start := Date{Year: 2024, Month: time.January, Day: 1}
	for i := 0; i < 3*366; i++ {
		rel := start.AddDays(i)
		rev := rel.AddYear()

		errs := ValidateDates(rel.String(), rev.String())
		require.Empty(t, errs, "release %s revision %s", rel, rev)

		for _, drift := range []int{-1, 1} {
			errs := ValidateDates(rel.String(), rev.AddDays(drift).String())
			require.Equal(t, MsgRevisionNotYear, errs[FieldDateRevision],
				"release %s revision %s", rel, rev.AddDays(drift))
			require.False(t, errs.Has(FieldDateRelease))
		}
	}
}

func TestValidateDates_LeapDay(t *testing.T) {
	assert.Empty(t, ValidateDates("2024-02-29", "2025-02-28"))
	assert.Equal(t, MsgRevisionNotYear, ValidateDates("2024-02-29", "2025-03-01")[FieldDateRevision])

	// Feb 28 of a leap year maps to Feb 28, not Feb 29.
	assert.Empty(t, ValidateDates("2027-02-28", "2028-02-28"))
	assert.NotEmpty(t, ValidateDates("2027-02-28", "2028-02-29"))
}

func TestValidateDates_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		release  string
		revision string
		want     FieldErrors
	}{
		{
			name:     "bad release",
			release:  "not-a-date",
			revision: "2026-01-01",
			want:     FieldErrors{FieldDateRelease: MsgInvalidRelease},
		},
		{
			name:     "bad revision",
			release:  "2025-01-01",
			revision: "2026-13-01",
			want:     FieldErrors{FieldDateRevision: MsgInvalidRevision},
		},
		{
			name:     "both empty",
			release:  "",
			revision: " ",
			want: FieldErrors{
				FieldDateRelease:  MsgInvalidRelease,
				FieldDateRevision: MsgInvalidRevision,
			},
		},
		{
			name:     "impossible day",
			release:  "2025-02-30",
			revision: "2026-02-28",
			want:     FieldErrors{FieldDateRelease: MsgInvalidRelease},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, ValidateDates(tt.release, tt.revision))
			})
		})
	}
}

func TestValidateDates_Idempotent(t *testing.T) {
	inputs := [][2]string{
		{"2025-06-15", "2026-06-15"},
		{"2025-06-15", "2026-06-16"},
		{"garbage", "2026-06-15"},
	}
	for _, in := range inputs {
		assert.Equal(t, ValidateDates(in[0], in[1]), ValidateDates(in[0], in[1]))
	}
}

func TestValidateDates_AcceptsTimestamps(t *testing.T) {
	errs := ValidateDates("2025-01-01T00:00:00.000+00:00", "2026-01-01T00:00:00.000+00:00")
	assert.Empty(t, errs)
}

func TestRevisionFor(t *testing.T) {
	rev, err := RevisionFor("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", rev)

	_, err = RevisionFor("10/03/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
