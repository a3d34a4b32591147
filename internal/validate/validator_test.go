package validate

import (
	"testing"

	"draft-assistant/internal/domain"

	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestCleanName(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"  josh   allen ", "Josh Allen"},
		{"Patrick Mahomes Jr.", "Patrick Mahomes"},
		{"Odell Beckham Jr", "Odell Beckham"},
		{"DJ Moore", "D.J. Moore"},
		{"Christian McCaffrey", "Christian McCaffrey"},
		{"Ja'Marr Chase", "Ja'Marr Chase"},
		{"Amon-Ra St. Brown", "AmonRa St. Brown"},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, CleanName(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeTeam(t *testing.T) {
	require.Equal(t, "WAS", NormalizeTeam("WSH"))
	require.Equal(t, "JAX", NormalizeTeam("jac"))
	require.Equal(t, "LV", NormalizeTeam("LAS"))
	require.Equal(t, "BUF", NormalizeTeam(" buf "))
	require.Equal(t, "FA", NormalizeTeam(""))
}

func TestNormalizePosition(t *testing.T) {
	require.Equal(t, domain.PositionDEF, NormalizePosition("D/ST"))
	require.Equal(t, domain.PositionDEF, NormalizePosition("dst"))
	require.Equal(t, domain.PositionRB, NormalizePosition(" rb"))
}

func TestValidateAcceptsCleanRecord(t *testing.T) {
	v := New()

	p, err := v.Validate(domain.RawPlayer{
		ID:              "p1",
		Name:            "josh allen",
		Position:        "qb",
		Team:            "BUF",
		Rank:            1,
		ProjectedPoints: 390.5,
		Age:             intp(28),
		ExperienceYears: intp(6),
		Source:          "sleeper",
	})
	require.NoError(t, err)
	require.Equal(t, "Josh Allen", p.Name)
	require.Equal(t, domain.PositionQB, p.Position)
	require.Equal(t, "BUF", p.Team)
	require.Equal(t, "sleeper", p.Source)
}

func TestValidateRejections(t *testing.T) {
	v := New()

	testCases := []struct {
		name  string
		raw   domain.RawPlayer
		field string
	}{
		{
			name:  "missing name",
			raw:   domain.RawPlayer{Name: " ", Position: "QB", Team: "BUF"},
			field: "name",
		},
		{
			name:  "free text position",
			raw:   domain.RawPlayer{Name: "Josh Allen", Position: "QUARTERBACK", Team: "BUF"},
			field: "position",
		},
		{
			name:  "unknown team",
			raw:   domain.RawPlayer{Name: "Josh Allen", Position: "QB", Team: "ZZZ"},
			field: "team",
		},
		{
			name:  "negative rank",
			raw:   domain.RawPlayer{Name: "Josh Allen", Position: "QB", Team: "BUF", Rank: -1},
			field: "rank",
		},
		{
			name:  "negative projection",
			raw:   domain.RawPlayer{Name: "Josh Allen", Position: "QB", Team: "BUF", ProjectedPoints: -10},
			field: "projected_points",
		},
		{
			name:  "drafted without owner",
			raw:   domain.RawPlayer{Name: "Josh Allen", Position: "QB", Team: "BUF", Drafted: true},
			field: "drafted_by",
		},
		{
			name:  "owner without drafted",
			raw:   domain.RawPlayer{Name: "Josh Allen", Position: "QB", Team: "BUF", DraftedBy: "me"},
			field: "drafted_by",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Validate(tc.raw)
			require.Error(t, err)

			verr, ok := err.(*domain.ValidationError)
			require.True(t, ok, "expected a ValidationError, got %T", err)
			require.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestValidateDefaultsSourceAndTeam(t *testing.T) {
	v := New()

	p, err := v.Validate(domain.RawPlayer{Name: "Free Agent Guy", Position: "WR", Team: ""})
	require.NoError(t, err)
	require.Equal(t, "FA", p.Team)
	require.Equal(t, "manual", p.Source)
}
