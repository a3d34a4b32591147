package validate

import (
	"regexp"
	"strings"
	"unicode"

	"draft-assistant/internal/domain"
)

// Validator turns loose inbound records into strict Players. Everything the
// query and recommendation engines see has passed through here.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

var nflTeams = map[string]struct{}{
	"ARI": {}, "ATL": {}, "BAL": {}, "BUF": {}, "CAR": {}, "CHI": {},
	"CIN": {}, "CLE": {}, "DAL": {}, "DEN": {}, "DET": {}, "GB": {},
	"HOU": {}, "IND": {}, "JAX": {}, "KC": {}, "LV": {}, "LAC": {},
	"LAR": {}, "MIA": {}, "MIN": {}, "NE": {}, "NO": {}, "NYG": {},
	"NYJ": {}, "PHI": {}, "PIT": {}, "SF": {}, "SEA": {}, "TB": {},
	"TEN": {}, "WAS": {},
}

var teamAliases = map[string]string{
	"LAS":  "LV",
	"LVRD": "LV",
	"WSH":  "WAS",
	"WFT":  "WAS",
	"JAC":  "JAX",
}

var positionAliases = map[string]string{
	"D/ST": "DEF",
	"DST":  "DEF",
}

// Sources disagree on initial-style names ("DJ Moore" vs "D.J. Moore").
var initialVariants = map[string]string{
	"DJ": "D.J.", "AJ": "A.J.", "TJ": "T.J.", "CJ": "C.J.",
	"JJ": "J.J.", "RJ": "R.J.", "BJ": "B.J.", "MJ": "M.J.", "PJ": "P.J.",
}

var (
	suffixPattern   = regexp.MustCompile(`(?i)\s+(Jr\.?|Sr\.?|III|IV|V)$`)
	nameCharPattern = regexp.MustCompile(`[^a-zA-Z\s.']+`)
)

// CleanName standardizes a display name: collapsed whitespace, suffixes
// stripped, initials normalized, stray characters removed, leading letters
// capitalized. Interior casing is preserved so "McCaffrey" survives.
func CleanName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = suffixPattern.ReplaceAllString(name, "")
	name = nameCharPattern.ReplaceAllString(name, "")

	parts := strings.Fields(name)
	for i, part := range parts {
		if std, ok := initialVariants[strings.ToUpper(part)]; ok {
			parts[i] = std
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// NormalizeTeam maps a franchise code to its canonical form. Empty and
// unsigned players map to FA.
func NormalizeTeam(team string) string {
	team = strings.ToUpper(strings.TrimSpace(team))
	if team == "" {
		return "FA"
	}
	if canonical, ok := teamAliases[team]; ok {
		return canonical
	}
	return team
}

// NormalizePosition maps position spellings to the closed enumeration.
func NormalizePosition(position string) domain.Position {
	position = strings.ToUpper(strings.TrimSpace(position))
	if canonical, ok := positionAliases[position]; ok {
		position = canonical
	}
	return domain.Position(position)
}

// Validate checks a raw record against the pool invariants and returns the
// cleaned Player. The returned error is a *domain.ValidationError; callers
// report it per record and keep going.
func (v *Validator) Validate(raw domain.RawPlayer) (domain.Player, error) {
	name := CleanName(raw.Name)
	if len(name) < 2 {
		return domain.Player{}, domain.NewValidationError("name", "missing or too short")
	}

	position := NormalizePosition(raw.Position)
	if !position.Valid() {
		return domain.Player{}, domain.NewValidationError("position", "unrecognized position "+raw.Position)
	}

	team := NormalizeTeam(raw.Team)
	if _, ok := nflTeams[team]; !ok && team != "FA" {
		return domain.Player{}, domain.NewValidationError("team", "unknown franchise code "+raw.Team)
	}

	if raw.Rank < 0 {
		return domain.Player{}, domain.NewValidationError("rank", "must not be negative")
	}
	if raw.ProjectedPoints < 0 {
		return domain.Player{}, domain.NewValidationError("projected_points", "must not be negative")
	}
	if raw.Age != nil && *raw.Age < 0 {
		return domain.Player{}, domain.NewValidationError("age", "must not be negative")
	}
	if raw.ExperienceYears != nil && *raw.ExperienceYears < 0 {
		return domain.Player{}, domain.NewValidationError("experience_years", "must not be negative")
	}

	if raw.Drafted && raw.DraftedBy == "" {
		return domain.Player{}, domain.NewValidationError("drafted_by", "required when drafted")
	}
	if !raw.Drafted && raw.DraftedBy != "" {
		return domain.Player{}, domain.NewValidationError("drafted_by", "set on an undrafted player")
	}

	source := strings.TrimSpace(raw.Source)
	if source == "" {
		source = "manual"
	}

	return domain.Player{
		ID:              strings.TrimSpace(raw.ID),
		Name:            name,
		Position:        position,
		Team:            team,
		Rank:            raw.Rank,
		ProjectedPoints: raw.ProjectedPoints,
		Age:             raw.Age,
		ExperienceYears: raw.ExperienceYears,
		Drafted:         raw.Drafted,
		DraftedBy:       raw.DraftedBy,
		Source:          source,
	}, nil
}
