package service

import (
	"fmt"
	"sort"
	"strings"

	"draft-assistant/internal/domain"

	"github.com/antzucaro/matchr"
)

type SortKey string

const (
	SortByRank            SortKey = "rank"
	SortByProjectedPoints SortKey = "projected_points"
	SortByName            SortKey = "name"
	SortByAge             SortKey = "age"
	SortByExperience      SortKey = "experience_years"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortKey(raw string) (SortKey, error) {
	if raw == "" {
		return SortByRank, nil
	}
	key := SortKey(strings.ToLower(raw))
	switch key {
	case SortByRank, SortByProjectedPoints, SortByName, SortByAge, SortByExperience:
		return key, nil
	}
	return "", fmt.Errorf("unknown sort key %q", raw)
}

func ParseSortOrder(raw string) (SortOrder, error) {
	if raw == "" {
		return SortAsc, nil
	}
	order := SortOrder(strings.ToLower(raw))
	switch order {
	case SortAsc, SortDesc:
		return order, nil
	}
	return "", fmt.Errorf("unknown sort order %q", raw)
}

// Filter is a conjunction: every set field must match.
type Filter struct {
	Position     domain.Position
	Team         string
	Drafted      *bool
	NameContains string
}

// search filters, orders and truncates a pool snapshot. Pure: the input
// slice is never modified. limit <= 0 returns the full ordered set.
func search(players []domain.Player, f Filter, key SortKey, order SortOrder, limit int) []domain.Player {
	result := make([]domain.Player, 0, len(players))
	for _, p := range players {
		if matchesFilter(p, f) {
			result = append(result, p)
		}
	}

	sortPlayers(result, key, order)

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func matchesFilter(p domain.Player, f Filter) bool {
	if f.Position != "" && p.Position != f.Position {
		return false
	}
	if f.Team != "" && !strings.EqualFold(p.Team, f.Team) {
		return false
	}
	if f.Drafted != nil && p.Drafted != *f.Drafted {
		return false
	}
	if f.NameContains != "" && !matchesName(f.NameContains, p.Name) {
		return false
	}
	return true
}

const maxEditDistance = 2

// matchesName is the fuzzy name predicate: after normalization the query
// must be a substring of the name, a prefix of one of its tokens, or within
// a small edit distance of a token (queries of 4+ characters only, so short
// inputs stay precise).
func matchesName(query, name string) bool {
	q := normalizeName(query)
	if q == "" {
		return true
	}

	if strings.Contains(normalizeName(name), q) {
		return true
	}

	tokens := strings.Fields(strings.ToLower(name))
	for i, tok := range tokens {
		tokens[i] = normalizeName(tok)
		if strings.HasPrefix(tokens[i], q) {
			return true
		}
	}

	if len(q) < 4 {
		return false
	}
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if matchr.DamerauLevenshtein(q, tok) <= maxEditDistance {
			return true
		}
	}
	return false
}

func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sortPlayers orders by the given key with a deterministic total order:
// entries missing the key sort last regardless of direction, ties break by
// rank ascending then id ascending.
func sortPlayers(players []domain.Player, key SortKey, order SortOrder) {
	sort.Slice(players, func(i, j int) bool {
		a, b := players[i], players[j]

		cmp, aok, bok := compareByKey(a, b, key)
		if aok != bok {
			return aok
		}
		if aok && cmp != 0 {
			if order == SortDesc {
				return cmp > 0
			}
			return cmp < 0
		}

		if a.Ranked() != b.Ranked() {
			return a.Ranked()
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.ID < b.ID
	})
}

// compareByKey three-way compares a and b on key and reports whether each
// side carries the key at all.
func compareByKey(a, b domain.Player, key SortKey) (cmp int, aok, bok bool) {
	switch key {
	case SortByName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), true, true
	case SortByProjectedPoints:
		return compareFloat(a.ProjectedPoints, b.ProjectedPoints), true, true
	case SortByRank:
		return compareInt(a.Rank, b.Rank), a.Ranked(), b.Ranked()
	case SortByAge:
		return compareIntPtr(a.Age, b.Age)
	case SortByExperience:
		return compareIntPtr(a.ExperienceYears, b.ExperienceYears)
	}
	return 0, true, true
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareIntPtr(a, b *int) (cmp int, aok, bok bool) {
	aok = a != nil
	bok = b != nil
	if aok && bok {
		cmp = compareInt(*a, *b)
	}
	return cmp, aok, bok
}
