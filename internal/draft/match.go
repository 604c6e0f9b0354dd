// Package draft maps name-keyed revision drafts, as produced by an extraction
// service, onto catalog ids using fuzzy name matching.
package draft

import (
	"slices"
	"strings"

	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/textnorm"
)

// AcceptThreshold is the lowest score a match is accepted with.
const AcceptThreshold = 55

// minFragment is the shortest query that prefix and substring matching consider.
const minFragment = 3

// Score rates how well query names candidate on a 0 to 100 scale. Matching
// ignores case, diacritics and punctuation. Exact and compact-key matches
// score 100 and 95. Otherwise token overlap, acronym, prefix and substring
// heuristics are combined: the strongest sets the base and the runner-up
// closes half its share of the remaining gap.
func Score(query, candidate string) int {
	a, b := textnorm.Fold(query), textnorm.Fold(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	ka, kb := textnorm.Key(a), textnorm.Key(b)
	if ka == kb {
		return 95
	}

	scores := []int{tokenOverlap(textnorm.Tokens(a), textnorm.Tokens(b))}
	if isAcronym(ka, b) || isAcronym(kb, a) {
		scores = append(scores, 90)
	}
	shorter, longer := ka, kb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= minFragment {
		// Longer overlaps score higher: up to 30 points for the length ratio.
		bonus := 30 * len(shorter) / len(longer)
		switch {
		case strings.HasPrefix(longer, shorter):
			scores = append(scores, 70+bonus)
		case strings.Contains(longer, shorter):
			scores = append(scores, 60+bonus)
		}
	}
	return combine(scores)
}

// combine blends heuristic scores. The result is at least the best score and
// at most 100; a lone heuristic scores as itself.
func combine(scores []int) int {
	slices.SortFunc(scores, func(x, y int) int { return y - x })
	best := min(scores[0], 100)
	if len(scores) < 2 || best == 0 {
		return best
	}
	return min(best+(100-best)*scores[1]/200, 100)
}

func tokenOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	in := make(map[string]struct{}, len(b))
	for _, t := range b {
		in[t] = struct{}{}
	}
	seen := map[string]struct{}{}
	common := 0
	for _, t := range a {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := in[t]; ok {
			common++
		}
	}
	return common * 100 / max(len(a), len(b))
}

// isAcronym reports whether key spells the initials of the words of name,
// either with connectives ("RSJ") or without them ("EDF" for "Edificio das
// Flores" counts both "EF" and "EDF").
func isAcronym(key, name string) bool {
	return initials(textnorm.Tokens(name)) == key || initials(strings.Fields(name)) == key
}

func initials(words []string) string {
	if len(words) < 2 {
		return ""
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteRune([]rune(w)[0])
	}
	return b.String()
}

// Match is the outcome of matching one name.
type Match struct {
	Query string `json:"query"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Score int    `json:"score"`
	// Ambiguous is set when several entries share the best score.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// Resolved reports whether the match picked an entry.
func (m Match) Resolved() bool { return m.ID != "" }

// Best picks the entry that query names. Low scores and ties leave the id
// unset; the caller then chooses by hand.
func Best(query string, entries []catalog.Entry) Match {
	m := Match{Query: query}
	if strings.TrimSpace(query) == "" {
		return m
	}
	var top catalog.Entry
	tied := false
	for _, e := range entries {
		s := Score(query, e.Name)
		switch {
		case s > m.Score:
			m.Score, top, tied = s, e, false
		case s == m.Score && s > 0:
			tied = true
		}
	}
	if m.Score < AcceptThreshold {
		return m
	}
	if tied {
		m.Ambiguous = true
		return m
	}
	m.ID, m.Name = top.ID, top.Name
	return m
}
