package query

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
)

// ApplyFilters keeps the revisions that pass every active filter.
func ApplyFilters(revs []revision.Revision, f Filters, r Resolver) []revision.Revision {
	preds := predicates(f, r)
	out := make([]revision.Revision, 0, len(revs))
	for _, rev := range revs {
		if matchesAll(rev, preds) {
			out = append(out, rev)
		}
	}
	return out
}

type predicate func(revision.Revision) bool

func matchesAll(rev revision.Revision, preds []predicate) bool {
	for _, p := range preds {
		if !p(rev) {
			return false
		}
	}
	return true
}

func predicates(f Filters, r Resolver) []predicate {
	var preds []predicate
	addNames := func(values []string, col Column) {
		if len(values) == 0 {
			return
		}
		set := setOf(values)
		preds = append(preds, func(rev revision.Revision) bool {
			_, ok := set[display(rev, col, r)]
			return ok
		})
	}
	addNames(f.Ventures, ColumnVenture)
	addNames(f.Works, ColumnWork)
	addNames(f.Disciplines, ColumnDiscipline)
	addNames(f.Designers, ColumnDesigner)
	addNames(f.Numbers, ColumnNumber)
	addNames(statusStrings(f.DeliveryStatuses), ColumnDeliveryStatus)
	addNames(statusStrings(f.AnalysisStatuses), ColumnAnalysisStatus)

	addRange := func(rng DateRange, get func(revision.Revision) *caldate.Date) {
		if !rng.Active() {
			return
		}
		preds = append(preds, func(rev revision.Revision) bool {
			return rng.Admits(get(rev))
		})
	}
	addRange(f.ExpectedDelivery, func(rev revision.Revision) *caldate.Date { return &rev.ExpectedDeliveryDate })
	addRange(f.ActualDelivery, func(rev revision.Revision) *caldate.Date { return rev.ActualDeliveryDate })
	addRange(f.ExpectedAnalysis, func(rev revision.Revision) *caldate.Date { return rev.ExpectedAnalysisDate })
	addRange(f.ActualAnalysis, func(rev revision.Revision) *caldate.Date { return rev.ActualAnalysisDate })
	return preds
}

// ApplySort returns revs ordered by s. The sort is stable; an inactive sort
// returns revs in their given order.
func ApplySort(revs []revision.Revision, s Sort, r Resolver) []revision.Revision {
	out := slices.Clone(revs)
	if !s.Active() || !s.Column.Valid() {
		return out
	}
	compare := comparator(s.Column, r)
	slices.SortStableFunc(out, func(a, b revision.Revision) int {
		c := compare(a, b)
		if s.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

func comparator(col Column, r Resolver) func(a, b revision.Revision) int {
	if col == ColumnNumber {
		return func(a, b revision.Revision) int { return cmp.Compare(a.Number, b.Number) }
	}
	return func(a, b revision.Revision) int {
		return cmp.Compare(display(a, col, r), display(b, col, r))
	}
}

// display returns the text a column shows for rev: resolved names for
// references, the number as text, statuses, and ISO dates ("" when absent).
func display(rev revision.Revision, col Column, r Resolver) string {
	switch col {
	case ColumnVenture:
		return resolve(r, catalog.KindVenture, rev.VentureID)
	case ColumnWork:
		return resolve(r, catalog.KindWork, rev.WorkID)
	case ColumnDiscipline:
		return resolve(r, catalog.KindDiscipline, rev.DisciplineID)
	case ColumnDesigner:
		return resolve(r, catalog.KindDesigner, rev.DesignerID)
	case ColumnNumber:
		return strconv.Itoa(rev.Number)
	case ColumnDeliveryStatus:
		return string(rev.DeliveryStatus)
	case ColumnAnalysisStatus:
		return string(rev.AnalysisStatus)
	case ColumnExpectedDelivery:
		return rev.ExpectedDeliveryDate.String()
	case ColumnActualDelivery:
		return caldate.StringOf(rev.ActualDeliveryDate)
	case ColumnExpectedAnalysis:
		return caldate.StringOf(rev.ExpectedAnalysisDate)
	case ColumnActualAnalysis:
		return caldate.StringOf(rev.ActualAnalysisDate)
	}
	return ""
}

func resolve(r Resolver, kind catalog.Kind, id string) string {
	if r == nil {
		return ""
	}
	return r.Resolve(kind, id)
}

// UniqueValues holds the distinct display values of each categorical column.
type UniqueValues map[Column][]string

var categorical = []Column{
	ColumnVenture, ColumnWork, ColumnDiscipline, ColumnDesigner, ColumnNumber,
	ColumnDeliveryStatus, ColumnAnalysisStatus,
}

// Unique collects the distinct, non-empty display values of the categorical
// columns. Text columns sort ascending; revision numbers sort numerically.
func Unique(revs []revision.Revision, r Resolver) UniqueValues {
	values := make(UniqueValues, len(categorical))
	for _, col := range categorical {
		seen := map[string]struct{}{}
		list := []string{}
		for _, rev := range revs {
			v := display(rev, col, r)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			list = append(list, v)
		}
		if col == ColumnNumber {
			slices.SortFunc(list, func(a, b string) int {
				x, _ := strconv.Atoi(a)
				y, _ := strconv.Atoi(b)
				return cmp.Compare(x, y)
			})
		} else {
			slices.Sort(list)
		}
		values[col] = list
	}
	return values
}

func setOf(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func statusStrings(statuses []revision.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
