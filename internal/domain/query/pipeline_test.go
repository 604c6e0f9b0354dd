package query

import (
	"fmt"
	"testing"

	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/stretchr/testify/require"
)

type names map[catalog.Kind]map[string]string

func (n names) Resolve(kind catalog.Kind, id string) string { return n[kind][id] }

var resolver = names{
	catalog.KindVenture:    {"v1": "Aurora", "v2": "Bosque"},
	catalog.KindWork:       {"w1": "Torre A", "w2": "Torre B", "w3": "Garagem"},
	catalog.KindDiscipline: {"d1": "Estrutura", "d2": "Elétrica"},
	catalog.KindDesigner:   {"p1": "Alfa", "p2": "Beta"},
}

func date(s string) *caldate.Date {
	if s == "" {
		return nil
	}
	return caldate.MustParse(s).Ptr()
}

func rev(id, venture, work, discipline, designer string, number int, expected, actual string) revision.Revision {
	return revision.Derive(revision.Revision{
		ID:                   id,
		VentureID:            venture,
		WorkID:               work,
		DisciplineID:         discipline,
		DesignerID:           designer,
		Number:               number,
		ExpectedDeliveryDate: caldate.MustParse(expected),
		ActualDeliveryDate:   date(actual),
		Justification:        "j",
	}, 5)
}

func fixture() []revision.Revision {
	return []revision.Revision{
		rev("a", "v1", "w1", "d1", "p1", 1, "2025-01-10", "2025-01-09"),
		rev("b", "v1", "w1", "d1", "p1", 2, "2025-02-10", "2025-02-12"),
		rev("c", "v2", "w2", "d2", "p2", 1, "2025-03-01", ""),
		rev("d", "v2", "w3", "d1", "p2", 10, "2025-01-20", "2025-01-20"),
		rev("e", "v1", "w1", "d2", "p1", 9, "2025-04-01", ""),
		rev("f", "v9", "w9", "d9", "p9", 3, "2025-05-01", "2025-06-01"),
	}
}

func ids(revs []revision.Revision) []string {
	out := make([]string, len(revs))
	for i, r := range revs {
		out[i] = r.ID
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	revs := fixture()
	cases := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"no filters", Filters{}, []string{"a", "b", "c", "d", "e", "f"}},
		{"venture by name", Filters{Ventures: []string{"Bosque"}}, []string{"c", "d"}},
		{"multi select is or within column", Filters{Works: []string{"Torre B", "Garagem"}}, []string{"c", "d"}},
		{"and across columns", Filters{Ventures: []string{"Aurora"}, Disciplines: []string{"Elétrica"}}, []string{"e"}},
		{"unknown ids resolve to empty", Filters{Designers: []string{""}}, []string{"f"}},
		{"number as text", Filters{Numbers: []string{"1", "10"}}, []string{"a", "c", "d"}},
		{"delivery status", Filters{DeliveryStatuses: []revision.Status{revision.StatusLate}}, []string{"b", "f"}},
		{"analysis status", Filters{AnalysisStatuses: []revision.Status{revision.StatusPending}}, []string{"a", "b", "c", "d", "e", "f"}},
		{"expected range inclusive", Filters{ExpectedDelivery: DateRange{From: date("2025-01-20"), To: date("2025-03-01")}}, []string{"b", "c", "d"}},
		{"open upper bound", Filters{ExpectedDelivery: DateRange{From: date("2025-04-01")}}, []string{"e", "f"}},
		{"absent actual date passes", Filters{ActualDelivery: DateRange{To: date("2025-01-31")}}, []string{"a", "c", "d", "e"}},
		{"expected analysis range", Filters{ExpectedAnalysis: DateRange{From: date("2025-01-25")}}, []string{"b", "c", "d", "e", "f"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ids(ApplyFilters(revs, tc.filters, resolver)))
		})
	}
}

func TestApplyFilters_Commutative(t *testing.T) {
	revs := fixture()
	a := Filters{Ventures: []string{"Aurora"}}
	b := Filters{ActualDelivery: DateRange{From: date("2025-01-01"), To: date("2025-01-31")}}
	both := Filters{Ventures: a.Ventures, ActualDelivery: b.ActualDelivery}

	ab := ApplyFilters(ApplyFilters(revs, a, resolver), b, resolver)
	ba := ApplyFilters(ApplyFilters(revs, b, resolver), a, resolver)
	require.Equal(t, ids(ab), ids(ba))
	require.Equal(t, ids(ab), ids(ApplyFilters(revs, both, resolver)))
	require.Equal(t, []string{"a", "e"}, ids(ab))
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	revs := fixture()
	before := ids(revs)
	_ = ApplySort(ApplyFilters(revs, Filters{Numbers: []string{"1"}}, resolver), Sort{Column: ColumnNumber, Direction: Descending}, resolver)
	require.Equal(t, before, ids(revs))
}

func TestApplySort(t *testing.T) {
	revs := fixture()
	cases := []struct {
		sort Sort
		want []string
	}{
		{Sort{}, []string{"a", "b", "c", "d", "e", "f"}},
		{Sort{ColumnNumber, Ascending}, []string{"a", "c", "b", "f", "e", "d"}},
		{Sort{ColumnNumber, Descending}, []string{"d", "e", "f", "b", "a", "c"}},
		// Unknown designer resolves to "" and sorts first; equal names keep input order.
		{Sort{ColumnDesigner, Ascending}, []string{"f", "a", "b", "e", "c", "d"}},
		{Sort{ColumnWork, Ascending}, []string{"f", "d", "a", "b", "e", "c"}},
		// Absent dates sort as "".
		{Sort{ColumnActualDelivery, Ascending}, []string{"c", "e", "a", "d", "b", "f"}},
		{Sort{ColumnDeliveryStatus, Ascending}, []string{"b", "f", "a", "d", "c", "e"}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s-%s", tc.sort.Column, tc.sort.Direction), func(t *testing.T) {
			require.Equal(t, tc.want, ids(ApplySort(revs, tc.sort, resolver)))
		})
	}
}

func TestApplySort_Stable(t *testing.T) {
	var revs []revision.Revision
	for i := 0; i < 50; i++ {
		revs = append(revs, rev(fmt.Sprintf("r%02d", i), "v1", "w1", "d1", []string{"p1", "p2"}[i%2], i, "2025-01-01", ""))
	}
	sorted := ApplySort(revs, Sort{ColumnDesigner, Ascending}, resolver)
	var prevAlfa, prevBeta int = -1, -1
	for _, r := range sorted {
		if r.DesignerID == "p1" {
			require.Greater(t, r.Number, prevAlfa)
			prevAlfa = r.Number
		} else {
			require.Greater(t, r.Number, prevBeta)
			prevBeta = r.Number
		}
	}
	require.Equal(t, "p1", sorted[0].DesignerID)
	require.Equal(t, "p2", sorted[49].DesignerID)
}

func TestSortToggle(t *testing.T) {
	s := Sort{}
	s = s.Toggle(ColumnVenture)
	require.Equal(t, Sort{ColumnVenture, Ascending}, s)
	s = s.Toggle(ColumnVenture)
	require.Equal(t, Sort{ColumnVenture, Descending}, s)
	s = s.Toggle(ColumnVenture)
	require.False(t, s.Active())

	s = Sort{ColumnVenture, Descending}.Toggle(ColumnWork)
	require.Equal(t, Sort{ColumnWork, Ascending}, s)

	// Clearing the sort restores filtered order, not the collection order.
	filtered := ApplyFilters(fixture(), Filters{Ventures: []string{"Bosque"}}, resolver)
	require.Equal(t, ids(filtered), ids(ApplySort(filtered, Sort{}, resolver)))
}

func TestPaginate(t *testing.T) {
	for _, size := range PageSizes {
		for _, count := range []int{0, 1, 99, 100, 101, 499, 500, 1000, 1001, 2500} {
			revs := make([]revision.Revision, count)
			for i := range revs {
				revs[i] = revision.Revision{ID: fmt.Sprint(i)}
			}
			first := Paginate(revs, 1, size)
			wantPages := (count + size - 1) / size
			if wantPages < 1 {
				wantPages = 1
			}
			require.Equal(t, wantPages, first.TotalPages)

			seen := 0
			for p := 1; p <= first.TotalPages; p++ {
				page := Paginate(revs, p, size)
				require.LessOrEqual(t, len(page.Items), size)
				if len(page.Items) > 0 {
					require.Equal(t, fmt.Sprint(seen), page.Items[0].ID)
				}
				seen += len(page.Items)
			}
			require.Equal(t, count, seen, "size %d count %d", size, count)
		}
	}
}

func TestPaginate_ClampsPage(t *testing.T) {
	revs := make([]revision.Revision, 250)
	require.Equal(t, 1, Paginate(revs, 0, 100).Page)
	last := Paginate(revs, 9, 100)
	require.Equal(t, 3, last.Page)
	require.Len(t, last.Items, 50)
	require.Equal(t, 1, TotalPages(0, 100))
	require.Equal(t, 2, ClampPage(2, 5))
}

func TestNormalizePageSize(t *testing.T) {
	require.Equal(t, 500, NormalizePageSize(500))
	require.Equal(t, DefaultPageSize, NormalizePageSize(42))
	require.Equal(t, DefaultPageSize, NormalizePageSize(0))
}

func TestUnique(t *testing.T) {
	u := Unique(fixture(), resolver)
	require.Equal(t, []string{"Aurora", "Bosque"}, u[ColumnVenture])
	require.Equal(t, []string{"Garagem", "Torre A", "Torre B"}, u[ColumnWork])
	require.Equal(t, []string{"Alfa", "Beta"}, u[ColumnDesigner])
	require.Equal(t, []string{"1", "2", "3", "9", "10"}, u[ColumnNumber])
	require.Equal(t, []string{"late", "on-time", "pending"}, u[ColumnDeliveryStatus])
	require.Empty(t, u[ColumnActualDelivery])
}
