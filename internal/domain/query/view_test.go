package query

import (
	"fmt"
	"testing"

	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/stretchr/testify/require"
)

func TestSelection(t *testing.T) {
	s := NewSelection()
	s2 := s.Toggle("a")
	require.False(t, s.Has("a"), "toggle returns a new selection")
	require.True(t, s2.Has("a"))
	require.Equal(t, 0, s2.Toggle("a").Len())

	page := []string{"a", "b", "c"}
	all := NewSelection("x").ToggleAll(page)
	require.Equal(t, []string{"a", "b", "c", "x"}, all.IDs())
	require.True(t, all.AllSelected(page))

	none := all.ToggleAll(page)
	require.Equal(t, []string{"x"}, none.IDs())

	partial := NewSelection("a").ToggleAll(page)
	require.Equal(t, []string{"a", "b", "c"}, partial.IDs())
	require.False(t, NewSelection().AllSelected(nil))
}

func TestViewStateTransitions(t *testing.T) {
	v := NewView(500).WithPage(3).WithSelection(NewSelection("a", "b"))
	require.Equal(t, 500, v.PageSize)
	require.Equal(t, 3, v.Page)

	sorted := v.ToggleSort(ColumnNumber)
	require.Equal(t, 3, sorted.Page)
	require.Equal(t, 2, sorted.Selection.Len(), "sorting keeps the selection")

	filtered := sorted.WithFilters(Filters{Ventures: []string{"Aurora"}})
	require.Equal(t, 1, filtered.Page)
	require.Equal(t, 0, filtered.Selection.Len())
	require.Equal(t, Sort{ColumnNumber, Ascending}, filtered.Sort)

	paged := sorted.WithPage(2)
	require.Equal(t, 0, paged.Selection.Len())

	resized := sorted.WithPageSize(1000)
	require.Equal(t, 1, resized.Page)
	require.Equal(t, 1000, resized.PageSize)
	require.Equal(t, DefaultPageSize, NewView(7).PageSize)
}

func TestRun(t *testing.T) {
	var revs []revision.Revision
	for i := 1; i <= 230; i++ {
		venture := "v1"
		if i%2 == 0 {
			venture = "v2"
		}
		revs = append(revs, rev(fmt.Sprint(i), venture, "w1", "d1", "p1", i, "2025-01-01", ""))
	}

	v := NewView(100).WithFilters(Filters{Ventures: []string{"Aurora"}}).ToggleSort(ColumnNumber).ToggleSort(ColumnNumber)
	res := Run(revs, resolver, v.WithPage(5))
	require.Equal(t, 115, res.Total)
	require.Equal(t, 2, res.TotalPages)
	require.Equal(t, 2, res.View.Page, "page is clamped")
	require.Len(t, res.Items, 15)
	require.Equal(t, 29, res.Items[0].Number)
	require.Equal(t, []string{"Aurora", "Bosque"}, res.Unique[ColumnVenture], "filter options come from the whole collection")

	rows := Rows(res.Items, resolver)
	require.Equal(t, "Aurora", rows[0].VentureName)
	require.Equal(t, "Torre A", rows[0].WorkName)
}
