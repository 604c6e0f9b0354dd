package query

import (
	"slices"

	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
)

// Selection is an immutable set of selected revision ids.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection of ids.
func NewSelection(ids ...string) Selection {
	s := Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s Selection) with(fn func(map[string]struct{})) Selection {
	next := make(map[string]struct{}, len(s.ids)+1)
	for id := range s.ids {
		next[id] = struct{}{}
	}
	fn(next)
	return Selection{ids: next}
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Toggle flips the selection of id.
func (s Selection) Toggle(id string) Selection {
	return s.with(func(m map[string]struct{}) {
		if _, ok := m[id]; ok {
			delete(m, id)
			return
		}
		m[id] = struct{}{}
	})
}

// AllSelected reports whether every id of the page is selected. An empty page
// is never all selected.
func (s Selection) AllSelected(pageIDs []string) bool {
	if len(pageIDs) == 0 {
		return false
	}
	for _, id := range pageIDs {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// ToggleAll deselects the page when all of it is selected and selects the
// whole page otherwise. Ids outside the page are untouched.
func (s Selection) ToggleAll(pageIDs []string) Selection {
	all := s.AllSelected(pageIDs)
	return s.with(func(m map[string]struct{}) {
		for _, id := range pageIDs {
			if all {
				delete(m, id)
			} else {
				m[id] = struct{}{}
			}
		}
	})
}

// View is the caller-owned query state threaded through Run.
type View struct {
	Filters   Filters
	Sort      Sort
	Page      int
	PageSize  int
	Selection Selection
}

// NewView returns the first page with no filters or sort.
func NewView(pageSize int) View {
	return View{Page: 1, PageSize: NormalizePageSize(pageSize)}
}

// WithFilters replaces the filters, returning to page 1 with an empty selection.
func (v View) WithFilters(f Filters) View {
	v.Filters = f
	v.Page = 1
	v.Selection = Selection{}
	return v
}

// WithPage moves to page and clears the selection.
func (v View) WithPage(page int) View {
	v.Page = page
	v.Selection = Selection{}
	return v
}

// WithPageSize changes the page size, returning to page 1 with an empty selection.
func (v View) WithPageSize(size int) View {
	v.PageSize = NormalizePageSize(size)
	v.Page = 1
	v.Selection = Selection{}
	return v
}

// ToggleSort cycles the sort on col. The selection survives.
func (v View) ToggleSort(col Column) View {
	v.Sort = v.Sort.Toggle(col)
	return v
}

// WithSelection replaces the selection.
func (v View) WithSelection(s Selection) View {
	v.Selection = s
	return v
}

// Result is the outcome of running a view over a collection.
type Result struct {
	Page
	// Unique holds the filter options over the whole, unfiltered collection.
	Unique UniqueValues `json:"unique_values"`
	// View is the input view with its page clamped to the result.
	View View `json:"-"`
}

// Run filters, sorts and paginates revs for v.
func Run(revs []revision.Revision, r Resolver, v View) Result {
	size := NormalizePageSize(v.PageSize)
	ordered := ApplySort(ApplyFilters(revs, v.Filters, r), v.Sort, r)
	page := Paginate(ordered, v.Page, size)
	v.PageSize = size
	v.Page = page.Page
	return Result{Page: page, Unique: Unique(revs, r), View: v}
}

// Row is a revision with its references resolved for display.
type Row struct {
	revision.Revision
	VentureName    string `json:"venture_name"`
	WorkName       string `json:"work_name"`
	DisciplineName string `json:"discipline_name"`
	DesignerName   string `json:"designer_name"`
}

// Rows resolves display names for revs.
func Rows(revs []revision.Revision, r Resolver) []Row {
	rows := make([]Row, len(revs))
	for i, rev := range revs {
		rows[i] = Row{
			Revision:       rev,
			VentureName:    resolve(r, catalog.KindVenture, rev.VentureID),
			WorkName:       resolve(r, catalog.KindWork, rev.WorkID),
			DisciplineName: resolve(r, catalog.KindDiscipline, rev.DisciplineID),
			DesignerName:   resolve(r, catalog.KindDesigner, rev.DesignerID),
		}
	}
	return rows
}
