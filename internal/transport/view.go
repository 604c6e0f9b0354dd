package transport

import (
	"net/url"
	"strconv"

	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/query"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
)

// parseView reads a query.View from URL parameters:
//
//	page, page_size            1-based page and one of the preset sizes
//	sort, dir                  column name and asc or desc
//	venture, work, ...         repeated display values per categorical column
//	<date column>_from, _to    inclusive ISO date bounds
//	selected                   repeated revision ids
func parseView(values url.Values, defaultPageSize int) (query.View, error) {
	v := query.NewView(defaultPageSize)

	if raw := values.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return query.View{}, badRequest("invalid page_size %q", raw)
		}
		v.PageSize = query.NormalizePageSize(size)
	}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return query.View{}, badRequest("invalid page %q", raw)
		}
		v.Page = page
	}

	if col := query.Column(values.Get("sort")); col != "" {
		if !col.Valid() {
			return query.View{}, badRequest("unknown sort column %q", col)
		}
		dir := query.Direction(values.Get("dir"))
		switch dir {
		case "":
			dir = query.Ascending
		case query.Ascending, query.Descending:
		default:
			return query.View{}, badRequest("invalid sort direction %q", dir)
		}
		v.Sort = query.Sort{Column: col, Direction: dir}
	}

	f := query.Filters{
		Ventures:    values[string(query.ColumnVenture)],
		Works:       values[string(query.ColumnWork)],
		Disciplines: values[string(query.ColumnDiscipline)],
		Designers:   values[string(query.ColumnDesigner)],
		Numbers:     values[string(query.ColumnNumber)],
	}
	var err error
	if f.DeliveryStatuses, err = statuses(values, query.ColumnDeliveryStatus); err != nil {
		return query.View{}, err
	}
	if f.AnalysisStatuses, err = statuses(values, query.ColumnAnalysisStatus); err != nil {
		return query.View{}, err
	}

	ranges := map[query.Column]*query.DateRange{
		query.ColumnExpectedDelivery: &f.ExpectedDelivery,
		query.ColumnActualDelivery:   &f.ActualDelivery,
		query.ColumnExpectedAnalysis: &f.ExpectedAnalysis,
		query.ColumnActualAnalysis:   &f.ActualAnalysis,
	}
	for col, rng := range ranges {
		if rng.From, err = dateParam(values, string(col)+"_from"); err != nil {
			return query.View{}, err
		}
		if rng.To, err = dateParam(values, string(col)+"_to"); err != nil {
			return query.View{}, err
		}
	}
	v.Filters = f

	if ids := values["selected"]; len(ids) > 0 {
		v.Selection = query.NewSelection(ids...)
	}
	return v, nil
}

func statuses(values url.Values, col query.Column) ([]revision.Status, error) {
	raw := values[string(col)]
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]revision.Status, len(raw))
	for i, s := range raw {
		status := revision.Status(s)
		if !status.Valid() {
			return nil, badRequest("invalid %s %q", col, s)
		}
		out[i] = status
	}
	return out, nil
}

func dateParam(values url.Values, name string) (*caldate.Date, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := caldate.Parse(raw)
	if err != nil {
		return nil, badRequest("invalid %s %q: want YYYY-MM-DD", name, raw)
	}
	return &d, nil
}

// queryResponse is one page of a view with its filter options.
type queryResponse struct {
	Items        []query.Row        `json:"items"`
	Page         int                `json:"page"`
	PageSize     int                `json:"page_size"`
	TotalPages   int                `json:"total_pages"`
	Total        int                `json:"total"`
	UniqueValues query.UniqueValues `json:"unique_values"`
	Selected     []string           `json:"selected"`
	AllSelected  bool               `json:"all_selected"`
}

func newQueryResponse(res query.Result, r query.Resolver) queryResponse {
	return queryResponse{
		Items:        query.Rows(res.Items, r),
		Page:         res.Page.Page,
		PageSize:     res.PageSize,
		TotalPages:   res.TotalPages,
		Total:        res.Total,
		UniqueValues: res.Unique,
		Selected:     res.View.Selection.IDs(),
		AllSelected:  res.View.Selection.AllSelected(res.IDs()),
	}
}
