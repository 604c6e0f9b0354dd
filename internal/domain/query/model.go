// Package query derives the visible, ordered and paged subset of a revision
// collection from explicit filter, sort and page state. Every stage takes its
// input by value and returns a new slice.
package query

import (
	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
)

// Column identifies a filterable and sortable revision column.
type Column string

const (
	ColumnVenture          Column = "venture"
	ColumnWork             Column = "work"
	ColumnDiscipline       Column = "discipline"
	ColumnDesigner         Column = "designer"
	ColumnNumber           Column = "revision_number"
	ColumnDeliveryStatus   Column = "delivery_status"
	ColumnAnalysisStatus   Column = "analysis_status"
	ColumnExpectedDelivery Column = "expected_delivery_date"
	ColumnActualDelivery   Column = "actual_delivery_date"
	ColumnExpectedAnalysis Column = "expected_analysis_date"
	ColumnActualAnalysis   Column = "actual_analysis_date"
)

// Columns lists every column in display order.
var Columns = []Column{
	ColumnVenture, ColumnWork, ColumnDiscipline, ColumnDesigner, ColumnNumber,
	ColumnDeliveryStatus, ColumnAnalysisStatus,
	ColumnExpectedDelivery, ColumnActualDelivery, ColumnExpectedAnalysis, ColumnActualAnalysis,
}

// Valid reports whether c is a known column.
func (c Column) Valid() bool {
	for _, known := range Columns {
		if c == known {
			return true
		}
	}
	return false
}

// Resolver maps an entity id to its display name, "" for unknown ids.
// *catalog.Snapshot implements it.
type Resolver interface {
	Resolve(kind catalog.Kind, id string) string
}

// DateRange is an inclusive bound on a date column. A nil side is open.
type DateRange struct {
	From *caldate.Date `json:"from,omitempty"`
	To   *caldate.Date `json:"to,omitempty"`
}

// Active reports whether either bound is set.
func (r DateRange) Active() bool {
	return (r.From != nil && !r.From.IsZero()) || (r.To != nil && !r.To.IsZero())
}

// Admits reports whether d passes the range. Absent dates always pass.
func (r DateRange) Admits(d *caldate.Date) bool {
	if d == nil || d.IsZero() {
		return true
	}
	if r.From != nil && !r.From.IsZero() && d.Before(*r.From) {
		return false
	}
	if r.To != nil && !r.To.IsZero() && d.After(*r.To) {
		return false
	}
	return true
}

// Filters holds per-column constraints. Empty selections and inactive ranges
// don't constrain their column. Categorical values are display names.
type Filters struct {
	Ventures         []string          `json:"ventures,omitempty"`
	Works            []string          `json:"works,omitempty"`
	Disciplines      []string          `json:"disciplines,omitempty"`
	Designers        []string          `json:"designers,omitempty"`
	Numbers          []string          `json:"revision_numbers,omitempty"`
	DeliveryStatuses []revision.Status `json:"delivery_statuses,omitempty"`
	AnalysisStatuses []revision.Status `json:"analysis_statuses,omitempty"`
	ExpectedDelivery DateRange         `json:"expected_delivery_date"`
	ActualDelivery   DateRange         `json:"actual_delivery_date"`
	ExpectedAnalysis DateRange         `json:"expected_analysis_date"`
	ActualAnalysis   DateRange         `json:"actual_analysis_date"`
}

// Direction orders a sort.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sort is the single active sort key. The zero Sort keeps input order.
type Sort struct {
	Column    Column    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether a sort key is set.
func (s Sort) Active() bool {
	return s.Column != ""
}

// Toggle cycles col through ascending, descending and unsorted. Toggling a
// different column starts it ascending.
func (s Sort) Toggle(col Column) Sort {
	if s.Column != col {
		return Sort{Column: col, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return Sort{Column: col, Direction: Descending}
	}
	return Sort{}
}
