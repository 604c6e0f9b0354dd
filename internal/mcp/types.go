package mcp

import (
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/query"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/JRocha1994/archi-track/internal/draft"
)

type ListCatalogParams struct{}

type DateFilterParams struct {
	Column string `json:"column" jsonschema:"expected_delivery_date, actual_delivery_date, expected_analysis_date or actual_analysis_date"`
	From   string `json:"from,omitempty" jsonschema:"inclusive lower bound, yyyy-mm-dd"`
	To     string `json:"to,omitempty" jsonschema:"inclusive upper bound, yyyy-mm-dd"`
}

type QueryRevisionsParams struct {
	Ventures         []string           `json:"ventures,omitempty" jsonschema:"venture names to keep"`
	Works            []string           `json:"works,omitempty" jsonschema:"work names to keep"`
	Disciplines      []string           `json:"disciplines,omitempty" jsonschema:"discipline names to keep"`
	Designers        []string           `json:"designers,omitempty" jsonschema:"designer names to keep"`
	RevisionNumbers  []string           `json:"revision_numbers,omitempty" jsonschema:"revision numbers to keep, as text"`
	DeliveryStatuses []string           `json:"delivery_statuses,omitempty" jsonschema:"pending, on-time or late"`
	AnalysisStatuses []string           `json:"analysis_statuses,omitempty" jsonschema:"pending, on-time or late"`
	Dates            []DateFilterParams `json:"dates,omitempty" jsonschema:"date column bounds"`
	Sort             string             `json:"sort,omitempty" jsonschema:"column to sort by"`
	Direction        string             `json:"direction,omitempty" jsonschema:"asc (default) or desc"`
	Page             int                `json:"page,omitempty" jsonschema:"1-based page, clamped to the last page"`
	PageSize         int                `json:"page_size,omitempty" jsonschema:"100, 500 or 1000"`
}

type NextRevisionNumberParams struct {
	VentureID    string `json:"venture_id"`
	WorkID       string `json:"work_id"`
	DisciplineID string `json:"discipline_id"`
	DesignerID   string `json:"designer_id"`
}

type ResolveDraftsParams struct {
	Drafts []draft.Draft `json:"drafts" jsonschema:"revisions described by entity names"`
}

type SubmitDraftsParams struct {
	Drafts []draft.Draft `json:"drafts" jsonschema:"revisions described by entity names"`
	DryRun bool          `json:"dry_run,omitempty" jsonschema:"validate without saving"`
}

type CreateRevisionParams struct {
	VentureID             string `json:"venture_id"`
	WorkID                string `json:"work_id"`
	DisciplineID          string `json:"discipline_id"`
	DesignerID            string `json:"designer_id"`
	RevisionNumber        *int   `json:"revision_number,omitempty" jsonschema:"see next_revision_number"`
	ExpectedDeliveryDate  string `json:"expected_delivery_date" jsonschema:"yyyy-mm-dd or dd/mm/yyyy"`
	ActualDeliveryDate    string `json:"actual_delivery_date,omitempty"`
	ActualAnalysisDate    string `json:"actual_analysis_date,omitempty"`
	Justification         string `json:"justification"`
	RevisionJustification string `json:"revision_justification,omitempty"`
}

type UpdateRevisionDatesParams struct {
	ID                 string  `json:"id"`
	ActualDeliveryDate *string `json:"actual_delivery_date,omitempty" jsonschema:"omit to keep, empty string to clear"`
	ActualAnalysisDate *string `json:"actual_analysis_date,omitempty" jsonschema:"omit to keep, empty string to clear"`
}

type CatalogResult struct {
	Ventures    []catalog.Venture    `json:"ventures"`
	Works       []catalog.Work       `json:"works"`
	Disciplines []catalog.Discipline `json:"disciplines"`
	Designers   []catalog.Designer   `json:"designers"`
}

type QueryRevisionsResult struct {
	Items        []query.Row        `json:"items"`
	Page         int                `json:"page"`
	PageSize     int                `json:"page_size"`
	TotalPages   int                `json:"total_pages"`
	Total        int                `json:"total"`
	UniqueValues query.UniqueValues `json:"unique_values"`
}

type NextRevisionNumberResult struct {
	NextNumber int `json:"next_number"`
}

type ResolveDraftsResult struct {
	Resolutions []draft.Resolution `json:"resolutions"`
	Ready       int                `json:"ready"`
}

type SubmitDraftsResult struct {
	Revisions []revision.Revision `json:"revisions"`
	DryRun    bool                `json:"dry_run"`
}
