package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/query"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/JRocha1994/archi-track/internal/draft"
	"github.com/JRocha1994/archi-track/internal/ingest"
)

type tools struct {
	services        Services
	defaultPageSize int
}

func registerTools(server *sdkmcp.Server, services Services, defaultPageSize int) {
	t := &tools{services: services, defaultPageSize: defaultPageSize}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_catalog",
		Description: "List every venture, work, discipline and designer with their ids",
	}, t.listCatalog)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "query_revisions",
		Description: "Filter, sort and page revisions. Categorical filters take display names; unique_values lists the options",
	}, t.queryRevisions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "next_revision_number",
		Description: "Get the number the next revision of a venture, work, discipline and designer must use",
	}, t.nextRevisionNumber)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_drafts",
		Description: "Match the entity names of extracted revision drafts to catalog ids. Nothing is saved",
	}, t.resolveDrafts)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_drafts",
		Description: "Resolve and save revision drafts as one batch. Fails without saving if any draft is incomplete or invalid",
	}, t.submitDrafts)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_revision",
		Description: "Create one revision from catalog ids",
	}, t.createRevision)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_revision_dates",
		Description: "Set or clear the actual delivery and analysis dates of a revision; statuses are recomputed",
	}, t.updateRevisionDates)
}

func (t *tools) listCatalog(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListCatalogParams) (*sdkmcp.CallToolResult, any, error) {
	ownerID := getOwnerID(ctx)
	if ownerID == "" {
		return toolError(errNoOwner), nil, nil
	}
	snap, err := t.services.Catalog.Snapshot(ctx, ownerID)
	if err != nil {
		return toolError(err), nil, nil
	}
	return nil, CatalogResult{
		Ventures:    snap.Ventures(),
		Works:       snap.Works(),
		Disciplines: snap.Disciplines(),
		Designers:   snap.Designers(),
	}, nil
}

func (t *tools) queryRevisions(ctx context.Context, _ *sdkmcp.CallToolRequest, in QueryRevisionsParams) (*sdkmcp.CallToolResult, any, error) {
	ownerID := getOwnerID(ctx)
	if ownerID == "" {
		return toolError(errNoOwner), nil, nil
	}
	v, err := t.view(in)
	if err != nil {
		return toolError(err), nil, nil
	}
	res, snap, err := t.services.Query.Run(ctx, ownerID, v)
	if err != nil {
		return toolError(err), nil, nil
	}
	return nil, QueryRevisionsResult{
		Items:        query.Rows(res.Items, snap),
		Page:         res.Page.Page,
		PageSize:     res.PageSize,
		TotalPages:   res.TotalPages,
		Total:        res.Total,
		UniqueValues: res.Unique,
	}, nil
}

func (t *tools) view(in QueryRevisionsParams) (query.View, error) {
	v := query.NewView(t.defaultPageSize)
	if in.PageSize != 0 {
		v.PageSize = query.NormalizePageSize(in.PageSize)
	}
	if in.Page != 0 {
		v.Page = in.Page
	}

	if in.Sort != "" {
		col := query.Column(in.Sort)
		if !col.Valid() {
			return query.View{}, invalidInput("unknown sort column %q", in.Sort)
		}
		dir := query.Ascending
		switch strings.ToLower(in.Direction) {
		case "", string(query.Ascending):
		case string(query.Descending):
			dir = query.Descending
		default:
			return query.View{}, invalidInput("invalid direction %q", in.Direction)
		}
		v.Sort = query.Sort{Column: col, Direction: dir}
	}

	f := query.Filters{
		Ventures:    in.Ventures,
		Works:       in.Works,
		Disciplines: in.Disciplines,
		Designers:   in.Designers,
		Numbers:     in.RevisionNumbers,
	}
	var err error
	if f.DeliveryStatuses, err = statuses(in.DeliveryStatuses); err != nil {
		return query.View{}, err
	}
	if f.AnalysisStatuses, err = statuses(in.AnalysisStatuses); err != nil {
		return query.View{}, err
	}
	ranges := map[query.Column]*query.DateRange{
		query.ColumnExpectedDelivery: &f.ExpectedDelivery,
		query.ColumnActualDelivery:   &f.ActualDelivery,
		query.ColumnExpectedAnalysis: &f.ExpectedAnalysis,
		query.ColumnActualAnalysis:   &f.ActualAnalysis,
	}
	for _, d := range in.Dates {
		rng, ok := ranges[query.Column(d.Column)]
		if !ok {
			return query.View{}, invalidInput("%q is not a date column", d.Column)
		}
		if rng.From, err = parseDate(d.Column+".from", d.From); err != nil {
			return query.View{}, err
		}
		if rng.To, err = parseDate(d.Column+".to", d.To); err != nil {
			return query.View{}, err
		}
	}
	v.Filters = f
	return v, nil
}

func (t *tools) nextRevisionNumber(ctx context.Context, _ *sdkmcp.CallToolRequest, in NextRevisionNumberParams) (*sdkmcp.CallToolResult, any, error) {
	ownerID := getOwnerID(ctx)
	if ownerID == "" {
		return toolError(errNoOwner), nil, nil
	}
	n, err := t.services.Revisions.NextNumber(ctx, ownerID, revision.GroupKey{
		VentureID:    in.VentureID,
		WorkID:       in.WorkID,
		DisciplineID: in.DisciplineID,
		DesignerID:   in.DesignerID,
	})
	if err != nil {
		return toolError(err), nil, nil
	}
	return nil, NextRevisionNumberResult{NextNumber: n}, nil
}

func (t *tools) resolveDrafts(ctx context.Context, _ *sdkmcp.CallToolRequest, in ResolveDraftsParams) (*sdkmcp.CallToolResult, any, error) {
	ownerID := getOwnerID(ctx)
	if ownerID == "" {
		return toolError(errNoOwner), nil, nil
	}
	snap, err := t.services.Catalog.Snapshot(ctx, ownerID)
	if err != nil {
		return toolError(err), nil, nil
	}
	resolutions := draft.Resolve(snap, in.Drafts)
	return nil, ResolveDraftsResult{
		Resolutions: resolutions,
		Ready:       len(draft.Requests(resolutions)),
	}, nil
}

func (t *tools) submitDrafts(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitDraftsParams) (*sdkmcp.CallToolResult, any, error) {
	ownerID := getOwnerID(ctx)
	if ownerID == "" {
		return toolError(errNoOwner), nil, nil
	}
	if len(in.Drafts) == 0 {
		return toolError(invalidInput("no drafts to submit")), nil, nil
	}
	snap, err := t.services.Catalog.Snapshot(ctx, ownerID)
	if err != nil {
		return toolError(err), nil, nil
	}

	resolutions := draft.Resolve(snap, in.Drafts)
	var incomplete []revision.ItemError
	for i, r := range resolutions {
		if !r.Ready() {
			incomplete = append(incomplete, revision.ItemError{
				Index: i,
				Err:   &revision.MissingFieldError{Field: r.Missing[0]},
			})
		}
	}
	if len(incomplete) > 0 {
		return toolError(&revision.BatchError{Total: len(resolutions), Items: incomplete}), nil, nil
	}

	reqs := draft.Requests(resolutions)
	var revs []revision.Revision
	if in.DryRun {
		revs, err = t.services.Revisions.ValidateBatch(ctx, ownerID, reqs)
	} else {
		revs, err = t.services.Revisions.CreateBatch(ctx, ownerID, reqs)
	}
	if err != nil {
		return toolError(err), nil, nil
	}
	return nil, SubmitDraftsResult{Revisions: revs, DryRun: in.DryRun}, nil
}

func (t *tools) createRevision(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateRevisionParams) (*sdkmcp.CallToolResult, any, error) {
	ownerID := getOwnerID(ctx)
	if ownerID == "" {
		return toolError(errNoOwner), nil, nil
	}
	req := revision.CreateRequest{
		VentureID:     in.VentureID,
		WorkID:        in.WorkID,
		DisciplineID:  in.DisciplineID,
		DesignerID:    in.DesignerID,
		Number:        in.RevisionNumber,
		Justification: in.Justification,
	}
	expected, err := parseDate("expected_delivery_date", in.ExpectedDeliveryDate)
	if err != nil {
		return toolError(err), nil, nil
	}
	if expected != nil {
		req.ExpectedDeliveryDate = *expected
	}
	if req.ActualDeliveryDate, err = parseDate("actual_delivery_date", in.ActualDeliveryDate); err != nil {
		return toolError(err), nil, nil
	}
	if req.ActualAnalysisDate, err = parseDate("actual_analysis_date", in.ActualAnalysisDate); err != nil {
		return toolError(err), nil, nil
	}
	if in.RevisionJustification != "" {
		req.RevisionJustification = &in.RevisionJustification
	}

	rev, err := t.services.Revisions.Create(ctx, ownerID, req)
	if err != nil {
		return toolError(err), nil, nil
	}
	return nil, rev, nil
}

func (t *tools) updateRevisionDates(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateRevisionDatesParams) (*sdkmcp.CallToolResult, any, error) {
	ownerID := getOwnerID(ctx)
	if ownerID == "" {
		return toolError(errNoOwner), nil, nil
	}
	if in.ActualDeliveryDate == nil && in.ActualAnalysisDate == nil {
		return toolError(invalidInput("set actual_delivery_date or actual_analysis_date")), nil, nil
	}

	var req revision.UpdateRequest
	var err error
	if req.ActualDeliveryDate, err = datePatch("actual_delivery_date", in.ActualDeliveryDate); err != nil {
		return toolError(err), nil, nil
	}
	if req.ActualAnalysisDate, err = datePatch("actual_analysis_date", in.ActualAnalysisDate); err != nil {
		return toolError(err), nil, nil
	}

	rev, err := t.services.Revisions.Update(ctx, ownerID, in.ID, req)
	if err != nil {
		return toolError(err), nil, nil
	}
	return nil, rev, nil
}

// parseDate accepts any date encoding the CSV import does. Empty input is nil.
func parseDate(field, raw string) (*caldate.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d := caldate.ParseOptional(ingest.NormalizeDate(raw))
	if d == nil {
		return nil, invalidInput("%s: unrecognised date %q", field, raw)
	}
	return d, nil
}

func datePatch(field string, raw *string) (caldate.Patch, error) {
	if raw == nil {
		return caldate.Patch{}, nil
	}
	if strings.TrimSpace(*raw) == "" {
		return caldate.Clear(), nil
	}
	d, err := parseDate(field, *raw)
	if err != nil {
		return caldate.Patch{}, err
	}
	return caldate.SetTo(*d), nil
}

func statuses(raw []string) ([]revision.Status, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]revision.Status, len(raw))
	for i, s := range raw {
		status := revision.Status(strings.ToLower(strings.TrimSpace(s)))
		if !status.Valid() {
			return nil, invalidInput("unknown status %q", s)
		}
		out[i] = status
	}
	return out, nil
}
