package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `archi-track tracks the revisions of design documents on construction ventures.

Core concepts:
- Catalog: ventures, works (each belongs to one venture), disciplines (with an analysis lead time in days) and designers.
- Revision: one numbered submission of a document, keyed by venture, work, discipline and designer.
- Numbering: revisions sharing all four references form a group numbered 1, 2, 3... with no gaps or repeats.
- Statuses are derived: delivery is pending until delivered, then on-time or late against the expected date.
  Analysis is due lead-time days after delivery and is pending until analysed.

Workflow:
1) Orient: call list_catalog for ids and names.
2) Record from documents: extract drafts by name, call resolve_drafts, fill anything listed in missing, then submit_drafts.
   Use dry_run first on large batches. A batch saves all or nothing.
3) Record one revision: call next_revision_number, then create_revision.
4) Track progress: update_revision_dates when a document is delivered or analysed.
5) Report: query_revisions with filters by display name; unique_values lists the options.

Errors come back as JSON with code, message and recovery_hint. Sequence errors include the expected number.

Docs:
- archi-track://docs/numbering
- archi-track://docs/drafts
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "archi-track://docs/numbering",
		Name:        "docs_numbering",
		Title:       "Revision numbering and statuses",
		Description: "How revision numbers are checked and how delivery and analysis statuses are derived.",
		Content: `# Revision numbering and statuses

## Groups
A group is the combination of venture, work, discipline and designer. Every
revision belongs to exactly one group.

## Numbers
- The first revision of a group is number 1.
- A new revision must use the group's highest number plus one.
- Reusing a number fails with DUPLICATE_REVISION_NUMBER.
- Skipping ahead fails with NON_SEQUENTIAL_REVISION_NUMBER.
- Both errors carry the expected number; next_revision_number returns it too.
- Editing a revision without changing its group or number is always allowed.

## Statuses
- delivery_status: pending without an actual delivery date; late when it is
  after the expected delivery date; on-time otherwise.
- expected_analysis_date: actual delivery date plus the discipline's lead time.
  The lead time is captured when the revision is created or moved to
  another discipline; later catalog changes don't affect it.
- analysis_status: pending until both the expected and actual analysis dates
  exist; late when analysis finished after the expected date; on-time otherwise.
`,
	},
	{
		URI:         "archi-track://docs/drafts",
		Name:        "docs_drafts",
		Title:       "Submitting drafts",
		Description: "Turning revisions extracted from documents into saved revisions.",
		Content: `# Submitting drafts

A draft names its venture, work, discipline and designer instead of using ids.

1. Call resolve_drafts. Each resolution lists the match for every name with a
   0-100 score. Matches below 55 or tied between entries are left unresolved.
   Works are only matched within the resolved venture.
2. Fix every draft whose missing list is non-empty: correct the names against
   list_catalog, or add the revision number and dates.
3. Call submit_drafts with dry_run to check numbering, then without it to save.

Dates accept yyyy-mm-dd, dd/mm/yyyy and spreadsheet serial numbers.

Numbers inside one batch must follow each other: two drafts for the same group
must be numbered n and n+1 in that order.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
