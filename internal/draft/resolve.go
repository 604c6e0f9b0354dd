package draft

import (
	"strings"

	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/JRocha1994/archi-track/internal/ingest"
)

// Draft is a candidate revision keyed by entity names. Dates may use any
// encoding ingest.NormalizeDate accepts.
type Draft struct {
	Venture               string `json:"venture" jsonschema:"venture name"`
	Work                  string `json:"work" jsonschema:"work name"`
	Discipline            string `json:"discipline" jsonschema:"discipline name"`
	Designer              string `json:"designer" jsonschema:"designer name"`
	RevisionNumber        *int   `json:"revision_number,omitempty"`
	ExpectedDeliveryDate  string `json:"expected_delivery_date,omitempty" jsonschema:"yyyy-mm-dd or dd/mm/yyyy"`
	ActualDeliveryDate    string `json:"actual_delivery_date,omitempty"`
	ActualAnalysisDate    string `json:"actual_analysis_date,omitempty"`
	Justification         string `json:"justification,omitempty"`
	RevisionJustification string `json:"revision_justification,omitempty"`
}

// Resolution is a draft with its names matched to ids.
type Resolution struct {
	Draft      Draft                  `json:"draft"`
	Request    revision.CreateRequest `json:"request"`
	Venture    Match                  `json:"venture"`
	Work       Match                  `json:"work"`
	Discipline Match                  `json:"discipline"`
	Designer   Match                  `json:"designer"`
	// Missing lists the fields that still need manual input.
	Missing []string `json:"missing,omitempty"`
}

// Ready reports whether the request has every required field.
func (r Resolution) Ready() bool { return len(r.Missing) == 0 }

// Resolve matches every draft against the catalog. Works are only matched
// within the resolved venture.
func Resolve(snap *catalog.Snapshot, drafts []Draft) []Resolution {
	out := make([]Resolution, len(drafts))
	for i, d := range drafts {
		out[i] = resolveOne(snap, d)
	}
	return out
}

func resolveOne(snap *catalog.Snapshot, d Draft) Resolution {
	r := Resolution{Draft: d}
	r.Venture = Best(d.Venture, snap.Entries(catalog.KindVenture))
	r.Work = Best(d.Work, worksOf(snap, r.Venture.ID))
	r.Discipline = Best(d.Discipline, snap.Entries(catalog.KindDiscipline))
	r.Designer = Best(d.Designer, snap.Entries(catalog.KindDesigner))

	r.Request = revision.CreateRequest{
		VentureID:            r.Venture.ID,
		WorkID:               r.Work.ID,
		DisciplineID:         r.Discipline.ID,
		DesignerID:           r.Designer.ID,
		Number:               d.RevisionNumber,
		ActualDeliveryDate:   caldate.ParseOptional(ingest.NormalizeDate(d.ActualDeliveryDate)),
		ActualAnalysisDate:   caldate.ParseOptional(ingest.NormalizeDate(d.ActualAnalysisDate)),
		Justification:        strings.TrimSpace(d.Justification),
	}
	if expected := caldate.ParseOptional(ingest.NormalizeDate(d.ExpectedDeliveryDate)); expected != nil {
		r.Request.ExpectedDeliveryDate = *expected
	}
	if v := strings.TrimSpace(d.RevisionJustification); v != "" {
		r.Request.RevisionJustification = &v
	}

	need := func(missing bool, field string) {
		if missing {
			r.Missing = append(r.Missing, field)
		}
	}
	need(r.Request.VentureID == "", "venture_id")
	need(r.Request.WorkID == "", "work_id")
	need(r.Request.DisciplineID == "", "discipline_id")
	need(r.Request.DesignerID == "", "designer_id")
	need(r.Request.Number == nil, "revision_number")
	need(r.Request.ExpectedDeliveryDate.IsZero(), "expected_delivery_date")
	need(r.Request.Justification == "", "justification")
	return r
}

func worksOf(snap *catalog.Snapshot, ventureID string) []catalog.Entry {
	all := snap.Entries(catalog.KindWork)
	if ventureID == "" {
		return all
	}
	var scoped []catalog.Entry
	for _, e := range all {
		if e.ParentID == ventureID {
			scoped = append(scoped, e)
		}
	}
	return scoped
}

// Requests returns the create requests of the ready resolutions, in order.
func Requests(rs []Resolution) []revision.CreateRequest {
	reqs := make([]revision.CreateRequest, 0, len(rs))
	for _, r := range rs {
		if r.Ready() {
			reqs = append(reqs, r.Request)
		}
	}
	return reqs
}
