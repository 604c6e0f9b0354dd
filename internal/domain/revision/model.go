package revision

import (
	"time"

	"github.com/JRocha1994/archi-track/internal/caldate"
)

// Status is the derived delivery or analysis state of a revision.
type Status string

const (
	StatusPending Status = "pending"
	StatusOnTime  Status = "on-time"
	StatusLate    Status = "late"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOnTime, StatusLate:
		return true
	}
	return false
}

// Revision is one numbered submission cycle of a design document.
type Revision struct {
	ID                    string        `json:"id"`
	OwnerID               string        `json:"owner_id"`
	VentureID             string        `json:"venture_id"`
	WorkID                string        `json:"work_id"`
	DisciplineID          string        `json:"discipline_id"`
	DesignerID            string        `json:"designer_id"`
	Number                int           `json:"revision_number"`
	ExpectedDeliveryDate  caldate.Date  `json:"expected_delivery_date"`
	ActualDeliveryDate    *caldate.Date `json:"actual_delivery_date"`
	ExpectedAnalysisDate  *caldate.Date `json:"expected_analysis_date"`
	ActualAnalysisDate    *caldate.Date `json:"actual_analysis_date"`
	Justification         string        `json:"justification"`
	RevisionJustification *string       `json:"revision_justification,omitempty"`
	DeliveryStatus        Status        `json:"delivery_status"`
	AnalysisStatus        Status        `json:"analysis_status"`
	LeadDaysSnapshot      *int          `json:"lead_days_snapshot,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
}

// Group returns the key of the numbering sequence r belongs to.
func (r Revision) Group() GroupKey {
	return GroupKey{
		VentureID:    r.VentureID,
		WorkID:       r.WorkID,
		DisciplineID: r.DisciplineID,
		DesignerID:   r.DesignerID,
	}
}

// GroupKey identifies a numbering sequence: revisions sharing all four
// references are numbered together.
type GroupKey struct {
	VentureID    string `json:"venture_id"`
	WorkID       string `json:"work_id"`
	DisciplineID string `json:"discipline_id"`
	DesignerID   string `json:"designer_id"`
}

// CreateRequest describes a new revision. Number is a pointer so that an
// omitted number can be told apart from zero.
type CreateRequest struct {
	VentureID             string        `json:"venture_id"`
	WorkID                string        `json:"work_id"`
	DisciplineID          string        `json:"discipline_id"`
	DesignerID            string        `json:"designer_id"`
	Number                *int          `json:"revision_number"`
	ExpectedDeliveryDate  caldate.Date  `json:"expected_delivery_date"`
	ActualDeliveryDate    *caldate.Date `json:"actual_delivery_date,omitempty"`
	ActualAnalysisDate    *caldate.Date `json:"actual_analysis_date,omitempty"`
	Justification         string        `json:"justification"`
	RevisionJustification *string       `json:"revision_justification,omitempty"`
}

// UpdateRequest describes a partial edit. Nil fields and unset patches keep the
// stored value. A quick date edit only sets the date patches.
type UpdateRequest struct {
	VentureID             *string       `json:"venture_id,omitempty"`
	WorkID                *string       `json:"work_id,omitempty"`
	DisciplineID          *string       `json:"discipline_id,omitempty"`
	DesignerID            *string       `json:"designer_id,omitempty"`
	Number                *int          `json:"revision_number,omitempty"`
	ExpectedDeliveryDate  *caldate.Date `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate    caldate.Patch `json:"actual_delivery_date"`
	ActualAnalysisDate    caldate.Patch `json:"actual_analysis_date"`
	Justification         *string       `json:"justification,omitempty"`
	RevisionJustification *string       `json:"revision_justification,omitempty"`
}

// Empty reports whether the request changes nothing.
func (u UpdateRequest) Empty() bool {
	return u.VentureID == nil && u.WorkID == nil && u.DisciplineID == nil && u.DesignerID == nil &&
		u.Number == nil && u.ExpectedDeliveryDate == nil && !u.ActualDeliveryDate.Set &&
		!u.ActualAnalysisDate.Set && u.Justification == nil && u.RevisionJustification == nil
}

// apply returns a copy of r with the request's changes. Derived fields are
// left stale; callers run Derive afterwards.
func (u UpdateRequest) apply(r Revision) Revision {
	out := r
	if u.VentureID != nil {
		out.VentureID = *u.VentureID
	}
	if u.WorkID != nil {
		out.WorkID = *u.WorkID
	}
	if u.DisciplineID != nil {
		out.DisciplineID = *u.DisciplineID
	}
	if u.DesignerID != nil {
		out.DesignerID = *u.DesignerID
	}
	if u.Number != nil {
		out.Number = *u.Number
	}
	if u.ExpectedDeliveryDate != nil {
		out.ExpectedDeliveryDate = *u.ExpectedDeliveryDate
	}
	out.ActualDeliveryDate = u.ActualDeliveryDate.Apply(r.ActualDeliveryDate)
	out.ActualAnalysisDate = u.ActualAnalysisDate.Apply(r.ActualAnalysisDate)
	if u.Justification != nil {
		out.Justification = *u.Justification
	}
	if u.RevisionJustification != nil {
		if *u.RevisionJustification == "" {
			out.RevisionJustification = nil
		} else {
			v := *u.RevisionJustification
			out.RevisionJustification = &v
		}
	}
	return out
}
