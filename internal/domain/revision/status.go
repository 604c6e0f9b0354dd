package revision

import (
	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
)

// DeliveryStatus is pending until the revision is delivered, late when it was
// delivered after the expected day and on-time otherwise. Delivering on the
// expected day is on time.
func DeliveryStatus(expected caldate.Date, actual *caldate.Date) Status {
	if actual == nil || actual.IsZero() || expected.IsZero() {
		return StatusPending
	}
	if actual.After(expected) {
		return StatusLate
	}
	return StatusOnTime
}

// AnalysisStatus is pending while either date is missing, late when the
// analysis finished after its deadline and on-time otherwise.
func AnalysisStatus(expected, actual *caldate.Date) Status {
	if expected == nil || expected.IsZero() || actual == nil || actual.IsZero() {
		return StatusPending
	}
	if actual.After(*expected) {
		return StatusLate
	}
	return StatusOnTime
}

// ExpectedAnalysisDate is the analysis deadline: leadDays calendar days after
// delivery. An undelivered revision has no deadline.
func ExpectedAnalysisDate(actualDelivery *caldate.Date, leadDays int) *caldate.Date {
	if actualDelivery == nil || actualDelivery.IsZero() {
		return nil
	}
	due := actualDelivery.AddDays(leadDays)
	return &due
}

// Derive returns a copy of r with the deadline and both statuses recomputed
// for the given lead time, which is also recorded as the revision's snapshot.
// Negative lead times fall back to catalog.DefaultLeadDays.
func Derive(r Revision, leadDays int) Revision {
	if leadDays < 0 {
		leadDays = catalog.DefaultLeadDays
	}
	out := r
	lead := leadDays
	out.LeadDaysSnapshot = &lead
	out.ExpectedAnalysisDate = ExpectedAnalysisDate(r.ActualDeliveryDate, leadDays)
	out.DeliveryStatus = DeliveryStatus(r.ExpectedDeliveryDate, r.ActualDeliveryDate)
	out.AnalysisStatus = AnalysisStatus(out.ExpectedAnalysisDate, r.ActualAnalysisDate)
	return out
}

// leadDaysFor picks the lead time for saving next. An edit that keeps the
// discipline keeps the snapshotted lead time; anything else takes the
// discipline's current value.
func leadDaysFor(snap *catalog.Snapshot, current *Revision, next Revision) int {
	if current != nil && current.DisciplineID == next.DisciplineID && current.LeadDaysSnapshot != nil {
		return *current.LeadDaysSnapshot
	}
	return snap.LeadDays(next.DisciplineID)
}
