package revision

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/activity"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/repository"
	"github.com/google/uuid"
)

// Service handles the revision lifecycle. Every mutation is validated against
// the owner's current collection before anything is written.
type Service struct {
	revisions  Repository
	catalog    CatalogReader
	activities ActivityRepository
	metrics    Recorder
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewService creates a new revision service. activities, metrics and logger may be nil.
func NewService(
	revisions Repository,
	catalog CatalogReader,
	activities ActivityRepository,
	metrics Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		revisions:  revisions,
		catalog:    catalog,
		activities: activities,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Create validates and stores a single revision.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Revision, error) {
	rev, err := s.fromRequest(ownerID, req)
	if err != nil {
		s.reject("create", err)
		return nil, err
	}
	snap, existing, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	rev, err = admit(snap, existing, nil, rev)
	if err != nil {
		s.reject("create", err)
		return nil, err
	}
	if err := s.revisions.Create(ctx, ownerID, &rev); err != nil {
		return nil, translate(err, "creating revision")
	}

	s.logActivity(ctx, ownerID, activity.TypeRevisionCreated, rev.ID,
		fmt.Sprintf("created revision %d", rev.Number), nil)
	s.mutated("create", 1)
	return &rev, nil
}

// ValidateBatch prepares a batch of new revisions as if they were stored one
// after another, so numbers within the batch must follow each other. Every
// failing request is reported. Nothing is written.
func (s *Service) ValidateBatch(ctx context.Context, ownerID string, reqs []CreateRequest) ([]Revision, error) {
	if len(reqs) == 0 {
		return nil, ErrInvalidInput
	}
	snap, existing, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	prepared, failures := s.prepareBatch(ownerID, snap, existing, reqs)
	if len(failures) > 0 {
		return nil, &BatchError{Total: len(reqs), Items: failures}
	}
	return prepared, nil
}

// CreateBatch validates a batch like ValidateBatch and stores it atomically.
func (s *Service) CreateBatch(ctx context.Context, ownerID string, reqs []CreateRequest) ([]Revision, error) {
	prepared, err := s.ValidateBatch(ctx, ownerID, reqs)
	if err != nil {
		var batchErr *BatchError
		if errors.As(err, &batchErr) {
			s.reject("batch_create", err)
		}
		return nil, err
	}
	if err := s.revisions.CreateMany(ctx, ownerID, prepared); err != nil {
		return nil, translate(err, "creating revisions")
	}

	s.logActivity(ctx, ownerID, activity.TypeRevisionsImported, "",
		fmt.Sprintf("created %d revisions", len(prepared)), idsOf(prepared))
	s.mutated("batch_create", len(prepared))
	return prepared, nil
}

// Update applies a partial edit to one revision.
func (s *Service) Update(ctx context.Context, ownerID, id string, req UpdateRequest) (*Revision, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	current, err := s.revisions.Get(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, "loading revision")
	}
	snap, existing, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	next, err := admit(snap, existing, current, req.apply(*current))
	if err != nil {
		s.reject("update", err)
		return nil, err
	}
	if err := s.revisions.Update(ctx, ownerID, &next); err != nil {
		return nil, translate(err, "updating revision")
	}

	s.logActivity(ctx, ownerID, activity.TypeRevisionUpdated, next.ID,
		fmt.Sprintf("updated revision %d", next.Number), nil)
	s.mutated("update", 1)
	return &next, nil
}

// BulkUpdate applies the same edit to every listed revision. Edits are
// admitted grouped by target sequence and in ascending current number, so the
// outcome doesn't depend on the order of ids. If any edit fails, nothing is
// written and every failure is reported.
func (s *Service) BulkUpdate(ctx context.Context, ownerID string, ids []string, req UpdateRequest) ([]Revision, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, ErrInvalidInput
	}
	snap, existing, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	shadow := append([]Revision(nil), existing...)
	positions := indexByID(shadow)

	type pendingEdit struct {
		index int
		pos   int
		next  Revision
	}
	edits := make([]pendingEdit, 0, len(ids))
	var failures []ItemError
	for i, id := range ids {
		pos, ok := positions[id]
		if !ok {
			failures = append(failures, ItemError{Index: i, ID: id, Err: ErrRevisionNotFound})
			continue
		}
		edits = append(edits, pendingEdit{index: i, pos: pos, next: req.apply(shadow[pos])})
	}
	slices.SortStableFunc(edits, func(a, b pendingEdit) int {
		return cmp.Or(
			compareGroups(a.next.Group(), b.next.Group()),
			cmp.Compare(shadow[a.pos].Number, shadow[b.pos].Number),
		)
	})

	admitted := make(map[int]Revision, len(edits))
	for _, e := range edits {
		current := shadow[e.pos]
		next, err := admit(snap, shadow, &current, e.next)
		if err != nil {
			failures = append(failures, ItemError{Index: e.index, ID: current.ID, Err: err})
			continue
		}
		shadow[e.pos] = next
		admitted[e.index] = next
	}
	slices.SortFunc(failures, func(a, b ItemError) int { return cmp.Compare(a.Index, b.Index) })

	updated := make([]Revision, 0, len(admitted))
	for i := range ids {
		if rev, ok := admitted[i]; ok {
			updated = append(updated, rev)
		}
	}
	if len(failures) > 0 {
		err := &BatchError{Total: len(ids), Items: failures}
		s.reject("bulk_update", err)
		return nil, err
	}

	if err := s.revisions.UpdateMany(ctx, ownerID, updated); err != nil {
		return nil, translate(err, "updating revisions")
	}
	s.logActivity(ctx, ownerID, activity.TypeRevisionsBulkUpdated, "",
		fmt.Sprintf("updated %d revisions", len(updated)), ids)
	s.mutated("bulk_update", len(updated))
	return updated, nil
}

// Duplicate copies each listed revision as the next revision of its group.
// Copies start undelivered: actual dates are cleared and statuses re-derived
// with the discipline's current lead time.
func (s *Service) Duplicate(ctx context.Context, ownerID string, ids []string) ([]Revision, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, ErrInvalidInput
	}
	snap, existing, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	shadow := append([]Revision(nil), existing...)
	positions := indexByID(shadow)
	created := make([]Revision, 0, len(ids))
	var failures []ItemError
	for i, id := range ids {
		pos, ok := positions[id]
		if !ok {
			failures = append(failures, ItemError{Index: i, ID: id, Err: ErrRevisionNotFound})
			continue
		}
		cp := shadow[pos]
		cp.ID = s.newID()
		cp.CreatedAt = s.now()
		cp.Number = NextNumber(shadow, cp.Group())
		cp.ActualDeliveryDate = nil
		cp.ActualAnalysisDate = nil
		cp.LeadDaysSnapshot = nil

		next, err := admit(snap, shadow, nil, cp)
		if err != nil {
			failures = append(failures, ItemError{Index: i, ID: id, Err: err})
			continue
		}
		shadow = append(shadow, next)
		created = append(created, next)
	}
	if len(failures) > 0 {
		err := &BatchError{Total: len(ids), Items: failures}
		s.reject("duplicate", err)
		return nil, err
	}

	if err := s.revisions.CreateMany(ctx, ownerID, created); err != nil {
		return nil, translate(err, "creating revisions")
	}
	s.logActivity(ctx, ownerID, activity.TypeRevisionsDuplicated, "",
		fmt.Sprintf("duplicated %d revisions", len(created)), idsOf(created))
	s.mutated("duplicate", len(created))
	return created, nil
}

func compareGroups(a, b GroupKey) int {
	return cmp.Or(
		strings.Compare(a.VentureID, b.VentureID),
		strings.Compare(a.WorkID, b.WorkID),
		strings.Compare(a.DisciplineID, b.DisciplineID),
		strings.Compare(a.DesignerID, b.DesignerID),
	)
}

// Delete removes a revision permanently.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.revisions.Delete(ctx, ownerID, id); err != nil {
		return translate(err, "deleting revision")
	}
	s.logActivity(ctx, ownerID, activity.TypeRevisionDeleted, id, "deleted revision", nil)
	s.mutated("delete", 1)
	if s.logger != nil {
		s.logger.Info("revision deleted", "id", id, "owner_id", ownerID)
	}
	return nil
}

// Get fetches a revision by ID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Revision, error) {
	rev, err := s.revisions.Get(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, "loading revision")
	}
	return rev, nil
}

// List returns every revision of the owner in insertion order.
func (s *Service) List(ctx context.Context, ownerID string) ([]Revision, error) {
	revs, err := s.revisions.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	return revs, nil
}

// NextNumber returns the number a new revision of group must use.
func (s *Service) NextNumber(ctx context.Context, ownerID string, group GroupKey) (int, error) {
	revs, err := s.List(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return NextNumber(revs, group), nil
}

func (s *Service) prepareBatch(ownerID string, snap *catalog.Snapshot, existing []Revision, reqs []CreateRequest) ([]Revision, []ItemError) {
	shadow := append([]Revision(nil), existing...)
	prepared := make([]Revision, 0, len(reqs))
	var failures []ItemError
	for i, req := range reqs {
		rev, err := s.fromRequest(ownerID, req)
		if err == nil {
			rev, err = admit(snap, shadow, nil, rev)
		}
		if err != nil {
			failures = append(failures, ItemError{Index: i, Err: err})
			continue
		}
		shadow = append(shadow, rev)
		prepared = append(prepared, rev)
	}
	return prepared, failures
}

func (s *Service) fromRequest(ownerID string, req CreateRequest) (Revision, error) {
	rev := Revision{
		ID:                    s.newID(),
		OwnerID:               ownerID,
		VentureID:             strings.TrimSpace(req.VentureID),
		WorkID:                strings.TrimSpace(req.WorkID),
		DisciplineID:          strings.TrimSpace(req.DisciplineID),
		DesignerID:            strings.TrimSpace(req.DesignerID),
		ExpectedDeliveryDate:  req.ExpectedDeliveryDate,
		ActualDeliveryDate:    nonZero(req.ActualDeliveryDate),
		ActualAnalysisDate:    nonZero(req.ActualAnalysisDate),
		Justification:         strings.TrimSpace(req.Justification),
		RevisionJustification: trimmedOrNil(req.RevisionJustification),
		CreatedAt:             s.now(),
	}
	if req.Number != nil {
		rev.Number = *req.Number
	}
	if err := checkRequired(rev, req.Number != nil); err != nil {
		return Revision{}, err
	}
	return rev, nil
}

// admit runs reference, numbering and derivation rules for next against the
// collection. current is the stored version of next for edits, nil otherwise.
func admit(snap *catalog.Snapshot, collection []Revision, current *Revision, next Revision) (Revision, error) {
	if err := checkRequired(next, true); err != nil {
		return Revision{}, err
	}
	if next.Number < 0 {
		return Revision{}, fmt.Errorf("%w: revision number must not be negative", ErrInvalidInput)
	}
	if err := checkReferences(snap, next); err != nil {
		return Revision{}, err
	}
	excludeID := ""
	if current != nil {
		excludeID = current.ID
	}
	if err := ValidateSequence(collection, next.Group(), next.Number, excludeID); err != nil {
		return Revision{}, err
	}
	return Derive(next, leadDaysFor(snap, current, next)), nil
}

func checkRequired(r Revision, hasNumber bool) error {
	switch {
	case r.VentureID == "":
		return &MissingFieldError{Field: "venture_id"}
	case r.WorkID == "":
		return &MissingFieldError{Field: "work_id"}
	case r.DisciplineID == "":
		return &MissingFieldError{Field: "discipline_id"}
	case r.DesignerID == "":
		return &MissingFieldError{Field: "designer_id"}
	case !hasNumber:
		return &MissingFieldError{Field: "revision_number"}
	case r.ExpectedDeliveryDate.IsZero():
		return &MissingFieldError{Field: "expected_delivery_date"}
	case strings.TrimSpace(r.Justification) == "":
		return &MissingFieldError{Field: "justification"}
	}
	return nil
}

func checkReferences(snap *catalog.Snapshot, r Revision) error {
	refs := []struct {
		kind catalog.Kind
		id   string
	}{
		{catalog.KindVenture, r.VentureID},
		{catalog.KindWork, r.WorkID},
		{catalog.KindDiscipline, r.DisciplineID},
		{catalog.KindDesigner, r.DesignerID},
	}
	for _, ref := range refs {
		if !snap.Has(ref.kind, ref.id) {
			return &ReferenceError{Kind: string(ref.kind), ID: ref.id}
		}
	}
	if w, _ := snap.Work(r.WorkID); w.VentureID != r.VentureID {
		return ErrWorkNotInVenture
	}
	return nil
}

func (s *Service) load(ctx context.Context, ownerID string) (*catalog.Snapshot, []Revision, error) {
	snap, err := s.catalog.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	existing, err := s.revisions.List(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing revisions: %w", err)
	}
	return snap, existing, nil
}

func (s *Service) logActivity(ctx context.Context, ownerID string, typ activity.Type, revisionID, summary string, ids []string) {
	if s.activities == nil {
		return
	}
	entry := &activity.Entry{Type: typ, Summary: summary, CreatedAt: s.now()}
	if revisionID != "" {
		entry.RevisionID = &revisionID
	}
	if len(ids) > 0 {
		if details, err := json.Marshal(map[string][]string{"revision_ids": ids}); err == nil {
			entry.Details = string(details)
		}
	}
	if err := s.activities.Log(ctx, ownerID, entry); err != nil && s.logger != nil {
		s.logger.Warn("activity log failed", "type", typ, "error", err)
	}
}

func (s *Service) mutated(op string, n int) {
	if s.metrics != nil {
		s.metrics.Mutated(op, n)
	}
}

func (s *Service) reject(op string, err error) {
	if s.metrics != nil {
		s.metrics.Rejected(op, Reason(err))
	}
	if s.logger != nil {
		s.logger.Debug("revision rejected", "op", op, "error", err)
	}
}

func translate(err error, action string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrRevisionNotFound
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return ErrEntityNotFound
	}
	return fmt.Errorf("%s: %w", action, err)
}

func indexByID(revs []Revision) map[string]int {
	positions := make(map[string]int, len(revs))
	for i, r := range revs {
		positions[r.ID] = i
	}
	return positions
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func idsOf(revs []Revision) []string {
	ids := make([]string, len(revs))
	for i, r := range revs {
		ids[i] = r.ID
	}
	return ids
}

func nonZero(d *caldate.Date) *caldate.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	v := *d
	return &v
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
