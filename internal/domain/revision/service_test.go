package revision_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/activity"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/JRocha1994/archi-track/internal/repository"
	"github.com/JRocha1994/archi-track/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const owner = "owner1"

func testCatalog(zLead int) *catalog.Snapshot {
	return catalog.NewSnapshot(
		[]catalog.Venture{{ID: "ventureX", Name: "Residencial Aurora"}, {ID: "ventureO", Name: "Parque Sul"}},
		[]catalog.Work{
			{ID: "workY", Name: "Torre A", VentureID: "ventureX"},
			{ID: "workO", Name: "Torre B", VentureID: "ventureO"},
		},
		[]catalog.Discipline{
			{ID: "disciplineZ", Name: "Estrutura", AverageAnalysisLeadDays: zLead},
			{ID: "disciplineQ", Name: "Elétrica", AverageAnalysisLeadDays: 10},
		},
		[]catalog.Designer{{ID: "designerW", Name: "Alfa Projetos"}, {ID: "designerA"}, {ID: "designerB"}},
	)
}

func stored(id, designer string, number int) revision.Revision {
	return revision.Derive(revision.Revision{
		ID:                   id,
		OwnerID:              owner,
		VentureID:            "ventureX",
		WorkID:               "workY",
		DisciplineID:         "disciplineZ",
		DesignerID:           designer,
		Number:               number,
		ExpectedDeliveryDate: caldate.MustParse("2025-01-15"),
		Justification:        "initial issue",
	}, 5)
}

func createReq(number int) revision.CreateRequest {
	return revision.CreateRequest{
		VentureID:            "ventureX",
		WorkID:               "workY",
		DisciplineID:         "disciplineZ",
		DesignerID:           "designerW",
		Number:               &number,
		ExpectedDeliveryDate: caldate.MustParse("2025-01-15"),
		ActualDeliveryDate:   caldate.MustParse("2025-01-14").Ptr(),
		Justification:        "client comments",
	}
}

type harness struct {
	revisions  *mocks.RevisionRepository
	catalog    *mocks.CatalogReader
	activities *mocks.ActivityRepository
	svc        *revision.Service
}

func newHarness(existing []revision.Revision, snap *catalog.Snapshot) harness {
	h := harness{
		revisions:  &mocks.RevisionRepository{},
		catalog:    &mocks.CatalogReader{},
		activities: &mocks.ActivityRepository{},
	}
	h.revisions.On("List", mock.Anything, owner).Return(existing, nil).Maybe()
	h.catalog.On("Snapshot", mock.Anything, owner).Return(snap, nil).Maybe()
	h.activities.On("Log", mock.Anything, owner, mock.Anything).Return(nil).Maybe()
	h.svc = revision.NewService(h.revisions, h.catalog, h.activities, nil, nil)
	return h
}

func TestCreate_DerivesAndStores(t *testing.T) {
	ctx := context.Background()
	h := newHarness([]revision.Revision{stored("r1", "designerW", 1), stored("r2", "designerW", 2)}, testCatalog(5))
	h.revisions.On("Create", mock.Anything, owner, mock.MatchedBy(func(r *revision.Revision) bool {
		return r.Number == 3 && r.OwnerID == owner
	})).Return(nil)

	rev, err := h.svc.Create(ctx, owner, createReq(3))
	require.NoError(t, err)
	require.NotEmpty(t, rev.ID)
	require.Equal(t, revision.StatusOnTime, rev.DeliveryStatus)
	require.Equal(t, "2025-01-19", rev.ExpectedAnalysisDate.String())
	require.Equal(t, revision.StatusPending, rev.AnalysisStatus)
	require.Equal(t, 5, *rev.LeadDaysSnapshot)
	require.False(t, rev.CreatedAt.IsZero())

	h.revisions.AssertExpectations(t)
	h.activities.AssertCalled(t, "Log", mock.Anything, owner, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Type == activity.TypeRevisionCreated && *e.RevisionID == rev.ID
	}))
}

func TestCreate_SequenceScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness([]revision.Revision{stored("r1", "designerW", 1), stored("r2", "designerW", 2)}, testCatalog(5))

	_, err := h.svc.Create(ctx, owner, createReq(2))
	require.ErrorIs(t, err, revision.ErrDuplicateRevisionNumber)

	_, err = h.svc.Create(ctx, owner, createReq(4))
	require.ErrorIs(t, err, revision.ErrNonSequentialRevisionNumber)
	var seqErr *revision.SequenceError
	require.True(t, errors.As(err, &seqErr))
	require.Equal(t, 3, seqErr.Expected)

	h.revisions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_MissingFieldsBlockBeforeLoading(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil, testCatalog(5))

	cases := map[string]func(*revision.CreateRequest){
		"venture_id":             func(r *revision.CreateRequest) { r.VentureID = " " },
		"work_id":                func(r *revision.CreateRequest) { r.WorkID = "" },
		"discipline_id":          func(r *revision.CreateRequest) { r.DisciplineID = "" },
		"designer_id":            func(r *revision.CreateRequest) { r.DesignerID = "" },
		"revision_number":        func(r *revision.CreateRequest) { r.Number = nil },
		"expected_delivery_date": func(r *revision.CreateRequest) { r.ExpectedDeliveryDate = caldate.Date{} },
		"justification":          func(r *revision.CreateRequest) { r.Justification = "   " },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			req := createReq(1)
			mutate(&req)
			_, err := h.svc.Create(ctx, owner, req)
			require.ErrorIs(t, err, revision.ErrMissingRequiredField)
			var missing *revision.MissingFieldError
			require.True(t, errors.As(err, &missing))
			require.Equal(t, field, missing.Field)
		})
	}
	h.revisions.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCreate_References(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil, testCatalog(5))

	req := createReq(1)
	req.WorkID = "workO"
	_, err := h.svc.Create(ctx, owner, req)
	require.ErrorIs(t, err, revision.ErrWorkNotInVenture)

	req = createReq(1)
	req.DesignerID = "ghost"
	_, err = h.svc.Create(ctx, owner, req)
	require.ErrorIs(t, err, revision.ErrEntityNotFound)
	var refErr *revision.ReferenceError
	require.True(t, errors.As(err, &refErr))
	require.Equal(t, "designer", refErr.Kind)
}

func TestCreate_ZeroLeadDays(t *testing.T) {
	ctx := context.Background()
	snap := catalog.NewSnapshot(
		[]catalog.Venture{{ID: "ventureX"}},
		[]catalog.Work{{ID: "workY", VentureID: "ventureX"}},
		[]catalog.Discipline{{ID: "disciplineZ", AverageAnalysisLeadDays: 0}},
		[]catalog.Designer{{ID: "designerW"}},
	)
	h := newHarness(nil, snap)
	h.revisions.On("Create", mock.Anything, owner, mock.Anything).Return(nil)

	rev, err := h.svc.Create(ctx, owner, createReq(1))
	require.NoError(t, err)
	require.Equal(t, 0, *rev.LeadDaysSnapshot)
	require.Equal(t, "2025-01-14", rev.ExpectedAnalysisDate.String())
}

func TestCreate_StoreErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil, testCatalog(5))
	boom := errors.New("connection reset")
	h.revisions.On("Create", mock.Anything, owner, mock.Anything).Return(boom)

	_, err := h.svc.Create(ctx, owner, createReq(1))
	require.ErrorIs(t, err, boom)
}

func TestUpdate_KeepsLeadSnapshotForSameDiscipline(t *testing.T) {
	ctx := context.Background()
	current := stored("r1", "designerW", 1)
	// The discipline's lead time changed to 8 after r1 was stored with 5.
	h := newHarness([]revision.Revision{current}, testCatalog(8))
	h.revisions.On("Get", mock.Anything, owner, "r1").Return(&current, nil)
	h.revisions.On("Update", mock.Anything, owner, mock.Anything).Return(nil)

	updated, err := h.svc.Update(ctx, owner, "r1", revision.UpdateRequest{
		ActualDeliveryDate: caldate.SetTo(caldate.MustParse("2025-01-20")),
	})
	require.NoError(t, err)
	require.Equal(t, revision.StatusLate, updated.DeliveryStatus)
	require.Equal(t, "2025-01-25", updated.ExpectedAnalysisDate.String())
	require.Equal(t, 5, *updated.LeadDaysSnapshot)
	require.Nil(t, current.ActualDeliveryDate, "stored value must not change")
}

func TestUpdate_ChangingDisciplineResnapshots(t *testing.T) {
	ctx := context.Background()
	current := stored("r1", "designerW", 1)
	current.ActualDeliveryDate = caldate.MustParse("2025-01-10").Ptr()
	current = revision.Derive(current, 5)
	h := newHarness([]revision.Revision{current}, testCatalog(5))
	h.revisions.On("Get", mock.Anything, owner, "r1").Return(&current, nil)
	h.revisions.On("Update", mock.Anything, owner, mock.Anything).Return(nil)

	discipline := "disciplineQ"
	updated, err := h.svc.Update(ctx, owner, "r1", revision.UpdateRequest{DisciplineID: &discipline})
	require.NoError(t, err)
	require.Equal(t, 10, *updated.LeadDaysSnapshot)
	require.Equal(t, "2025-01-20", updated.ExpectedAnalysisDate.String())
}

func TestUpdate_SelfEditAndClearing(t *testing.T) {
	ctx := context.Background()
	current := stored("r2", "designerW", 2)
	current.ActualDeliveryDate = caldate.MustParse("2025-01-10").Ptr()
	current = revision.Derive(current, 5)
	h := newHarness([]revision.Revision{stored("r1", "designerW", 1), current}, testCatalog(5))
	h.revisions.On("Get", mock.Anything, owner, "r2").Return(&current, nil)
	h.revisions.On("Update", mock.Anything, owner, mock.Anything).Return(nil)

	number := 2
	updated, err := h.svc.Update(ctx, owner, "r2", revision.UpdateRequest{
		Number:             &number,
		ActualDeliveryDate: caldate.Clear(),
	})
	require.NoError(t, err)
	require.Nil(t, updated.ActualDeliveryDate)
	require.Nil(t, updated.ExpectedAnalysisDate)
	require.Equal(t, revision.StatusPending, updated.DeliveryStatus)

	number = 1
	_, err = h.svc.Update(ctx, owner, "r2", revision.UpdateRequest{Number: &number})
	require.ErrorIs(t, err, revision.ErrDuplicateRevisionNumber)

	empty := ""
	_, err = h.svc.Update(ctx, owner, "r2", revision.UpdateRequest{Justification: &empty})
	require.ErrorIs(t, err, revision.ErrMissingRequiredField)
}

func TestUpdate_NotFound(t *testing.T) {
	h := newHarness(nil, testCatalog(5))
	h.revisions.On("Get", mock.Anything, owner, "missing").Return(nil, repository.ErrNotFound)

	_, err := h.svc.Update(context.Background(), owner, "missing", revision.UpdateRequest{})
	require.ErrorIs(t, err, revision.ErrRevisionNotFound)
}

func TestBulkUpdate_ValidatesAgainstShadowSet(t *testing.T) {
	ctx := context.Background()
	// Two revisions numbered 1 in different groups; moving both to designerW
	// would put two number-1 revisions in one group.
	existing := []revision.Revision{stored("a1", "designerA", 1), stored("b1", "designerB", 1)}
	h := newHarness(existing, testCatalog(5))

	designer := "designerW"
	_, err := h.svc.BulkUpdate(ctx, owner, []string{"a1", "b1"}, revision.UpdateRequest{DesignerID: &designer})
	require.ErrorIs(t, err, revision.ErrDuplicateRevisionNumber)

	var batchErr *revision.BatchError
	require.True(t, errors.As(err, &batchErr))
	require.Equal(t, 2, batchErr.Total)
	require.Len(t, batchErr.Items, 1)
	require.Equal(t, 1, batchErr.Items[0].Index)
	require.Equal(t, "b1", batchErr.Items[0].ID)
	h.revisions.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkUpdate_MoveIndependentOfIDOrder(t *testing.T) {
	ctx := context.Background()
	for _, ids := range [][]string{{"r1", "r2"}, {"r2", "r1"}} {
		existing := []revision.Revision{stored("r1", "designerW", 1), stored("r2", "designerW", 2)}
		h := newHarness(existing, testCatalog(5))
		h.revisions.On("UpdateMany", mock.Anything, owner, mock.Anything).Return(nil)

		designer := "designerA"
		updated, err := h.svc.BulkUpdate(ctx, owner, ids, revision.UpdateRequest{DesignerID: &designer})
		require.NoError(t, err, "ids %v", ids)
		require.Len(t, updated, 2)
		require.Equal(t, ids[0], updated[0].ID, "results follow the request order")
		for _, rev := range updated {
			require.Equal(t, "designerA", rev.DesignerID)
		}
	}
}

func TestBulkUpdate_FailuresReportedInRequestOrder(t *testing.T) {
	ctx := context.Background()
	existing := []revision.Revision{
		stored("a1", "designerA", 1),
		stored("b1", "designerB", 1),
		stored("w1", "designerW", 1),
	}
	h := newHarness(existing, testCatalog(5))

	designer := "designerW"
	_, err := h.svc.BulkUpdate(ctx, owner, []string{"b1", "ghost", "a1"}, revision.UpdateRequest{DesignerID: &designer})

	var batchErr *revision.BatchError
	require.True(t, errors.As(err, &batchErr))
	require.Len(t, batchErr.Items, 3)
	for i, item := range batchErr.Items {
		require.Equal(t, i, item.Index)
	}
	require.ErrorIs(t, batchErr.Items[1].Err, revision.ErrRevisionNotFound)
	require.ErrorIs(t, batchErr.Items[0].Err, revision.ErrDuplicateRevisionNumber)
}

func TestBulkUpdate_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	existing := []revision.Revision{stored("r1", "designerW", 1), stored("r2", "designerW", 2)}
	h := newHarness(existing, testCatalog(5))

	_, err := h.svc.BulkUpdate(ctx, owner, []string{"r1", "ghost", "r2"}, revision.UpdateRequest{
		ActualDeliveryDate: caldate.SetTo(caldate.MustParse("2025-01-16")),
	})
	require.ErrorIs(t, err, revision.ErrRevisionNotFound)
	h.revisions.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkUpdate_Success(t *testing.T) {
	ctx := context.Background()
	existing := []revision.Revision{stored("r1", "designerW", 1), stored("r2", "designerW", 2)}
	h := newHarness(existing, testCatalog(5))
	h.revisions.On("UpdateMany", mock.Anything, owner, mock.MatchedBy(func(revs []revision.Revision) bool {
		return len(revs) == 2 && revs[0].DeliveryStatus == revision.StatusLate && revs[1].DeliveryStatus == revision.StatusLate
	})).Return(nil)

	updated, err := h.svc.BulkUpdate(ctx, owner, []string{"r1", "r2", "r1"}, revision.UpdateRequest{
		ActualDeliveryDate: caldate.SetTo(caldate.MustParse("2025-01-16")),
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	require.Nil(t, existing[0].ActualDeliveryDate, "input collection must not change")
	h.revisions.AssertExpectations(t)
}

func TestDuplicate_NumbersCopiesInSequence(t *testing.T) {
	ctx := context.Background()
	r2 := stored("r2", "designerW", 2)
	r2.ActualDeliveryDate = caldate.MustParse("2025-01-14").Ptr()
	r2 = revision.Derive(r2, 5)
	existing := []revision.Revision{stored("r1", "designerW", 1), r2}
	h := newHarness(existing, testCatalog(7))
	h.revisions.On("CreateMany", mock.Anything, owner, mock.Anything).Return(nil)

	copies, err := h.svc.Duplicate(ctx, owner, []string{"r2", "r1"})
	require.NoError(t, err)
	require.Len(t, copies, 2)
	require.Equal(t, 3, copies[0].Number)
	require.Equal(t, 4, copies[1].Number)
	for _, c := range copies {
		require.NotContains(t, []string{"r1", "r2"}, c.ID)
		require.Nil(t, c.ActualDeliveryDate)
		require.Equal(t, revision.StatusPending, c.DeliveryStatus)
		require.Equal(t, 7, *c.LeadDaysSnapshot)
	}
}

func TestCreateBatch_SequentialWithinBatch(t *testing.T) {
	ctx := context.Background()
	h := newHarness([]revision.Revision{stored("r1", "designerW", 1), stored("r2", "designerW", 2)}, testCatalog(5))
	h.revisions.On("CreateMany", mock.Anything, owner, mock.MatchedBy(func(revs []revision.Revision) bool {
		return len(revs) == 2 && revs[0].Number == 3 && revs[1].Number == 4
	})).Return(nil)

	created, err := h.svc.CreateBatch(ctx, owner, []revision.CreateRequest{createReq(3), createReq(4)})
	require.NoError(t, err)
	require.Len(t, created, 2)
	h.revisions.AssertExpectations(t)
}

func TestCreateBatch_ReportsEveryFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness([]revision.Revision{stored("r1", "designerW", 1)}, testCatalog(5))

	missing := createReq(4)
	missing.Justification = ""
	_, err := h.svc.CreateBatch(ctx, owner, []revision.CreateRequest{createReq(2), createReq(2), missing, createReq(3)})

	var batchErr *revision.BatchError
	require.True(t, errors.As(err, &batchErr))
	require.Equal(t, 4, batchErr.Total)
	require.Len(t, batchErr.Items, 2)
	require.Equal(t, 1, batchErr.Items[0].Index)
	require.ErrorIs(t, batchErr.Items[0].Err, revision.ErrDuplicateRevisionNumber)
	require.Equal(t, 2, batchErr.Items[1].Index)
	require.ErrorIs(t, batchErr.Items[1].Err, revision.ErrMissingRequiredField)
	require.Contains(t, err.Error(), "2 of 4 items rejected")
	h.revisions.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteAndNextNumber(t *testing.T) {
	ctx := context.Background()
	h := newHarness([]revision.Revision{stored("r1", "designerW", 1)}, testCatalog(5))
	h.revisions.On("Delete", mock.Anything, owner, "r1").Return(nil)
	h.revisions.On("Delete", mock.Anything, owner, "gone").Return(repository.ErrNotFound)

	require.NoError(t, h.svc.Delete(ctx, owner, "r1"))
	require.ErrorIs(t, h.svc.Delete(ctx, owner, "gone"), revision.ErrRevisionNotFound)

	next, err := h.svc.NextNumber(ctx, owner, stored("x", "designerW", 0).Group())
	require.NoError(t, err)
	require.Equal(t, 2, next)
}

func TestMetricsRecorded(t *testing.T) {
	ctx := context.Background()
	revisions := &mocks.RevisionRepository{}
	cat := &mocks.CatalogReader{}
	rec := &mocks.Recorder{}
	revisions.On("List", mock.Anything, owner).Return([]revision.Revision{stored("r1", "designerW", 1)}, nil)
	revisions.On("Create", mock.Anything, owner, mock.Anything).Return(nil)
	cat.On("Snapshot", mock.Anything, owner).Return(testCatalog(5), nil)
	rec.On("Mutated", "create", 1).Return()
	rec.On("Rejected", "create", "duplicate_number").Return()

	svc := revision.NewService(revisions, cat, nil, rec, nil)
	_, err := svc.Create(ctx, owner, createReq(2))
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, createReq(1))
	require.Error(t, err)
	rec.AssertExpectations(t)
}
