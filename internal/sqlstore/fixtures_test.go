package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

// seedCatalog inserts one entity of each kind for the owner and returns the
// group they form.
func seedCatalog(t *testing.T, db *DB, ownerID, suffix string) revision.GroupKey {
	t.Helper()
	ctx := context.Background()
	repo := NewCatalogRepository(db)

	g := revision.GroupKey{
		VentureID:    "v" + suffix,
		WorkID:       "w" + suffix,
		DisciplineID: "d" + suffix,
		DesignerID:   "p" + suffix,
	}
	require.NoError(t, repo.CreateVenture(ctx, ownerID, &catalog.Venture{ID: g.VentureID, Name: "Venture " + suffix, CreatedAt: fixedTime}))
	require.NoError(t, repo.CreateWork(ctx, ownerID, &catalog.Work{ID: g.WorkID, VentureID: g.VentureID, Name: "Work " + suffix, CreatedAt: fixedTime}))
	require.NoError(t, repo.CreateDiscipline(ctx, ownerID, &catalog.Discipline{ID: g.DisciplineID, Name: "Discipline " + suffix, AverageAnalysisLeadDays: 5, CreatedAt: fixedTime}))
	require.NoError(t, repo.CreateDesigner(ctx, ownerID, &catalog.Designer{ID: g.DesignerID, Name: "Designer " + suffix, CreatedAt: fixedTime}))
	return g
}

func newRevision(id string, g revision.GroupKey, number int) revision.Revision {
	lead := 5
	return revision.Revision{
		ID:                   id,
		VentureID:            g.VentureID,
		WorkID:               g.WorkID,
		DisciplineID:         g.DisciplineID,
		DesignerID:           g.DesignerID,
		Number:               number,
		ExpectedDeliveryDate: caldate.MustParse("2025-01-15"),
		Justification:        "initial issue",
		DeliveryStatus:       revision.StatusPending,
		AnalysisStatus:       revision.StatusPending,
		LeadDaysSnapshot:     &lead,
		CreatedAt:            fixedTime.Add(time.Duration(number) * time.Minute),
	}
}
