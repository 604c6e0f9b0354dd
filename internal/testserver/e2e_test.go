package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
)

type seeded struct {
	venture, work, discipline, designer string
}

func seed(t *testing.T, ts *TestServer) seeded {
	t.Helper()
	ctx := context.Background()
	c := ts.App.Catalog

	v, err := c.CreateVenture(ctx, ts.OwnerID, catalog.CreateVentureRequest{Name: "Parque das Flores"})
	require.NoError(t, err)
	w, err := c.CreateWork(ctx, ts.OwnerID, catalog.CreateWorkRequest{Name: "Casa 12", VentureID: v.ID})
	require.NoError(t, err)
	lead := 2
	d, err := c.CreateDiscipline(ctx, ts.OwnerID, catalog.CreateDisciplineRequest{Name: "Hidráulica", AverageAnalysisLeadDays: &lead})
	require.NoError(t, err)
	p, err := c.CreateDesigner(ctx, ts.OwnerID, catalog.CreateDesignerRequest{Name: "Beta Engenharia"})
	require.NoError(t, err)
	return seeded{venture: v.ID, work: w.ID, discipline: d.ID, designer: p.ID}
}

func TestE2E_RESTRequiresToken(t *testing.T) {
	ts := New(t, "tok-rest", "owner-a")

	resp, err := http.Get(ts.Server.URL + "/api/v1/catalog")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = ts.Client().Get(ts.Server.URL + "/api/v1/catalog")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestE2E_OwnersAreIsolated(t *testing.T) {
	ts := New(t, "tok-a", "owner-a")
	require.NoError(t, ts.AddAPIKey("tok-b", "owner-b"))
	seed(t, ts)

	other := &http.Client{Transport: bearerTransport{token: "tok-b", base: http.DefaultTransport}}
	resp, err := other.Get(ts.Server.URL + "/api/v1/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Ventures []catalog.Venture `json:"ventures"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Empty(t, body.Ventures)
}

func TestE2E_RevisionOverRESTShowsInMetrics(t *testing.T) {
	ts := New(t, "tok-metrics", "owner-a")
	s := seed(t, ts)

	payload, err := json.Marshal(map[string]any{
		"venture_id":             s.venture,
		"work_id":                s.work,
		"discipline_id":          s.discipline,
		"designer_id":            s.designer,
		"revision_number":        1,
		"expected_delivery_date": "2024-05-06",
		"actual_delivery_date":   "2024-05-06",
		"justification":          "Projeto inicial",
	})
	require.NoError(t, err)

	resp, err := ts.Client().Post(ts.Server.URL+"/api/v1/revisions", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	var created revision.Revision
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, revision.StatusOnTime, created.DeliveryStatus)
	require.NotNil(t, created.ExpectedAnalysisDate)
	require.Equal(t, "2024-05-08", created.ExpectedAnalysisDate.String())

	resp, err = http.Get(ts.Server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(text), `architrack_revisions_mutated_total{op="create"} 1`)
}

func TestE2E_MCPOverStreamableHTTP(t *testing.T) {
	ts := New(t, "tok-mcp", "owner-a")
	s := seed(t, ts)

	ctx := context.Background()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "e2e-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: ts.Client(),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "next_revision_number",
		Arguments: map[string]any{
			"venture_id":    s.venture,
			"work_id":       s.work,
			"discipline_id": s.discipline,
			"designer_id":   s.designer,
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	text := res.Content[0].(*sdkmcp.TextContent).Text
	require.JSONEq(t, `{"next_number":1}`, text)

	res, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "submit_drafts",
		Arguments: map[string]any{
			"drafts": []map[string]any{{
				"venture":                "parque das flores",
				"work":                   "Casa 12",
				"discipline":             "hidraulica",
				"designer":               "Beta Engenharia",
				"revision_number":        1,
				"expected_delivery_date": "06/05/2024",
				"justification":          "Projeto inicial",
			}},
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError, res.Content[0].(*sdkmcp.TextContent).Text)

	stored, err := ts.App.Revisions.List(ctx, ts.OwnerID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, 1, stored[0].Number)
}

func TestE2E_MCPRejectsUnknownToken(t *testing.T) {
	ts := New(t, "tok-good", "owner-a")

	ctx := context.Background()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "e2e-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: "tok-bad", base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })

	_, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_catalog", Arguments: map[string]any{}})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "unauthorized"), err.Error())
}
