package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/JRocha1994/archi-track/internal/transport"
)

func TestFormatPayload(t *testing.T) {
	require.Equal(t, "<nil>", formatPayload(nil))
	require.Equal(t, `{"next_number":2}`, formatPayload(NextRevisionNumberResult{NextNumber: 2}))

	long := formatPayload(map[string]string{"justification": strings.Repeat("x", 2*maxLoggedPayload)})
	require.True(t, strings.HasSuffix(long, "...(truncated)"))
	require.Len(t, long, maxLoggedPayload+len("...(truncated)"))
}

func TestTrafficLogging_SkipsBelowDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	called := false
	handler := trafficLoggingMiddleware(logger, "inbound")(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		called = true
		return nil, nil
	})
	_, err := handler(context.Background(), "tools/list", nil)
	require.NoError(t, err)
	require.True(t, called)
	require.Empty(t, buf.String())
}

func TestTrafficLogging_LogsRequestAndResponse(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := trafficLoggingMiddleware(logger, "inbound")(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		return nil, nil
	})
	ctx := transport.WithOwner(context.Background(), "owner-7")
	_, err := handler(ctx, "tools/list", nil)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "stage=request")
	require.Contains(t, out, "stage=response")
	require.Contains(t, out, "owner_id=owner-7")
}
