package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/JRocha1994/archi-track/internal/transport"
)

var errNoOwner = errors.New("no owner on request")

// invalidInput reports a malformed tool argument.
func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", revision.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// toolError turns err into a tool result the agent can act on. The body is
// the same JSON error the REST API returns.
func toolError(err error) *sdkmcp.CallToolResult {
	apiErr := transport.MapError(err)
	data, mErr := json.Marshal(apiErr)
	if mErr != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
