package mcpsrv

import (
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/timon-db/timon/internal/envelope"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// envelopeResult renders an envelope.Envelope as the tool's JSON text
// result, mapping a non-OK status to an MCP tool error.
func envelopeResult(env envelope.Envelope) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !env.IsOK() {
		return mcp.NewToolResultError(string(data)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
