package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

// jsonResult marshals v as the tool's text content.
func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}

// toolError turns an SDK error into a tool error the model can act on.
func toolError(op string, p *client.Portal, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return mcp.NewToolResultError(fmt.Sprintf("%s: session ended; call the login tool (portal login page %s)", op, p.LoginPath()))
	case errors.Is(err, client.ErrReasonRequired):
		return mcp.NewToolResultError(fmt.Sprintf("%s: this status change needs a reason; pass it in the reason argument", op))
	case errors.Is(err, client.ErrActionNotPermitted):
		return mcp.NewToolResultError(fmt.Sprintf("%s: not available to the %s portal", op, p.Role()))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %s", op, client.UserMessage(err)))
	}
}

// intArg reads an optional numeric argument.
func intArg(req mcp.CallToolRequest, key string, def int) int {
	switch v := req.GetArguments()[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// stringArg reads an optional string argument.
func stringArg(req mcp.CallToolRequest, key string) string {
	if v, ok := req.GetArguments()[key].(string); ok {
		return v
	}
	return ""
}
