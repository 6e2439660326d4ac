package mcp

import (
	"context"
	"encoding/json"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	InputSchema map[string]any          `json:"inputSchema"`
	Annotations *sdkmcp.ToolAnnotations `json:"annotations,omitempty"`
}

func emptySchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func countSchema(extra map[string]any, required ...string) map[string]any {
	props := map[string]any{
		"jobists": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Names of the jobists on duty",
		},
		"amount": map[string]any{
			"type":        "string",
			"description": "Counted cash as a decimal string, e.g. \"152.40\". Omit when the till was not counted",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var readOnly = &sdkmcp.ToolAnnotations{ReadOnlyHint: true}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Session lifecycle
		{
			Name:        "till_status",
			Description: "Show the lifecycle state, the current and stale sessions, the order in progress and the last archived counts",
			InputSchema: emptySchema(),
			Annotations: readOnly,
		},
		{
			Name:        "start_session",
			Description: "Begin a new session: moves a closed till to the opening count",
			InputSchema: emptySchema(),
		},
		{
			Name:        "submit_opening_count",
			Description: "Submit the opening cash count and open a new session",
			InputSchema: countSchema(nil),
		},
		{
			Name:        "request_close",
			Description: "Move an open till to the closing count. Refused while an order is in progress",
			InputSchema: emptySchema(),
		},
		{
			Name:        "submit_closing_count",
			Description: "Submit the closing cash count and finalize the session",
			InputSchema: countSchema(map[string]any{
				"terminate": map[string]any{
					"type":        "boolean",
					"description": "Also shut the till down after closing",
				},
			}),
		},
		{
			Name:        "record_interim_count",
			Description: "Log a count while trading. A before count replaces the jobists and opening amount; an after count records the close amount without closing",
			InputSchema: countSchema(map[string]any{
				"kind": map[string]any{
					"type":        "string",
					"enum":        []string{"before", "after"},
					"description": "Which checkpoint the count amends",
				},
			}, "kind"),
		},
		{
			Name:        "cancel_count",
			Description: "Abandon the count in progress and go back to the previous state",
			InputSchema: emptySchema(),
		},
		{
			Name:        "force_close_stale",
			Description: "Finalize the stale session found at startup",
			InputSchema: emptySchema(),
		},
		{
			Name:        "resume_stale",
			Description: "Keep trading on the stale session found at startup",
			InputSchema: emptySchema(),
		},

		// Order
		{
			Name:        "add_item",
			Description: "Add one unit of a catalog item to the order",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"item_id": map[string]any{
						"type":        "string",
						"description": "Catalog item id",
					},
				},
				"required": []string{"item_id"},
			},
		},
		{
			Name:        "press_button",
			Description: "Add the item assigned to a menu button to the order",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"slot": map[string]any{
						"type":        "integer",
						"minimum":     0,
						"maximum":     159,
						"description": "Menu slot: col + row*5 + page*40",
					},
				},
				"required": []string{"slot"},
			},
		},
		{
			Name:        "set_action",
			Description: "Arm the action applied by fire",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"action": map[string]any{
						"type": "string",
						"enum": []string{"increment", "decrement", "delete"},
					},
				},
				"required": []string{"action"},
			},
		},
		{
			Name:        "set_price_tier",
			Description: "Select the price tier for items added from now on",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tier": map[string]any{
						"type": "string",
						"enum": []string{"normal", "reduced", "free"},
					},
				},
				"required": []string{"tier"},
			},
		},
		{
			Name:        "fire",
			Description: "Apply the armed action to the selected order lines",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"selection": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Item ids of the selected lines",
					},
				},
				"required": []string{"selection"},
			},
		},
		{
			Name:        "order_summary",
			Description: "Show the order in progress",
			InputSchema: emptySchema(),
			Annotations: readOnly,
		},
		{
			Name:        "clear_order",
			Description: "Empty the order without selling it",
			InputSchema: emptySchema(),
		},
		{
			Name:        "commit_sale",
			Description: "Book the order against the open session, optionally charging a client account",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"client_name": map[string]any{
						"type":        "string",
						"description": "Account to charge (omit for a cash sale)",
					},
				},
			},
		},

		// Reference data
		{
			Name:        "list_catalog",
			Description: "List catalog items with prices and the assigned menu buttons",
			InputSchema: emptySchema(),
			Annotations: readOnly,
		},
		{
			Name:        "list_clients",
			Description: "List client accounts with their balance and limit",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"jobists_only": map[string]any{
						"type":        "boolean",
						"description": "Only list jobists",
					},
				},
			},
			Annotations: readOnly,
		},
		{
			Name:        "create_client",
			Description: "Open a client account. The limit is the lowest balance allowed, between -10 and 0",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":      map[string]any{"type": "string", "description": "Account name"},
					"phone":     map[string]any{"type": "string"},
					"address":   map[string]any{"type": "string"},
					"email":     map[string]any{"type": "string"},
					"limit":     map[string]any{"type": "string", "description": "Decimal limit, e.g. \"-5\""},
					"is_jobist": map[string]any{"type": "boolean", "description": "Volunteer working the fête"},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "deposit",
			Description: "Credit money handed over by a client to their account",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":   map[string]any{"type": "string", "description": "Account name"},
					"amount": map[string]any{"type": "string", "description": "Positive decimal amount"},
				},
				"required": []string{"name", "amount"},
			},
		},
		{
			Name:        "get_recent_activity",
			Description: "List recent till activity, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"session_id": map[string]any{
						"type":        "string",
						"description": "Only show activity of this session",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of entries",
					},
				},
			},
			Annotations: readOnly,
		},
	}
}

func registerTools(server *sdkmcp.Server, handler *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
			Annotations: def.Annotations,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, name, args)
			if err != nil {
				return toolError(err)
			}
			return toolResult(result)
		})
	}
}

func toolResult(result any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) (*sdkmcp.CallToolResult, error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = &APIError{Code: "INTERNAL_ERROR", Message: err.Error()}
	}
	data, merr := json.Marshal(apiErr)
	if merr != nil {
		return nil, merr
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}, nil
}
