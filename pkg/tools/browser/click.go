package browser

import (
	"context"
	"errors"

	core "github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/tools"
)

// ClickTool clicks an element on the current page.
type ClickTool struct {
	session *core.Session
}

// NewClickTool creates a new click_element tool.
func NewClickTool(session *core.Session) *ClickTool {
	return &ClickTool{
		session: session,
	}
}

// Name returns the tool name.
func (t *ClickTool) Name() string {
	return "click_element"
}

// Description returns the tool description.
func (t *ClickTool) Description() string {
	return "Click an element on the current page using a CSS selector. Only the first matching element is clicked."
}

// Schema returns the tool's JSON schema.
func (t *ClickTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for the element to click (e.g., 'button.submit', '#login-btn', 'a[href=\"/about\"]')",
			},
		},
		[]string{"selector"},
	)
}

type clickInput struct {
	Selector string `json:"selector"`
}

// Execute clicks the element.
func (t *ClickTool) Execute(ctx context.Context, argsJSON []byte) (string, map[string]interface{}, error) {
	var input clickInput
	if err := tools.UnmarshalArgs(argsJSON, &input); err != nil {
		return "", nil, err
	}
	if input.Selector == "" {
		return "", nil, errors.New("selector is required")
	}

	result, err := t.session.Click(ctx, input.Selector, callOptions(ctx)...)
	if err != nil {
		return "", nil, err
	}
	return result, map[string]interface{}{"selector": input.Selector}, nil
}
