package browser

import (
	"context"

	core "github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/tools"
)

// ScreenshotTool captures the current page as a base64 PNG.
type ScreenshotTool struct {
	session *core.Session
}

// NewScreenshotTool creates a new get_page_screenshots tool.
func NewScreenshotTool(session *core.Session) *ScreenshotTool {
	return &ScreenshotTool{
		session: session,
	}
}

// Name returns the tool name.
func (t *ScreenshotTool) Name() string {
	return "get_page_screenshots"
}

// Description returns the tool description.
func (t *ScreenshotTool) Description() string {
	return "Capture a screenshot of the current page and return it as base64-encoded PNG data. Captures the viewport by default, the whole scrollable page with full_page, or a single element with selector."
}

// Schema returns the tool's JSON schema.
func (t *ScreenshotTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"full_page": map[string]interface{}{
				"type":        "boolean",
				"description": "Capture the entire scrollable page instead of the viewport",
				"default":     false,
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "Optional CSS selector; captures only the first matching element",
			},
		},
		nil,
	)
}

type screenshotInput struct {
	FullPage bool   `json:"full_page"`
	Selector string `json:"selector"`
}

// Execute captures the screenshot.
func (t *ScreenshotTool) Execute(ctx context.Context, argsJSON []byte) (string, map[string]interface{}, error) {
	var input screenshotInput
	if err := tools.UnmarshalArgs(argsJSON, &input); err != nil {
		return "", nil, err
	}

	encoded, err := t.session.Screenshot(ctx, core.ScreenshotRequest{
		FullPage: input.FullPage,
		Selector: input.Selector,
	}, callOptions(ctx)...)
	if err != nil {
		return "", nil, err
	}

	return encoded, map[string]interface{}{
		"mime_type": "image/png",
		"full_page": input.FullPage,
		"selector":  input.Selector,
	}, nil
}
