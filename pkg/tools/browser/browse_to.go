package browser

import (
	"context"
	"errors"
	"strings"

	core "github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/tools"
)

// BrowseToTool navigates the shared session to a URL.
type BrowseToTool struct {
	session *core.Session
}

// NewBrowseToTool creates a new browse_to tool.
func NewBrowseToTool(session *core.Session) *BrowseToTool {
	return &BrowseToTool{
		session: session,
	}
}

// Name returns the tool name.
func (t *BrowseToTool) Name() string {
	return "browse_to"
}

// Description returns the tool description.
func (t *BrowseToTool) Description() string {
	return "Navigate to a specific URL and return the page's HTML content. The previous page is closed and the browser waits for the network to go idle before reading the document."
}

// Schema returns the tool's JSON schema.
func (t *BrowseToTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "The full URL to navigate to (must include protocol, e.g., https://example.com)",
			},
		},
		[]string{"url"},
	)
}

// BrowseToInput represents the parameters for navigation.
type BrowseToInput struct {
	URL string `json:"url"`
}

// Execute navigates to the URL and returns the HTML.
func (t *BrowseToTool) Execute(ctx context.Context, argsJSON []byte) (string, map[string]interface{}, error) {
	var input BrowseToInput
	if err := tools.UnmarshalArgs(argsJSON, &input); err != nil {
		return "", nil, err
	}

	input.URL = strings.TrimSpace(input.URL)
	if input.URL == "" {
		return "", nil, errors.New("url is required")
	}

	content, err := t.session.BrowseTo(ctx, input.URL, callOptions(ctx)...)
	if err != nil {
		return "", nil, err
	}

	return content, map[string]interface{}{
		"url":   t.session.CurrentURL(),
		"bytes": len(content),
	}, nil
}
