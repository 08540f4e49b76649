package browser

import (
	"context"
	"encoding/json"
	"fmt"

	core "github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/tools"
)

// LinksTool lists the links on the current page.
type LinksTool struct {
	session *core.Session
}

// NewLinksTool creates a new get_page_links tool.
func NewLinksTool(session *core.Session) *LinksTool {
	return &LinksTool{
		session: session,
	}
}

// Name returns the tool name.
func (t *LinksTool) Name() string {
	return "get_page_links"
}

// Description returns the tool description.
func (t *LinksTool) Description() string {
	return "Extract all links from the current page. Returns a JSON array of absolute URLs in document order; duplicates are kept."
}

// Schema returns the tool's JSON schema.
func (t *LinksTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute collects the links.
func (t *LinksTool) Execute(ctx context.Context, argsJSON []byte) (string, map[string]interface{}, error) {
	var input struct{}
	if err := tools.UnmarshalArgs(argsJSON, &input); err != nil {
		return "", nil, err
	}

	links, err := t.session.Links(ctx, callOptions(ctx)...)
	if err != nil {
		return "", nil, err
	}

	encoded, err := json.Marshal(links)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode links: %w", err)
	}
	return string(encoded), map[string]interface{}{"count": len(links)}, nil
}
