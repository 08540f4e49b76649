package browser

import (
	"context"

	core "github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/tools"
)

// ExtractTextTool returns the visible text of the current page.
type ExtractTextTool struct {
	session *core.Session
}

// NewExtractTextTool creates a new extract_text_content tool.
func NewExtractTextTool(session *core.Session) *ExtractTextTool {
	return &ExtractTextTool{
		session: session,
	}
}

// Name returns the tool name.
func (t *ExtractTextTool) Name() string {
	return "extract_text_content"
}

// Description returns the tool description.
func (t *ExtractTextTool) Description() string {
	return "Extract text content from the current page, optionally using a CSS selector. Without a selector the whole body text is returned; with one, the text of every match is joined by newlines."
}

// Schema returns the tool's JSON schema.
func (t *ExtractTextTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "Optional CSS selector to target specific elements (e.g., 'article p', '#content')",
			},
		},
		nil,
	)
}

type extractTextInput struct {
	Selector string `json:"selector"`
}

// Execute extracts the text.
func (t *ExtractTextTool) Execute(ctx context.Context, argsJSON []byte) (string, map[string]interface{}, error) {
	var input extractTextInput
	if err := tools.UnmarshalArgs(argsJSON, &input); err != nil {
		return "", nil, err
	}

	text, err := t.session.ExtractText(ctx, input.Selector, callOptions(ctx)...)
	if err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"length": len(text),
	}
	if input.Selector != "" {
		metadata["selector"] = input.Selector
	}
	return text, metadata, nil
}
