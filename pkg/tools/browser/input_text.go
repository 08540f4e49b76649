package browser

import (
	"context"
	"errors"

	core "github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/tools"
)

// InputTextTool fills a form field on the current page.
type InputTextTool struct {
	session *core.Session
}

// NewInputTextTool creates a new input_text tool.
func NewInputTextTool(session *core.Session) *InputTextTool {
	return &InputTextTool{
		session: session,
	}
}

// Name returns the tool name.
func (t *InputTextTool) Name() string {
	return "input_text"
}

// Description returns the tool description.
func (t *InputTextTool) Description() string {
	return "Input text into a specific element on the page. The first element matching the CSS selector is cleared and filled with the text."
}

// Schema returns the tool's JSON schema.
func (t *InputTextTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for the input field (e.g., '#email', 'input[name=\"username\"]', 'textarea.comment')",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to input into the field",
			},
		},
		[]string{"selector", "text"},
	)
}

type inputTextInput struct {
	Selector string  `json:"selector"`
	Text     *string `json:"text"`
}

// Execute fills the element.
func (t *InputTextTool) Execute(ctx context.Context, argsJSON []byte) (string, map[string]interface{}, error) {
	var input inputTextInput
	if err := tools.UnmarshalArgs(argsJSON, &input); err != nil {
		return "", nil, err
	}
	if input.Selector == "" {
		return "", nil, errors.New("selector is required")
	}
	// An empty string is a valid value and clears the field
	if input.Text == nil {
		return "", nil, errors.New("text is required")
	}

	result, err := t.session.InputText(ctx, input.Selector, *input.Text, callOptions(ctx)...)
	if err != nil {
		return "", nil, err
	}
	return result, map[string]interface{}{
		"selector": input.Selector,
		"length":   len(*input.Text),
	}, nil
}
