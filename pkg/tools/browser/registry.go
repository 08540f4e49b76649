package browser

import (
	core "github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/tools"
)

// ToolRegistry builds the browser tools bound to one session.
type ToolRegistry struct {
	session *core.Session
	tools   []tools.Tool
}

// NewToolRegistry creates a new browser tool registry.
func NewToolRegistry(session *core.Session) *ToolRegistry {
	return &ToolRegistry{
		session: session,
		tools:   make([]tools.Tool, 0),
	}
}

// RegisterTools creates and returns all browser tools. Repeated calls return
// the same instances.
func (r *ToolRegistry) RegisterTools() []tools.Tool {
	if len(r.tools) > 0 {
		return r.tools
	}

	r.tools = append(r.tools,
		NewBrowseToTool(r.session),
		NewExtractTextTool(r.session),
		NewClickTool(r.session),
		NewScreenshotTool(r.session),
		NewLinksTool(r.session),
		NewInputTextTool(r.session),
	)

	return r.tools
}

// GetTools returns the current set of registered tools.
func (r *ToolRegistry) GetTools() []tools.Tool {
	return r.tools
}

// Session returns the session the tools act on.
func (r *ToolRegistry) Session() *core.Session {
	return r.session
}
