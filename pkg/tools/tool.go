// Package tools defines the contract shared by every callable tool the
// server exposes.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Tool represents one remotely callable operation. Tools are invoked with a
// JSON object of arguments that matches Schema.
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "browse_to")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters.
	// The schema must be an object schema.
	Schema() map[string]interface{}

	// Execute runs the tool with the given JSON arguments.
	// Returns: (result string, metadata map, error)
	// Metadata is optional and can be nil
	Execute(ctx context.Context, argumentsJSON []byte) (string, map[string]interface{}, error)
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	if properties == nil {
		properties = map[string]interface{}{}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// UnmarshalArgs decodes tool arguments into v. Empty input and a JSON null
// leave v at its zero value. Unknown keys are ignored, which also covers the
// opaque "context" argument older clients send.
func UnmarshalArgs(data []byte, v interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}
