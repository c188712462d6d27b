package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"jira-mcp-server/internal/jira"
)

// optionalStringSlice extracts an optional array-of-strings argument.
// JSON arrays arrive as []interface{}, so each element is checked
// individually.
func optionalStringSlice(req mcp.CallToolRequest, name string) ([]string, error) {
	raw, ok := req.GetArguments()[name]
	if !ok || raw == nil {
		return nil, nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("parameter %s must be an array of strings", name)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %s must be an array of strings", name)
		}
		out = append(out, s)
	}
	return out, nil
}

// optionalVisibility extracts the comment visibility restriction, if any.
func optionalVisibility(req mcp.CallToolRequest) (*jira.Visibility, error) {
	raw, ok := req.GetArguments()["visibility"]
	if !ok || raw == nil {
		return nil, nil
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("parameter visibility must be an object")
	}

	visibility := &jira.Visibility{}
	visibility.Type, _ = obj["type"].(string)
	visibility.Value, _ = obj["value"].(string)

	if visibility.Type != "group" && visibility.Type != "role" {
		return nil, fmt.Errorf("visibility type must be 'group' or 'role'")
	}
	if visibility.Value == "" {
		return nil, fmt.Errorf("visibility value is required")
	}
	return visibility, nil
}

func boolPtr(b bool) *bool {
	return &b
}
