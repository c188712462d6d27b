// Package tools defines the MCP tool catalog and routes tool invocations to
// the Jira client. It is the one place that decides whether a failure is
// reported in-band as tool output or raised as a protocol fault: every
// backend or validation failure terminates in a result envelope with the
// error flag set, never in a returned Go error.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"jira-mcp-server/internal/jira"
	"jira-mcp-server/internal/logging"
)

const (
	maxResultsDefault = 50
	maxResultsLimit   = 100
)

// jsonResult renders v as pretty-printed JSON in a text content block.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult maps a backend failure to a business-error envelope. Jira API
// rejections are prefixed so the calling agent can tell them from transport
// failures; neither class is raised as a protocol fault.
func errorResult(err error) *mcp.CallToolResult {
	var apiErr *jira.APIError
	if errors.As(err, &apiErr) {
		return mcp.NewToolResultError("Jira API Error: " + apiErr.Message)
	}
	return mcp.NewToolResultError(err.Error())
}

// SearchIssues returns the jira_search_issues tool and its handler.
func SearchIssues(client *jira.Client) (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.NewTool("jira_search_issues",
			mcp.WithDescription("Search Jira issues using JQL (Jira Query Language)"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Search issues",
				ReadOnlyHint: boolPtr(true),
			}),
			mcp.WithString("jql",
				mcp.Required(),
				mcp.Description("The JQL query string (e.g., 'project = PROJ AND status = Open')"),
			),
			mcp.WithNumber("maxResults",
				mcp.Description("Maximum number of issues to return (1-100, default 50)"),
				mcp.DefaultNumber(maxResultsDefault),
				mcp.Min(1),
				mcp.Max(maxResultsLimit),
			),
			mcp.WithArray("fields",
				mcp.WithStringItems(),
				mcp.Description("Issue fields to include (omit for the default projection)"),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			jql, err := req.RequireString("jql")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			maxResults := req.GetInt("maxResults", maxResultsDefault)
			if maxResults < 1 || maxResults > maxResultsLimit {
				return mcp.NewToolResultError(fmt.Sprintf("maxResults must be between 1 and %d, got %d", maxResultsLimit, maxResults)), nil
			}

			fields, err := optionalStringSlice(req, "fields")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			logging.Debugf("jira_search_issues: jql=%q maxResults=%d", jql, maxResults)

			results, err := client.SearchIssues(ctx, jql, jira.SearchOptions{
				MaxResults: maxResults,
				Fields:     fields,
			})
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(results)
		}
}

// GetIssue returns the jira_get_issue tool and its handler.
func GetIssue(client *jira.Client) (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.NewTool("jira_get_issue",
			mcp.WithDescription("Retrieve a Jira issue by its key or numeric id"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:          "Get issue",
				ReadOnlyHint:   boolPtr(true),
				IdempotentHint: boolPtr(true),
			}),
			mcp.WithString("issueKey",
				mcp.Required(),
				mcp.Description("The issue key (e.g., PROJ-123) or numeric id"),
			),
			mcp.WithArray("fields",
				mcp.WithStringItems(),
				mcp.Description("Issue fields to include (omit for all fields)"),
			),
			mcp.WithArray("expand",
				mcp.WithStringItems(),
				mcp.Description("Expansions to apply (e.g., changelog, transitions)"),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			issueKey, err := req.RequireString("issueKey")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			fields, err := optionalStringSlice(req, "fields")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			expand, err := optionalStringSlice(req, "expand")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			logging.Debugf("jira_get_issue: issueKey=%s", issueKey)

			issue, err := client.GetIssue(ctx, issueKey, fields, expand)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(issue)
		}
}

// createIssueInput is the flat argument set of jira_create_issue before
// reshaping into the API's reference-object form.
type createIssueInput struct {
	ProjectKey  string
	Summary     string
	IssueType   string
	Description string
	Priority    string
	Assignee    string
	Labels      []string
	Components  []string
}

// buildIssueFields reshapes flat tool arguments into the nested
// reference-object form the REST API expects: a bare project key becomes
// {key: ...}, bare names become {name: ...}. Optionals are omitted entirely.
func buildIssueFields(in createIssueInput) map[string]interface{} {
	fields := map[string]interface{}{
		"project":   map[string]interface{}{"key": in.ProjectKey},
		"summary":   in.Summary,
		"issuetype": map[string]interface{}{"name": in.IssueType},
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.Priority != "" {
		fields["priority"] = map[string]interface{}{"name": in.Priority}
	}
	if in.Assignee != "" {
		fields["assignee"] = map[string]interface{}{"name": in.Assignee}
	}
	if len(in.Labels) > 0 {
		fields["labels"] = in.Labels
	}
	if len(in.Components) > 0 {
		components := make([]interface{}, 0, len(in.Components))
		for _, name := range in.Components {
			components = append(components, map[string]interface{}{"name": name})
		}
		fields["components"] = components
	}
	return fields
}

// CreateIssue returns the jira_create_issue tool and its handler.
func CreateIssue(client *jira.Client) (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.NewTool("jira_create_issue",
			mcp.WithDescription("Create a new Jira issue"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:           "Create issue",
				DestructiveHint: boolPtr(false),
			}),
			mcp.WithString("projectKey",
				mcp.Required(),
				mcp.Description("The project key (e.g., PROJ)"),
			),
			mcp.WithString("summary",
				mcp.Required(),
				mcp.Description("The issue summary/title"),
			),
			mcp.WithString("issueType",
				mcp.Required(),
				mcp.Description("The issue type name (e.g., Bug, Story, Task)"),
			),
			mcp.WithString("description",
				mcp.Description("The issue description"),
			),
			mcp.WithString("priority",
				mcp.Description("The priority name (e.g., High)"),
			),
			mcp.WithString("assignee",
				mcp.Description("The assignee username"),
			),
			mcp.WithArray("labels",
				mcp.WithStringItems(),
				mcp.Description("Labels to apply"),
			),
			mcp.WithArray("components",
				mcp.WithStringItems(),
				mcp.Description("Component names to assign"),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			projectKey, err := req.RequireString("projectKey")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			summary, err := req.RequireString("summary")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			issueType, err := req.RequireString("issueType")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			labels, err := optionalStringSlice(req, "labels")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			components, err := optionalStringSlice(req, "components")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			fields := buildIssueFields(createIssueInput{
				ProjectKey:  projectKey,
				Summary:     summary,
				IssueType:   issueType,
				Description: req.GetString("description", ""),
				Priority:    req.GetString("priority", ""),
				Assignee:    req.GetString("assignee", ""),
				Labels:      labels,
				Components:  components,
			})

			logging.Debugf("jira_create_issue: project=%s type=%s", projectKey, issueType)

			created, err := client.CreateIssue(ctx, fields)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(created)
		}
}

// AddComment returns the jira_add_comment tool and its handler.
func AddComment(client *jira.Client) (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.NewTool("jira_add_comment",
			mcp.WithDescription("Add a comment to a Jira issue"),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:           "Add comment",
				DestructiveHint: boolPtr(false),
			}),
			mcp.WithString("issueKey",
				mcp.Required(),
				mcp.Description("The issue key (e.g., PROJ-123) or numeric id"),
			),
			mcp.WithString("body",
				mcp.Required(),
				mcp.Description("The comment text"),
			),
			mcp.WithObject("visibility",
				mcp.Description("Restrict the comment to a group or project role"),
				mcp.Properties(map[string]interface{}{
					"type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"group", "role"},
						"description": "Restriction kind",
					},
					"value": map[string]interface{}{
						"type":        "string",
						"description": "Group or role name",
					},
				}),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			issueKey, err := req.RequireString("issueKey")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			body, err := req.RequireString("body")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			visibility, err := optionalVisibility(req)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			logging.Debugf("jira_add_comment: issueKey=%s", issueKey)

			comment, err := client.AddComment(ctx, issueKey, body, visibility)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(comment)
		}
}
