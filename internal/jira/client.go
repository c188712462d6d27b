// Package jira is a client for the Jira Server REST API v2. It owns the
// single outbound HTTP conversation pattern: authentication header
// construction, base-path prefixing, body encoding and response
// classification.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"jira-mcp-server/internal/config"
)

const apiPrefix = "/rest/api/2"

const defaultMaxResults = 50

// defaultSearchFields is the projection used when a search does not ask for
// specific fields.
var defaultSearchFields = []string{
	"key", "summary", "status", "assignee", "issuetype",
	"priority", "project", "created", "updated",
}

// ErrorBody is the structured error shape Jira returns on non-2xx responses.
type ErrorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// APIError means Jira answered with a non-2xx status. Transport failures are
// never APIErrors; they propagate as plain errors so callers can tell the
// two classes apart.
type APIError struct {
	StatusCode int
	Message    string
	Body       *ErrorBody
}

func (e *APIError) Error() string { return e.Message }

// newAPIError flattens the structured error body into a single message,
// falling back to the HTTP status line when the body carries nothing usable.
func newAPIError(statusCode int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var body ErrorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Body = &body
	}

	var messages []string
	if apiErr.Body != nil {
		messages = append(messages, body.ErrorMessages...)

		keys := make([]string, 0, len(body.Errors))
		for key := range body.Errors {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			messages = append(messages, fmt.Sprintf("%s: %s", key, body.Errors[key]))
		}
	}

	if len(messages) > 0 {
		apiErr.Message = strings.Join(messages, "; ")
	} else {
		apiErr.Message = fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode))
	}
	return apiErr
}

// Client talks to a single Jira Server instance. The base URL and the
// Authorization header are fixed at construction and reused for every call,
// so a Client is safe for concurrent use.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a new Jira client from a validated configuration.
// The Authorization header value is derived exactly once; credentials are
// never re-read or logged afterwards.
func NewClient(cfg *config.Config) *Client {
	var authHeader string
	switch cfg.AuthType {
	case config.AuthTypeBasic:
		auth := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
		authHeader = "Basic " + auth
	default:
		authHeader = "Bearer " + cfg.Token
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: authHeader,
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
	}
}

// doRequest performs one HTTP round trip against the REST API. The full
// response body is read before any status decision because Jira error bodies
// carry the diagnostics and some failure responses are not valid JSON.
// Network-level failures are returned wrapped but untyped.
func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}

	// 204 and empty bodies are legal success shapes; the caller gets the
	// zero value of its result type.
	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 || out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// SearchOptions bounds a JQL search to one result page.
type SearchOptions struct {
	StartAt    int
	MaxResults int
	Fields     []string
}

// SearchIssues runs a JQL search and returns one page of results verbatim.
// An empty field list falls back to the default projection; a zero
// MaxResults falls back to 50.
func (c *Client) SearchIssues(ctx context.Context, jql string, opts SearchOptions) (*SearchResults, error) {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = defaultSearchFields
	}
	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}

	body := map[string]interface{}{
		"jql":        jql,
		"startAt":    opts.StartAt,
		"maxResults": maxResults,
		"fields":     fields,
	}

	var results SearchResults
	if err := c.doRequest(ctx, http.MethodPost, "/search", body, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// GetIssue fetches a single issue by key or numeric id. Field and expand
// selectors are joined with commas; empty selectors are omitted from the
// query string entirely.
func (c *Client) GetIssue(ctx context.Context, idOrKey string, fields, expand []string) (*Issue, error) {
	path := "/issue/" + url.PathEscape(idOrKey)

	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	if len(expand) > 0 {
		params.Set("expand", strings.Join(expand, ","))
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var issue Issue
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// CreateIssue creates an issue. The fields argument must already be in the
// API's nested reference-object shape; the caller owns that reshaping.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]interface{}) (*CreatedIssue, error) {
	body := map[string]interface{}{"fields": fields}

	var created CreatedIssue
	if err := c.doRequest(ctx, http.MethodPost, "/issue", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AddComment posts a comment to an issue. The visibility restriction is
// included only when provided.
func (c *Client) AddComment(ctx context.Context, idOrKey, body string, visibility *Visibility) (*Comment, error) {
	payload := map[string]interface{}{"body": body}
	if visibility != nil {
		payload["visibility"] = visibility
	}

	var comment Comment
	if err := c.doRequest(ctx, http.MethodPost, "/issue/"+url.PathEscape(idOrKey)+"/comment", payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
