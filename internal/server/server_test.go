package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jira-mcp-server/internal/config"
	"jira-mcp-server/internal/jira"
)

func newTestServer(t *testing.T) *mcpserver.MCPServer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	client := jira.NewClient(&config.Config{
		BaseURL:  srv.URL,
		AuthType: config.AuthTypeToken,
		Token:    "secret",
	})
	return New(client, "test")
}

// roundTrip sends one raw JSON-RPC message and returns the re-marshaled
// response for structural inspection.
func roundTrip(t *testing.T, s *mcpserver.MCPServer, message string) []byte {
	t.Helper()
	resp := s.HandleMessage(context.Background(), json.RawMessage(message))
	require.NotNil(t, resp)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	return data
}

func TestListToolsCatalog(t *testing.T) {
	s := newTestServer(t)
	data := roundTrip(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	var parsed struct {
		Result struct {
			Tools []struct {
				Name        string                 `json:"name"`
				Description string                 `json:"description"`
				InputSchema map[string]interface{} `json:"inputSchema"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))

	names := make([]string, 0, len(parsed.Result.Tools))
	for _, tool := range parsed.Result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %s needs a description", tool.Name)
		assert.NotEmpty(t, tool.InputSchema, "tool %s needs an input schema", tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"jira_search_issues",
		"jira_get_issue",
		"jira_create_issue",
		"jira_add_comment",
	}, names)
}

func TestSearchSchemaConstrainsMaxResults(t *testing.T) {
	s := newTestServer(t)
	data := roundTrip(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	var parsed struct {
		Result struct {
			Tools []struct {
				Name        string `json:"name"`
				InputSchema struct {
					Properties map[string]map[string]interface{} `json:"properties"`
					Required   []string                          `json:"required"`
				} `json:"inputSchema"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))

	for _, tool := range parsed.Result.Tools {
		if tool.Name != "jira_search_issues" {
			continue
		}
		assert.Contains(t, tool.InputSchema.Required, "jql")
		maxResults := tool.InputSchema.Properties["maxResults"]
		require.NotNil(t, maxResults)
		assert.Equal(t, float64(1), maxResults["minimum"])
		assert.Equal(t, float64(100), maxResults["maximum"])
		return
	}
	t.Fatal("jira_search_issues not found in catalog")
}

func TestUnknownToolIsProtocolError(t *testing.T) {
	s := newTestServer(t)
	data := roundTrip(t, s,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"not_a_real_tool","arguments":{}}}`)

	var parsed struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.NotNil(t, parsed.Error, "unknown tools must fail at the channel layer, not as tool output")
	assert.Empty(t, parsed.Result)
}

func TestInvalidArgumentsAreBusinessError(t *testing.T) {
	s := newTestServer(t)
	data := roundTrip(t, s,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"jira_get_issue","arguments":{}}}`)

	var parsed struct {
		Result *struct {
			IsError bool `json:"isError"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error json.RawMessage `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Empty(t, parsed.Error, "validation failures must be reported in-band")
	require.NotNil(t, parsed.Result)
	assert.True(t, parsed.Result.IsError)
	require.NotEmpty(t, parsed.Result.Content)
	assert.Equal(t, "text", parsed.Result.Content[0].Type)
}

func TestCallToolSuccessEnvelope(t *testing.T) {
	issueJSON := `{"id":"10000","key":"PROJ-123","fields":{"summary":"x"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(issueJSON))
	}))
	t.Cleanup(srv.Close)

	client := jira.NewClient(&config.Config{
		BaseURL:  srv.URL,
		AuthType: config.AuthTypeToken,
		Token:    "secret",
	})
	s := New(client, "test")

	data := roundTrip(t, s, fmt.Sprintf(
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"jira_get_issue","arguments":{"issueKey":%q}}}`,
		"PROJ-123"))

	var parsed struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.False(t, parsed.Result.IsError)
	require.Len(t, parsed.Result.Content, 1)
	assert.JSONEq(t, issueJSON, parsed.Result.Content[0].Text)
}
