package jira

// Issue represents a Jira issue as returned by the REST API.
// Fields stay a raw map so the response passes through unmodified.
type Issue struct {
	ID     string                 `json:"id,omitempty"`
	Key    string                 `json:"key,omitempty"`
	Self   string                 `json:"self,omitempty"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// SearchResults represents one page of a JQL search, echoing the
// pagination metadata from the API.
type SearchResults struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// CreatedIssue is the identity Jira returns after creating an issue.
type CreatedIssue struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key,omitempty"`
	Self string `json:"self,omitempty"`
}

// Visibility restricts a comment to a single group or project role.
type Visibility struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// User represents a Jira user reference inside API responses.
type User struct {
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Comment represents a comment as returned by the REST API. Every field is
// optional so a no-content response still renders as an empty object.
type Comment struct {
	ID         string      `json:"id,omitempty"`
	Self       string      `json:"self,omitempty"`
	Author     *User       `json:"author,omitempty"`
	Body       string      `json:"body,omitempty"`
	Created    string      `json:"created,omitempty"`
	Updated    string      `json:"updated,omitempty"`
	Visibility *Visibility `json:"visibility,omitempty"`
}
