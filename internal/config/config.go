// Package config resolves the Jira connection settings from the environment.
//
// Configuration is read once at startup. A failed load is fatal by design:
// the server must never start serving tools without a fully valid connection
// profile.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AuthType selects how the client authenticates against Jira.
type AuthType string

const (
	// AuthTypeToken sends a personal access token as a Bearer header.
	AuthTypeToken AuthType = "token"
	// AuthTypeBasic sends username:password as a Basic header.
	AuthTypeBasic AuthType = "basic"
)

// Config holds everything needed to reach one Jira Server instance.
// It is immutable after Load returns.
type Config struct {
	BaseURL  string
	AuthType AuthType
	Token    string
	Username string
	Password string

	// LogFile enables a debug-level log copy when set.
	LogFile string
}

// Load reads configuration from the environment (and a .env file when one
// exists) and validates it. A non-nil error means the server must not start.
func Load() (*Config, error) {
	// Best effort; plain environment variables are the primary source.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("JIRA_AUTH_TYPE", string(AuthTypeToken))

	cfg := &Config{
		BaseURL:  strings.TrimRight(v.GetString("JIRA_URL"), "/"),
		AuthType: AuthType(v.GetString("JIRA_AUTH_TYPE")),
		Token:    v.GetString("JIRA_TOKEN"),
		Username: v.GetString("JIRA_USERNAME"),
		Password: v.GetString("JIRA_PASSWORD"),
		LogFile:  v.GetString("JIRA_MCP_LOG_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate collects every configuration problem into one error.
func (c *Config) Validate() error {
	var problems []string

	if c.BaseURL == "" {
		problems = append(problems, "JIRA_URL is required")
	} else if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("JIRA_URL %q must be an http(s) URL", c.BaseURL))
	}

	switch c.AuthType {
	case AuthTypeToken:
		if c.Token == "" {
			problems = append(problems, "JIRA_TOKEN is required for token auth")
		}
	case AuthTypeBasic:
		if c.Username == "" {
			problems = append(problems, "JIRA_USERNAME is required for basic auth")
		}
		if c.Password == "" {
			problems = append(problems, "JIRA_PASSWORD is required for basic auth")
		}
	default:
		problems = append(problems, fmt.Sprintf("JIRA_AUTH_TYPE %q is invalid: must be 'token' or 'basic'", c.AuthType))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
