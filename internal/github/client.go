package github

import (
	"context"
	"fmt"
	"net/http"

	gogithub "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/hyprland-community/Hyprmaid/internal/config"
	"github.com/hyprland-community/Hyprmaid/internal/logger"
)

const defaultPerPage = 100

// Client talks to the GitHub REST API on behalf of one organization.
type Client struct {
	client  *gogithub.Client
	org     string
	perPage int
	log     *logger.Logger
}

// NewClient creates a GitHub client for cfg.Org. An empty token yields an
// unauthenticated client, which GitHub rate limits more aggressively.
func NewClient(cfg config.GitHubConfig, log *logger.Logger) (*Client, error) {
	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		log.Warn("GITHUB_TOKEN not set, using unauthenticated GitHub API access")
	}

	client := gogithub.NewClient(httpClient)

	if cfg.APIURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.APIURL, cfg.APIURL)
		if err != nil {
			return nil, fmt.Errorf("configuring GitHub enterprise URLs: %w", err)
		}
	}

	return &Client{
		client:  client,
		org:     cfg.Org,
		perPage: defaultPerPage,
		log:     log,
	}, nil
}

// Org returns the organization this client lists and hooks.
func (c *Client) Org() string {
	return c.org
}
