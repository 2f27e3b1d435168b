package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devconnect/internal/config"
)

var ErrNoProfile = errors.New("no github profile found")

// Client proxies the public GitHub API for the profile page's
// repository listing.
type Client interface {
	ListRepos(ctx context.Context, username string) (json.RawMessage, error)
}

type httpClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
}

func NewClient(cfg config.GitHubConfig) Client {
	return &httpClient{
		baseURL:      "https://api.github.com",
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		client:       &http.Client{Timeout: 5 * time.Second},
	}
}

// ListRepos returns the five most recently created repositories for the
// username, passed through as raw JSON.
func (c *httpClient) ListRepos(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNoProfile
	}

	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if c.clientID != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.clientSecret)
	}
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "devconnect")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNoProfile
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("github: invalid response body")
	}
	return json.RawMessage(body), nil
}
