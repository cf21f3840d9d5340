// Package github fetches public repository listings for profile pages.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"devconnector/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// PerPage is the number of repositories requested and relayed.
const PerPage = 5

// ErrNoProfile is returned when GitHub answers with anything but 200.
var ErrNoProfile = errors.New("github: no profile")

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	UserAgent    string
}

// Client talks to the GitHub REST API through fiber's HTTP client.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "devconnector"
	}
	return &Client{cfg: cfg}
}

// ReposURL builds the listing URL for username.
func (c *Client) ReposURL(username string) string {
	q := url.Values{}
	q.Set("per_page", fmt.Sprint(PerPage))
	q.Set("sort", "created:asc")
	if c.cfg.ClientID != "" {
		q.Set("client_id", c.cfg.ClientID)
	}
	if c.cfg.ClientSecret != "" {
		q.Set("client_secret", c.cfg.ClientSecret)
	}
	return fmt.Sprintf("%s/users/%s/repos?%s", c.cfg.BaseURL, url.PathEscape(username), q.Encode())
}

// Repos returns at most PerPage raw repository objects of username.
func (c *Client) Repos(ctx context.Context, username string) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(fiber.MethodGet)
	req.SetRequestURI(c.ReposURL(username))
	agent.UserAgent(c.cfg.UserAgent)
	agent.Set(fiber.HeaderAccept, "application/vnd.github+json")
	agent.Timeout(timeout)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		observability.GitHubRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("github: build request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		observability.GitHubRequestsTotal.WithLabelValues("error").Inc()
		observability.Logger.WarnContext(ctx, "github request failed",
			slog.String("username", username),
			slog.String("error", errors.Join(errs...).Error()),
		)
		return nil, fmt.Errorf("github: %w", errors.Join(errs...))
	}

	if code != fiber.StatusOK {
		observability.GitHubRequestsTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: status %d", ErrNoProfile, code)
	}

	var repos []json.RawMessage
	if err := json.Unmarshal(body, &repos); err != nil {
		observability.GitHubRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("github: decode repos: %w", err)
	}
	if len(repos) > PerPage {
		repos = repos[:PerPage]
	}

	observability.GitHubRequestsTotal.WithLabelValues("ok").Inc()
	return repos, nil
}
