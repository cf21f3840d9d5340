// Package client is a typed consumer of the REST API, used by front ends and
// integration tools.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

const tokenHeader = "x-auth-token"

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status int
	Msg    string
	Code   string
	Errors []models.FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		msgs := make([]string, 0, len(e.Errors))
		for _, fe := range e.Errors {
			msgs = append(msgs, fe.Msg)
		}
		return fmt.Sprintf("api: %d: %s", e.Status, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Msg)
}

// Messages returns every user-facing message carried by the error.
func (e *APIError) Messages() []string {
	if len(e.Errors) == 0 {
		return []string{e.Msg}
	}
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Msg)
	}
	return out
}

// Client talks to one API base URL. It keeps the session token returned by
// Register and Login.
type Client struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithTimeout bounds every request. The default is ten seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithToken starts the client with an existing session.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Logout forgets the session token.
func (c *Client) Logout() {
	c.SetToken("")
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if tok := c.Token(); tok != "" {
		agent.Set(tokenHeader, tok)
	}
	if in != nil {
		agent.JSON(in)
	}
	agent.Timeout(timeout)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("client: %s %s: %w", method, path, errors.Join(errs...))
	}
	if code >= fiber.StatusBadRequest {
		return decodeError(code, body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	apiErr := &APIError{Status: status}

	var payload struct {
		Msg    string              `json:"msg"`
		Code   string              `json:"code"`
		Errors []models.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Msg = strings.TrimSpace(string(body))
		return apiErr
	}
	apiErr.Msg = payload.Msg
	apiErr.Code = payload.Code
	apiErr.Errors = payload.Errors
	return apiErr
}

type tokenResponse struct {
	Token string `json:"token"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}

// Register creates an account and keeps its token.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	var out tokenResponse
	err := c.do(ctx, fiber.MethodPost, "/api/users", map[string]string{
		"name": name, "email": email, "password": password,
	}, &out)
	if err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

// Login exchanges credentials for a token and keeps it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out tokenResponse
	err := c.do(ctx, fiber.MethodPost, "/api/auth", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, fiber.MethodGet, "/api/auth", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ProfileForm is the profile submission. Empty fields are not sent, so
// they keep their stored values.
type ProfileForm struct {
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Company        string `json:"company,omitempty"`
	Website        string `json:"website,omitempty"`
	Location       string `json:"location,omitempty"`
	Bio            string `json:"bio,omitempty"`
	GitHubUsername string `json:"githubusername,omitempty"`
	YouTube        string `json:"youtube,omitempty"`
	Twitter        string `json:"twitter,omitempty"`
	Facebook       string `json:"facebook,omitempty"`
	LinkedIn       string `json:"linkedin,omitempty"`
	Instagram      string `json:"instagram,omitempty"`
}

// ExperienceForm dates use YYYY-MM-DD.
type ExperienceForm struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// EducationForm dates use YYYY-MM-DD.
type EducationForm struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

func (c *Client) MyProfile(ctx context.Context) (*models.Profile, error) {
	return c.profile(ctx, fiber.MethodGet, "/api/profile/me", nil)
}

// SaveProfile creates or updates the caller's profile.
func (c *Client) SaveProfile(ctx context.Context, form ProfileForm) (*models.Profile, error) {
	return c.profile(ctx, fiber.MethodPost, "/api/profile", form)
}

func (c *Client) Profiles(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	if err := c.do(ctx, fiber.MethodGet, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProfileByUser(ctx context.Context, userID string) (*models.Profile, error) {
	return c.profile(ctx, fiber.MethodGet, "/api/profile/user/"+url.PathEscape(userID), nil)
}

// DeleteAccount removes the profile and account and drops the token.
func (c *Client) DeleteAccount(ctx context.Context) (string, error) {
	var out msgResponse
	if err := c.do(ctx, fiber.MethodDelete, "/api/profile", nil, &out); err != nil {
		return "", err
	}
	c.Logout()
	return out.Msg, nil
}

func (c *Client) AddExperience(ctx context.Context, form ExperienceForm) (*models.Profile, error) {
	return c.profile(ctx, fiber.MethodPut, "/api/profile/experience", form)
}

func (c *Client) DeleteExperience(ctx context.Context, id string) (*models.Profile, error) {
	return c.profile(ctx, fiber.MethodDelete, "/api/profile/experience/"+url.PathEscape(id), nil)
}

func (c *Client) AddEducation(ctx context.Context, form EducationForm) (*models.Profile, error) {
	return c.profile(ctx, fiber.MethodPut, "/api/profile/education", form)
}

func (c *Client) DeleteEducation(ctx context.Context, id string) (*models.Profile, error) {
	return c.profile(ctx, fiber.MethodDelete, "/api/profile/education/"+url.PathEscape(id), nil)
}

// GitHubRepos returns the raw repository objects relayed by the API.
func (c *Client) GitHubRepos(ctx context.Context, username string) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.do(ctx, fiber.MethodGet, "/api/profile/github/"+url.PathEscape(username), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) profile(ctx context.Context, method, path string, in any) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, method, path, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePost(ctx context.Context, text string) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, fiber.MethodPost, "/api/posts", map[string]string{"text": text}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := c.do(ctx, fiber.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Post(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, fiber.MethodGet, "/api/posts/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, fiber.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Like(ctx context.Context, postID string) ([]models.Like, error) {
	var out []models.Like
	if err := c.do(ctx, fiber.MethodPut, "/api/posts/like/"+url.PathEscape(postID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Unlike(ctx context.Context, postID string) ([]models.Like, error) {
	var out []models.Like
	if err := c.do(ctx, fiber.MethodPut, "/api/posts/unlike/"+url.PathEscape(postID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, postID, text string) ([]models.Comment, error) {
	var out []models.Comment
	err := c.do(ctx, fiber.MethodPost, "/api/posts/comment/"+url.PathEscape(postID), map[string]string{"text": text}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) ([]models.Comment, error) {
	var out []models.Comment
	path := "/api/posts/comment/" + url.PathEscape(postID) + "/" + url.PathEscape(commentID)
	if err := c.do(ctx, fiber.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
