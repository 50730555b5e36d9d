// Package api is the typed HTTP client for the snapfeed backend. Every
// authenticated call reads the bearer credential from the session store
// just before the request is built; an absent credential is not special-
// cased here, the server answers 401 and the caller surfaces it like any
// other failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"snapfeed/internal/models"
)

// TokenSource yields the current bearer credential, if any.
type TokenSource interface {
	Token() (string, bool)
}

// Error is a server-reported failure. Detail carries the structured
// message from the response body when the server provided one.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

// New builds a client for the backend at base (without the /api prefix).
// Timeouts are the transport defaults.
func New(base string, tokens TokenSource) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{},
		tokens: tokens,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if tok, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return &Error{Status: resp.StatusCode, Detail: payload.Detail}
	}
	return &Error{Status: resp.StatusCode, Detail: strings.TrimSpace(string(raw))}
}

// -------- Auth

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// -------- Profile

func (c *Client) Me(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMe(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodPut, "/api/me", upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) User(ctx context.Context, userID string) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	var out []models.UserSummary
	if err := c.do(ctx, http.MethodGet, "/api/users/search/"+url.PathEscape(query), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Follow(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/users/"+url.PathEscape(userID)+"/follow", nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(userID)+"/follow", nil, nil)
}

// -------- Posts

func (c *Client) Feed(ctx context.Context, skip, limit int) ([]models.Post, error) {
	var out []models.Post
	path := fmt.Sprintf("/api/feed?skip=%d&limit=%d", skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UserPosts(ctx context.Context, userID string, skip, limit int) ([]models.Post, error) {
	var out []models.Post
	path := fmt.Sprintf("/api/users/%s/posts?skip=%d&limit=%d", url.PathEscape(userID), skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePost(ctx context.Context, req models.PostCreate) (*models.Post, error) {
	var out models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Post(ctx context.Context, postID string) (*models.Post, error) {
	var out models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(postID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID), nil, nil)
}

// -------- Likes

func (c *Client) Like(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/like", nil, nil)
}

func (c *Client) Unlike(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID)+"/like", nil, nil)
}

// -------- Comments

func (c *Client) Comments(ctx context.Context, postID string, skip, limit int) ([]models.Comment, error) {
	var out []models.Comment
	path := fmt.Sprintf("/api/posts/%s/comments?skip=%d&limit=%d", url.PathEscape(postID), skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, postID, text string) (*models.Comment, error) {
	var out models.Comment
	path := "/api/posts/" + url.PathEscape(postID) + "/comments"
	if err := c.do(ctx, http.MethodPost, path, models.CommentCreate{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/comments/"+url.PathEscape(commentID), nil, nil)
}
