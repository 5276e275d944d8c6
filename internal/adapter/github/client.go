// Package github reads repository metadata and contents from the GitHub REST API.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Strob0t/DocuCrew/internal/domain"
	"github.com/Strob0t/DocuCrew/internal/domain/repository"
	"github.com/Strob0t/DocuCrew/internal/port/repohost"
)

const defaultAPIURL = "https://api.github.com"

// ErrNotDirectory is returned by ListDir when the path names a file.
var ErrNotDirectory = errors.New("not a directory")

// ErrNotFile is returned by ReadFile when the path does not name a plain file.
var ErrNotFile = errors.New("not a plain file")

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github api: %s: %s", e.Status, e.Message)
	}
	return "github api: " + e.Status
}

// Unwrap maps 404 responses to domain.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

// Client implements repohost.Source for GitHub.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

var _ repohost.Source = (*Client)(nil)

// NewClient creates a GitHub client. An empty apiURL selects the public API.
// token is optional; a per-request token from repohost.WithToken takes precedence.
func NewClient(apiURL, token string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     strings.TrimRight(apiURL, "/"),
		token:      token,
	}
}

// githubRepo is the subset of the repository resource DocuCrew reads.
type githubRepo struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// githubContent is an item of the contents API.
type githubContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Encoding string `json:"encoding,omitempty"`
	Content  string `json:"content,omitempty"`
}

// Metadata returns the descriptive fields of owner/name.
func (c *Client) Metadata(ctx context.Context, owner, name string) (*repository.Metadata, error) {
	var r githubRepo
	if err := c.get(ctx, repoPath(owner, name), &r); err != nil {
		return nil, err
	}
	return &repository.Metadata{
		Name:            r.Name,
		FullName:        r.FullName,
		Description:     r.Description,
		PrimaryLanguage: r.Language,
		Stars:           r.StargazersCount,
		Forks:           r.ForksCount,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

// Languages returns byte counts per language.
func (c *Client) Languages(ctx context.Context, owner, name string) (map[string]int64, error) {
	langs := map[string]int64{}
	if err := c.get(ctx, repoPath(owner, name, "languages"), &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// Topics returns the repository topics.
func (c *Client) Topics(ctx context.Context, owner, name string) ([]string, error) {
	var body struct {
		Names []string `json:"names"`
	}
	if err := c.get(ctx, repoPath(owner, name, "topics"), &body); err != nil {
		return nil, err
	}
	if body.Names == nil {
		body.Names = []string{}
	}
	return body.Names, nil
}

// ListDir lists the directory at p in the host's listing order.
func (c *Client) ListDir(ctx context.Context, owner, name, p string) ([]repohost.DirEntry, error) {
	var raw json.RawMessage
	if err := c.get(ctx, repoPath(owner, name, "contents", p), &raw); err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(string(raw)); !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("list %q: %w", p, ErrNotDirectory)
	}

	var items []githubContent
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode listing %q: %w", p, err)
	}
	entries := make([]repohost.DirEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, repohost.DirEntry{
			Name: it.Name,
			Path: it.Path,
			Type: repository.NodeType(it.Type),
			Size: it.Size,
		})
	}
	return entries, nil
}

// ReadFile returns the decoded contents of the plain file at p.
func (c *Client) ReadFile(ctx context.Context, owner, name, p string) ([]byte, error) {
	var raw json.RawMessage
	if err := c.get(ctx, repoPath(owner, name, "contents", p), &raw); err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("read %q: %w", p, ErrNotFile)
	}

	var item githubContent
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode file %q: %w", p, err)
	}
	if item.Type != string(repository.TypeFile) {
		return nil, fmt.Errorf("read %q (%s): %w", p, item.Type, ErrNotFile)
	}
	if item.Encoding != "base64" {
		return nil, fmt.Errorf("read %q: unsupported encoding %q", p, item.Encoding)
	}

	// The API wraps base64 content at 60 columns.
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(item.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", p, err)
	}
	return data, nil
}

func repoPath(owner, name string, rest ...string) string {
	return path.Join(append([]string{"/repos", owner, name}, rest...)...)
}

func (c *Client) get(ctx context.Context, endpoint string, result any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return err
	}
	return c.doRequest(req, result)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string) (*http.Request, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	u.Path = path.Join(u.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	token := repohost.TokenFromContext(ctx)
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "DocuCrew/1.0")
	return req, nil
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request %s: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
		var body struct {
			Message string `json:"message"`
		}
		if b, rerr := io.ReadAll(io.LimitReader(resp.Body, 4096)); rerr == nil && json.Unmarshal(b, &body) == nil {
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode %s: %w", req.URL.Path, err)
		}
	}
	return nil
}
