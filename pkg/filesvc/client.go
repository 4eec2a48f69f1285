// Package filesvc provides a client for the remote file-management
// service. It wraps the service's HTTP/JSON endpoints with context-aware
// methods and maps misses onto ErrNotFound.
package filesvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/allansene/orchest/pkg/filetree"
)

// ErrNotFound is returned when the remote service has no node at the
// requested path.
var ErrNotFound = errors.New("filesvc: not found")

// DefaultTimeout bounds each remote call when the caller's context carries
// no earlier deadline.
const DefaultTimeout = 30 * time.Second

// MoveRequest describes a move between two root/path locations, possibly
// across different roots.
type MoveRequest struct {
	SourceRoot      string `json:"source_root"`
	SourcePath      string `json:"source_path"`
	DestinationRoot string `json:"destination_root"`
	DestinationPath string `json:"destination_path"`
}

// Client calls the remote file-management API.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
}

// NewClient creates a client for the file-management API rooted at
// baseURL (e.g. "http://localhost:8000/async/file-management"). A
// non-positive timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL missing scheme or host: %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base:    base,
		http:    &http.Client{},
		timeout: timeout,
	}, nil
}

// FetchSubtree fetches the node at path in the given root, with nested
// children down to depth levels. A remote miss is reported as ErrNotFound.
func (c *Client) FetchSubtree(ctx context.Context, scope Scope, root, path string, depth int) (*filetree.TreeNode, error) {
	q := scope.Values()
	q.Set("root", root)
	q.Set("path", path)
	q.Set("depth", strconv.Itoa(depth))

	var node filetree.TreeNode
	if err := c.call(ctx, http.MethodGet, "/browse", q, nil, &node); err != nil {
		return nil, fmt.Errorf("fetch subtree %s:%s: %w", root, path, err)
	}
	return &node, nil
}

// CreateFile creates an empty file at path in the given root.
func (c *Client) CreateFile(ctx context.Context, scope Scope, root, path string) error {
	body := map[string]string{"root": root, "path": path}
	if err := c.call(ctx, http.MethodPost, "/create", scope.Values(), body, nil); err != nil {
		return fmt.Errorf("create file %s:%s: %w", root, path, err)
	}
	return nil
}

// CreateDirectory creates the directory at path in the given root.
func (c *Client) CreateDirectory(ctx context.Context, scope Scope, root, path string) error {
	body := map[string]string{"root": root, "path": path}
	if err := c.call(ctx, http.MethodPost, "/create-dir", scope.Values(), body, nil); err != nil {
		return fmt.Errorf("create directory %s:%s: %w", root, path, err)
	}
	return nil
}

// DeleteNode removes the node at path in the given root; directories are
// removed with their contents.
func (c *Client) DeleteNode(ctx context.Context, scope Scope, root, path string) error {
	body := map[string]string{"root": root, "path": path}
	if err := c.call(ctx, http.MethodPost, "/delete", scope.Values(), body, nil); err != nil {
		return fmt.Errorf("delete %s:%s: %w", root, path, err)
	}
	return nil
}

// MoveNode moves a node between two root/path locations.
func (c *Client) MoveNode(ctx context.Context, scope Scope, req MoveRequest) error {
	if err := c.call(ctx, http.MethodPost, "/rename", scope.Values(), req, nil); err != nil {
		return fmt.Errorf("move %s:%s to %s:%s: %w",
			req.SourceRoot, req.SourcePath, req.DestinationRoot, req.DestinationPath, err)
	}
	return nil
}

// call issues one HTTP request against the API. A JSON body is sent when
// body is non-nil; a 2xx response is decoded into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := *c.base
	u.Path += endpoint
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
