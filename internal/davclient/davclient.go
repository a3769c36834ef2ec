// Package davclient is a minimal WebDAV client covering the operations the
// OCS facade needs: PROPFIND, raw GET, PUT, MKCOL, DELETE, COPY and MOVE
// against a fixed base URL with basic authentication.
//
// Network-level failures surface as errors; HTTP outcomes surface in a
// Result with a success flag, the status code and a description, so callers
// can translate failures without knowing the transport.
package davclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opencloudkit/ocs-go/internal/logutil"
)

// Client performs WebDAV operations below a fixed base URL.
type Client struct {
	baseURL  string // no trailing slash
	basePath string // URL path of baseURL, prefix of every resource href
	username string
	password string
	hc       *http.Client
	logger   *slog.Logger
}

// Options controls optional client behavior.
type Options struct {
	// HTTPClient replaces the default http.Client.
	HTTPClient *http.Client
	// Logger receives debug logs. Nil discards.
	Logger *slog.Logger
}

// New creates a client rooted at baseURL (e.g.
// https://server/remote.php/webdav).
func New(baseURL, username, password string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("davclient: invalid base URL %q: %w", baseURL, err)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		baseURL:  baseURL,
		basePath: u.Path,
		username: username,
		password: password,
		hc:       hc,
		logger:   logutil.NoopIfNil(opts.Logger),
	}, nil
}

// Resource is one entry of a PROPFIND multistatus response.
type Resource struct {
	// Href is the raw href as returned by the server.
	Href string
	// Path is the decoded path relative to the client's base URL, with a
	// leading slash.
	Path         string
	IsCollection bool
	ContentType  string
	// ContentLength is nil when the server reports none (collections).
	ContentLength *int64
	ETag          string
	DisplayName   string
	Created       time.Time
	Modified      time.Time
}

// Result is the outcome of a WebDAV operation.
type Result struct {
	// OK is true for 2xx outcomes (and multistatus for PROPFIND).
	OK         bool
	StatusCode int
	// Description is a short human-readable outcome text.
	Description string
	// Resources is populated by Propfind.
	Resources []Resource
}

// resourceURL joins path onto the base URL, escaping each segment.
func (c *Client) resourceURL(path string) string {
	if path == "" || path == "/" {
		return c.baseURL + "/"
	}
	trailing := strings.HasSuffix(path, "/")
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := c.baseURL + "/" + strings.Join(segments, "/")
	if trailing {
		u += "/"
	}
	return u
}

// relativePath strips the client's base path from a decoded href. Hrefs
// outside the base path are an error: the server answered for a resource
// this client never asked about.
func (c *Client) relativePath(href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("davclient: invalid href %q: %w", href, err)
	}
	p := u.Path
	if !strings.HasPrefix(p, c.basePath) {
		return "", fmt.Errorf("davclient: href %q outside base path %q", href, c.basePath)
	}
	rel := strings.TrimPrefix(p, c.basePath)
	if rel == "" {
		rel = "/"
	}
	return rel, nil
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	return req, nil
}

// simpleResult drains and closes resp and converts it into a Result.
func simpleResult(resp *http.Response) *Result {
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	return &Result{
		OK:          resp.StatusCode >= 200 && resp.StatusCode <= 299,
		StatusCode:  resp.StatusCode,
		Description: resp.Status,
	}
}

const propfindBody = `<?xml version="1.0" encoding="utf-8"?><d:propfind xmlns:d="DAV:"><d:allprop/></d:propfind>`

// Propfind lists path with Depth 1. The listed resource itself is included
// in the result, as the protocol prescribes.
func (c *Client) Propfind(ctx context.Context, path string) (*Result, error) {
	req, err := c.newRequest(ctx, "PROPFIND", c.resourceURL(path), strings.NewReader(propfindBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Depth", "1")
	req.Header.Set("Content-Type", "application/xml")

	c.logger.Debug("dav propfind", "path", path)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMultiStatus {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return &Result{StatusCode: resp.StatusCode, Description: resp.Status}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	resources, err := c.parseMultistatus(body)
	if err != nil {
		return &Result{StatusCode: resp.StatusCode, Description: err.Error()}, nil
	}
	return &Result{OK: true, StatusCode: resp.StatusCode, Description: resp.Status, Resources: resources}, nil
}

// Get streams the file at path. The returned reader must be closed by the
// caller; it is nil when the result is not OK.
func (c *Client) Get(ctx context.Context, path string) (io.ReadCloser, *Result, error) {
	return c.GetURL(ctx, c.resourceURL(path))
}

// GetURL streams an arbitrary URL on the same server with the client's
// credentials. Used for non-WebDAV convenience endpoints such as the
// directory-as-zip download.
func (c *Client) GetURL(ctx context.Context, rawURL string) (io.ReadCloser, *Result, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("dav get", "url", rawURL)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, simpleResult(resp), nil
	}
	return resp.Body, &Result{OK: true, StatusCode: resp.StatusCode, Description: resp.Status}, nil
}

// Put uploads body to path. contentType may be empty.
func (c *Client) Put(ctx context.Context, path string, body io.Reader, contentType string) (*Result, error) {
	req, err := c.newRequest(ctx, http.MethodPut, c.resourceURL(path), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.logger.Debug("dav put", "path", path, "content_type", contentType)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	return simpleResult(resp), nil
}

// Mkcol creates the collection at path.
func (c *Client) Mkcol(ctx context.Context, path string) (*Result, error) {
	return c.bodyless(ctx, "MKCOL", path)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) (*Result, error) {
	return c.bodyless(ctx, http.MethodDelete, path)
}

// Copy copies source onto destination, overwriting.
func (c *Client) Copy(ctx context.Context, source, destination string) (*Result, error) {
	return c.relocate(ctx, "COPY", source, destination)
}

// Move moves source onto destination, overwriting.
func (c *Client) Move(ctx context.Context, source, destination string) (*Result, error) {
	return c.relocate(ctx, "MOVE", source, destination)
}

func (c *Client) bodyless(ctx context.Context, method, path string) (*Result, error) {
	req, err := c.newRequest(ctx, method, c.resourceURL(path), nil)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("dav "+strings.ToLower(method), "path", path)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	return simpleResult(resp), nil
}

func (c *Client) relocate(ctx context.Context, method, source, destination string) (*Result, error) {
	req, err := c.newRequest(ctx, method, c.resourceURL(source), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Destination", c.resourceURL(destination))
	req.Header.Set("Overwrite", "T")
	c.logger.Debug("dav "+strings.ToLower(method), "source", source, "destination", destination)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	return simpleResult(resp), nil
}
