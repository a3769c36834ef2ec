// Package ocs is a client for the Open Collaboration Services API and the
// WebDAV endpoint of OwnCloud and Nextcloud servers. One Client covers file
// operations, share management and the provisioning API.
//
// Errors come in three kinds: TransportError for failed round trips and
// unreadable envelopes, ProtocolError for server-reported OCS failures, and
// DavError for failed WebDAV operations. Argument mistakes surface as
// package sentinel errors before any network call.
package ocs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/opencloudkit/ocs-go/internal/davclient"
	"github.com/opencloudkit/ocs-go/internal/logutil"
)

const (
	ocsBasePath     = "/ocs/v1.php"
	davBasePath     = "/remote.php/webdav"
	zipDownloadPath = "/index.php/apps/files/ajax/download.php"

	// OCS service prefixes. Config lives at the OCS root.
	serviceShare = "apps/files_sharing/api/v1"
	serviceCloud = "cloud"
	serviceData  = "privatedata"
)

// Client talks to one server with one set of credentials, both fixed at
// construction. It holds no other mutable state, so it is safe for
// concurrent use.
type Client struct {
	baseURL  string // no trailing slash
	username string
	rest     *resty.Client
	dav      *davclient.Client
	logger   *slog.Logger
}

// Options controls optional Client behavior. The zero value is usable.
type Options struct {
	// Logger receives debug logs. Nil discards.
	Logger *slog.Logger
	// Timeout bounds each OCS round trip. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient replaces the default transport for both the OCS and the
	// WebDAV layer. Mainly useful for tests and custom TLS setups.
	HTTPClient *http.Client
}

// NewClient creates a client for the server at baseURL (scheme and host,
// e.g. https://cloud.example.org) authenticating as username.
func NewClient(baseURL, username, password string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	var rest *resty.Client
	if opts.HTTPClient != nil {
		rest = resty.NewWithClient(opts.HTTPClient)
	} else {
		rest = resty.New()
	}
	rest.SetBaseURL(baseURL+ocsBasePath).
		SetBasicAuth(username, password).
		SetHeader("OCS-APIREQUEST", "true").
		SetHeader("Accept", "text/xml, application/xml").
		SetQueryParam("format", "xml")
	if opts.Timeout > 0 {
		rest.SetTimeout(opts.Timeout)
	}

	dav, err := davclient.New(baseURL+davBasePath, username, password, &davclient.Options{
		HTTPClient: opts.HTTPClient,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:  baseURL,
		username: username,
		rest:     rest,
		dav:      dav,
		logger:   logutil.NoopIfNil(opts.Logger),
	}, nil
}

// BaseURL returns the configured server URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Username returns the authenticated user name.
func (c *Client) Username() string { return c.username }

// WebDavBaseURL returns the WebDAV root of the configured server.
func (c *Client) WebDavBaseURL() string { return c.baseURL + davBasePath }

// ocsPath joins an OCS service prefix and an action path. An empty service
// addresses actions at the OCS root, such as config.
func ocsPath(service, action string) string {
	if service == "" {
		return "/" + action
	}
	return "/" + service + "/" + action
}

// ocsRequest performs one OCS round trip and captures its outcome for the
// status checker. A transport failure is recorded, not returned: the
// checker decides how it surfaces. Every request carries a generated
// X-Request-ID that also tags the request's log lines.
func (c *Client) ocsRequest(ctx context.Context, method, path string, query, form url.Values) httpResult {
	requestID := uuid.NewString()
	req := c.rest.R().SetContext(ctx).SetHeader("X-Request-ID", requestID)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if form != nil {
		req.SetFormDataFromValues(form)
	}

	c.logger.Debug("ocs request", "request_id", requestID, "method", method, "path", path)
	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Debug("ocs request failed", "request_id", requestID, "error", err)
		res := httpResult{err: err}
		if resp != nil {
			res.status = resp.StatusCode()
		}
		return res
	}
	c.logger.Debug("ocs response", "request_id", requestID, "status", resp.StatusCode())
	return httpResult{status: resp.StatusCode(), body: resp.String()}
}

// ocsGet performs a GET round trip, runs the dual status check, and returns
// the parsed envelope.
func (c *Client) ocsGet(ctx context.Context, path string, query url.Values) (*etree.Document, error) {
	res := c.ocsRequest(ctx, http.MethodGet, path, query, nil)
	return checkEnvelope(res)
}

// --- File operations ---

// List returns the resources inside the directory at path, excluding the
// directory's own entry.
func (c *Client) List(ctx context.Context, path string) ([]*ResourceInfo, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	result, err := c.dav.Propfind(ctx, path)
	if err != nil {
		return nil, &DavError{Description: err.Error()}
	}
	if err := davStatus(result); err != nil {
		return nil, err
	}

	listed := strings.TrimSuffix(path, "/")
	infos := make([]*ResourceInfo, 0, len(result.Resources))
	for _, res := range result.Resources {
		if strings.TrimSuffix(res.Path, "/") == listed {
			continue
		}
		info, err := resourceInfoFromDav(res)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetResourceInfo returns metadata for the single resource at path, or nil
// when the server reports no resources for it.
func (c *Client) GetResourceInfo(ctx context.Context, path string) (*ResourceInfo, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	result, err := c.dav.Propfind(ctx, path)
	if err != nil {
		return nil, &DavError{Description: err.Error()}
	}
	if err := davStatus(result); err != nil {
		return nil, err
	}
	if len(result.Resources) == 0 {
		return nil, nil
	}
	return resourceInfoFromDav(result.Resources[0])
}

// Download streams the file at path. The caller must close the reader.
func (c *Client) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	body, result, err := c.dav.Get(ctx, path)
	if err != nil {
		return nil, &DavError{Description: err.Error()}
	}
	if err := davStatus(result); err != nil {
		return nil, err
	}
	return body, nil
}

// Upload writes body to path, creating or overwriting the file.
// contentType may be empty.
func (c *Client) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	result, err := c.dav.Put(ctx, path, body, contentType)
	if err != nil {
		return &DavError{Description: err.Error()}
	}
	return davStatus(result)
}

// CreateDirectory creates the directory at path.
func (c *Client) CreateDirectory(ctx context.Context, path string) error {
	result, err := c.dav.Mkcol(ctx, path)
	if err != nil {
		return &DavError{Description: err.Error()}
	}
	return davStatus(result)
}

// Delete removes the file or directory at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	result, err := c.dav.Delete(ctx, path)
	if err != nil {
		return &DavError{Description: err.Error()}
	}
	return davStatus(result)
}

// Copy copies source onto destination, overwriting an existing target.
func (c *Client) Copy(ctx context.Context, source, destination string) error {
	result, err := c.dav.Copy(ctx, source, destination)
	if err != nil {
		return &DavError{Description: err.Error()}
	}
	return davStatus(result)
}

// Move moves source onto destination, overwriting an existing target.
func (c *Client) Move(ctx context.Context, source, destination string) error {
	result, err := c.dav.Move(ctx, source, destination)
	if err != nil {
		return &DavError{Description: err.Error()}
	}
	return davStatus(result)
}

// Exists reports whether a resource exists at path. An HTTP 404 is the
// normal negative answer, not an error; any other failure still is one.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	result, err := c.dav.Propfind(ctx, path)
	if err != nil {
		return false, &DavError{Description: err.Error()}
	}
	if result.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err := davStatus(result); err != nil {
		return false, err
	}
	return true, nil
}

// DownloadDirectoryAsZip streams the directory at path as a zip archive.
// This uses an OwnCloud/Nextcloud convenience endpoint, not standard
// WebDAV. The caller must close the reader.
func (c *Client) DownloadDirectoryAsZip(ctx context.Context, path string) (io.ReadCloser, error) {
	rawURL := c.baseURL + zipDownloadPath + "?dir=" + url.QueryEscape(path)
	body, result, err := c.dav.GetURL(ctx, rawURL)
	if err != nil {
		return nil, &DavError{Description: err.Error()}
	}
	if err := davStatus(result); err != nil {
		return nil, err
	}
	return body, nil
}

// davStatus adapts a collaborator result for the status checker.
func davStatus(result *davclient.Result) error {
	return checkDavStatus(davResult{ok: result.OK, status: result.StatusCode, desc: result.Description})
}

// resourceInfoFromDav lifts one PROPFIND entry into a ResourceInfo.
func resourceInfoFromDav(res davclient.Resource) (*ResourceInfo, error) {
	info, err := newResourceInfo(res.Path)
	if err != nil {
		return nil, err
	}
	info.DisplayName = res.DisplayName
	info.Size = res.ContentLength
	info.ETag = res.ETag
	if res.IsCollection {
		info.ContentType = DirectoryContentType
	} else {
		info.ContentType = res.ContentType
	}
	info.LastModified = res.Modified
	info.Created = res.Created
	return info, nil
}
