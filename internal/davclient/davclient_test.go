package davclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(srv.URL+"/remote.php/webdav", "user", "pass", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestResourceURLEscaping(t *testing.T) {
	c, err := New("https://host/remote.php/webdav/", "u", "p", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tests := []struct {
		path string
		want string
	}{
		{"/", "https://host/remote.php/webdav/"},
		{"", "https://host/remote.php/webdav/"},
		{"/a/b.txt", "https://host/remote.php/webdav/a/b.txt"},
		{"/with space/f#1.txt", "https://host/remote.php/webdav/with%20space/f%231.txt"},
		{"/dir/", "https://host/remote.php/webdav/dir/"},
	}
	for _, tt := range tests {
		if got := c.resourceURL(tt.path); got != tt.want {
			t.Errorf("resourceURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRelativePath(t *testing.T) {
	c, err := New("https://host/remote.php/webdav", "u", "p", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rel, err := c.relativePath("/remote.php/webdav/with%20space/x.txt")
	if err != nil {
		t.Fatalf("relativePath: %v", err)
	}
	if rel != "/with space/x.txt" {
		t.Errorf("rel = %q", rel)
	}

	rel, err = c.relativePath("https://host/remote.php/webdav/")
	if err != nil || rel != "/" {
		t.Errorf("root rel = %q, %v", rel, err)
	}

	if _, err := c.relativePath("/somewhere/else"); err == nil {
		t.Error("expected error for href outside base path")
	}
}

func TestPropfindParsesMultistatus(t *testing.T) {
	const body = `<?xml version="1.0"?>
<D:multistatus xmlns:D="DAV:">
  <D:response>
    <D:href>/remote.php/webdav/f/</D:href>
    <D:propstat>
      <D:prop><D:resourcetype><D:collection/></D:resourcetype><D:displayname>f</D:displayname></D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
    <D:propstat>
      <D:prop><D:getcontentlength/></D:prop>
      <D:status>HTTP/1.1 404 Not Found</D:status>
    </D:propstat>
  </D:response>
  <D:response>
    <D:href>/remote.php/webdav/f/a.bin</D:href>
    <D:propstat>
      <D:prop>
        <D:resourcetype/>
        <D:getcontentlength>2048</D:getcontentlength>
        <D:getcontenttype>application/octet-stream</D:getcontenttype>
        <D:getlastmodified>Mon, 02 Feb 2026 08:30:00 GMT</D:getlastmodified>
        <D:creationdate>2026-01-15T09:00:00Z</D:creationdate>
      </D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
</D:multistatus>`

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if u, p, ok := r.BasicAuth(); !ok || u != "user" || p != "pass" {
			t.Error("missing basic auth")
		}
		w.WriteHeader(http.StatusMultiStatus)
		io.WriteString(w, body)
	})

	result, err := c.Propfind(context.Background(), "/f")
	if err != nil {
		t.Fatalf("Propfind: %v", err)
	}
	if !result.OK || result.StatusCode != http.StatusMultiStatus {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Resources) != 2 {
		t.Fatalf("resources = %d", len(result.Resources))
	}

	dir := result.Resources[0]
	if !dir.IsCollection || dir.Path != "/f/" || dir.DisplayName != "f" {
		t.Errorf("dir = %+v", dir)
	}
	// the 404 propstat lists absent properties and must not zero the
	// values from the 200 propstat
	if dir.ContentLength != nil {
		t.Errorf("dir content length = %v", dir.ContentLength)
	}

	file := result.Resources[1]
	if file.IsCollection || file.Path != "/f/a.bin" {
		t.Errorf("file = %+v", file)
	}
	if file.ContentLength == nil || *file.ContentLength != 2048 {
		t.Errorf("content length = %v", file.ContentLength)
	}
	if file.ContentType != "application/octet-stream" {
		t.Errorf("content type = %q", file.ContentType)
	}
	if file.Modified.IsZero() || file.Created.IsZero() {
		t.Errorf("dates = %v / %v", file.Modified, file.Created)
	}
}

func TestPropfindNon207(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})
	result, err := c.Propfind(context.Background(), "/missing")
	if err != nil {
		t.Fatalf("Propfind: %v", err)
	}
	if result.OK || result.StatusCode != http.StatusNotFound {
		t.Errorf("result = %+v", result)
	}
}

func TestPropfindBadMultistatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMultiStatus)
		io.WriteString(w, "<broken")
	})
	result, err := c.Propfind(context.Background(), "/f")
	if err != nil {
		t.Fatalf("Propfind: %v", err)
	}
	if result.OK {
		t.Error("unparseable multistatus must not be OK")
	}
	if !strings.Contains(result.Description, "invalid multistatus") {
		t.Errorf("description = %q", result.Description)
	}
}

func TestRelocateHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "MOVE" {
			t.Errorf("method = %s", r.Method)
		}
		if !strings.HasSuffix(r.Header.Get("Destination"), "/remote.php/webdav/new%20name.txt") {
			t.Errorf("Destination = %q", r.Header.Get("Destination"))
		}
		if r.Header.Get("Overwrite") != "T" {
			t.Errorf("Overwrite = %q", r.Header.Get("Overwrite"))
		}
		w.WriteHeader(http.StatusCreated)
	})
	result, err := c.Move(context.Background(), "/old.txt", "/new name.txt")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !result.OK {
		t.Errorf("result = %+v", result)
	}
}

func TestGetNotOKClosesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Locked", http.StatusLocked)
	})
	body, result, err := c.Get(context.Background(), "/x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if body != nil {
		t.Error("expected nil body on failure")
	}
	if result.OK || result.StatusCode != http.StatusLocked {
		t.Errorf("result = %+v", result)
	}
}
