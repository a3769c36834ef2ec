package ocs

import (
	"fmt"
	"strings"
	"time"
)

// DirectoryContentType is the sentinel content type assigned to collection
// resources, which have no MIME type of their own.
const DirectoryContentType = "dav/directory"

// ResourceInfo describes a file or directory on the server.
type ResourceInfo struct {
	// ItemName is the base name without path. Empty for the root.
	ItemName string
	// DisplayName is the optional display name reported by the server.
	DisplayName string
	// DirectoryName is the parent directory path without trailing slash.
	// Empty for the root.
	DirectoryName string
	// FullPath is the server-absolute path, without trailing slash except
	// for the root "/".
	FullPath string
	// Size is the content length in bytes, nil for resources that report
	// none (typically directories).
	Size *int64
	// ETag is the entity tag.
	ETag string
	// ContentType is the MIME type, or DirectoryContentType for
	// collections.
	ContentType string
	// LastModified is the last modification time, zero when unknown.
	LastModified time.Time
	// Created is the creation time, zero when unknown.
	Created time.Time
}

// newResourceInfo decomposes a server-absolute path. A trailing slash is
// trimmed first, so "/a/b/" and "/a/b" decompose identically; the root "/"
// keeps both name parts empty.
func newResourceInfo(fullPath string) (*ResourceInfo, error) {
	if fullPath == "" {
		return nil, ErrEmptyPath
	}
	if !strings.HasPrefix(fullPath, "/") {
		return nil, fmt.Errorf("ocs: full path %q must start with %q", fullPath, "/")
	}
	if fullPath == "/" {
		return &ResourceInfo{FullPath: "/"}, nil
	}
	trimmed := strings.TrimSuffix(fullPath, "/")
	sep := strings.LastIndex(trimmed, "/")
	return &ResourceInfo{
		ItemName:      trimmed[sep+1:],
		DirectoryName: trimmed[:sep],
		FullPath:      trimmed,
	}, nil
}

func (r *ResourceInfo) String() string { return r.FullPath }

// IsDirectory reports whether the resource is a collection.
func (r *ResourceInfo) IsDirectory() bool { return r.ContentType == DirectoryContentType }
