package ocs

import (
	"errors"
	"testing"
)

func TestNewResourceInfoDecomposition(t *testing.T) {
	tests := []struct {
		fullPath  string
		item      string
		directory string
		full      string
	}{
		{"/file.txt", "file.txt", "", "/file.txt"},
		{"/a/b/c.txt", "c.txt", "/a/b", "/a/b/c.txt"},
		{"/a/b/", "b", "/a", "/a/b"},
		{"/folder", "folder", "", "/folder"},
	}
	for _, tt := range tests {
		info, err := newResourceInfo(tt.fullPath)
		if err != nil {
			t.Fatalf("newResourceInfo(%q): %v", tt.fullPath, err)
		}
		if info.ItemName != tt.item || info.DirectoryName != tt.directory || info.FullPath != tt.full {
			t.Errorf("newResourceInfo(%q) = %q/%q (%q)", tt.fullPath, info.DirectoryName, info.ItemName, info.FullPath)
		}
		// directoryName + "/" + itemName reassembles the full path
		if got := info.DirectoryName + "/" + info.ItemName; got != tt.full {
			t.Errorf("recomposed %q != %q", got, tt.full)
		}
	}
}

func TestNewResourceInfoRoot(t *testing.T) {
	info, err := newResourceInfo("/")
	if err != nil {
		t.Fatalf("newResourceInfo(/): %v", err)
	}
	if info.ItemName != "" || info.DirectoryName != "" {
		t.Errorf("root decomposition = %q/%q, want empty strings", info.DirectoryName, info.ItemName)
	}
	if info.FullPath != "/" {
		t.Errorf("FullPath = %q", info.FullPath)
	}
}

func TestNewResourceInfoInvalid(t *testing.T) {
	if _, err := newResourceInfo(""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("empty path: got %v", err)
	}
	if _, err := newResourceInfo("relative/path"); err == nil {
		t.Error("expected error for path without leading slash")
	}
}

func TestResourceInfoIsDirectory(t *testing.T) {
	dir := &ResourceInfo{ContentType: DirectoryContentType}
	if !dir.IsDirectory() {
		t.Error("expected directory")
	}
	file := &ResourceInfo{ContentType: "image/png"}
	if file.IsDirectory() {
		t.Error("expected file")
	}
}
