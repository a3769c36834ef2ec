package ocs

import (
	"fmt"
	"time"
)

// Share is implemented by every share variant. The concrete type is fixed at
// parse time from the share_type discriminant and never changes afterwards:
// *PublicShare for links, *UserShare for users, *GroupShare for groups,
// *RemoteShare for federated users, and *ShareInfo itself for the remaining
// kinds (email, circle, Talk conversation).
type Share interface {
	// Info returns the fields common to all share variants.
	Info() *ShareInfo
}

// ShareInfo holds the fields common to all share variants. It is also the
// concrete Share type for kinds without variant-specific fields.
type ShareInfo struct {
	// ID is assigned by the server on creation and unique per share.
	ID int
	// Type is the recipient kind, fixed at construction.
	Type ShareType
	// TargetPath is the path of the shared file or folder.
	TargetPath string
	// Permissions granted on the share.
	Permissions Permission
	// Expiration is the optional expiration date.
	Expiration *time.Time
	// Name is the optional display label (read from name, falling back to
	// label).
	Name string
	// Note is the optional note for the recipient.
	Note string
	// Advanced holds the optional server-reported detail fields.
	Advanced AdvancedShareProperties
}

// Info implements Share.
func (s *ShareInfo) Info() *ShareInfo { return s }

func (s *ShareInfo) String() string {
	return fmt.Sprintf("Share ID %d (Permission: %s) %s", s.ID, s.Permissions, s.TargetPath)
}

// AdvancedShareProperties are the optional detail fields a server may report
// for a share. OwnCloud and Nextcloud differ in which of these are present;
// absent fields stay empty.
type AdvancedShareProperties struct {
	ItemType              string
	ItemSource            string
	Parent                string
	FileSource            string
	STime                 string
	Expiration            string
	MailSend              string
	Owner                 string
	StorageID             string
	Storage               string
	FileParent            string
	FileOwner             string
	FileOwnerDisplayname  string
	SharedWithDisplayname string
	DisplaynameOwner      string
	// Password is reported hashed by Nextcloud and not at all by OwnCloud.
	Password string
}

// PublicShare is a public link share.
type PublicShare struct {
	ShareInfo
	// URL is the public access URL.
	URL string
	// Token is the share token. Servers show it as the share name when no
	// name was set.
	Token string
}

// UserShare is a share with a local user.
type UserShare struct {
	ShareInfo
	// SharedWith is the recipient's user name.
	SharedWith string
}

// GroupShare is a share with a group.
type GroupShare struct {
	ShareInfo
	// SharedWith is the recipient group's name.
	SharedWith string
}

// RemoteShare is a federated cloud share. The recipient in SharedWith is a
// remote (federated) user.
type RemoteShare struct {
	UserShare
}

// Sharee is a candidate share recipient returned by the sharee search
// endpoints. Sharees are transient search results, never persisted.
type Sharee struct {
	// ShareType is the recipient kind of this candidate.
	ShareType ShareType
	// ShareWith is the identifier to pass to CreateShare.
	ShareWith string
	// ShareWithDisplayName is the display name of the candidate.
	ShareWithDisplayName string
	// ShareWithAdditionalInfo is extra recipient information such as an
	// email address, when the server reports one.
	ShareWithAdditionalInfo string
	// Icon is the recipient icon hint.
	Icon string
	// Label is the display label.
	Label string
	// IsExactResult is true for members of the response's exact-match
	// subtree, false for fuzzy suggestions.
	IsExactResult bool
}

func (s Sharee) String() string {
	return fmt.Sprintf("Sharee (%s): %s (%s|%s)", s.ShareType, s.Label, s.ShareWith, s.ShareWithDisplayName)
}

// User holds account attributes from the provisioning API.
type User struct {
	DisplayName string
	Email       string
	Enabled     bool
	// Quota is nil when the server reports none.
	Quota *Quota
}

// Quota holds storage quota figures in bytes, plus the relative usage in
// percent. The wire format always uses the period decimal separator.
type Quota struct {
	Free     float64
	Used     float64
	Total    float64
	Relative float64
}

// Config is the server metadata snapshot returned by GetConfig. Values are
// kept exactly as reported.
type Config struct {
	Website string
	Host    string
	SSL     string
	Contact string
	Version string
}

// AppInfo is the application metadata returned by GetApp.
type AppInfo struct {
	ID          string
	DisplayName string
	Description string
	Licence     string
	Author      string
	RequireMin  string
	// Shipped is read from the element's value.
	Shipped bool
	// Standalone and DefaultEnable are presence-only markers: the element's
	// existence signals true, its value is ignored.
	Standalone    bool
	DefaultEnable bool
	Types         []string
	Remote        map[string]string
	Documentation map[string]string
	Info          map[string]string
	Public        map[string]string
}

// AppAttribute is a single (app, key, value) triple from the privatedata
// key-value store.
type AppAttribute struct {
	App   string
	Key   string
	Value string
}
