package ocs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// expireDateFormat is the date format the share API expects for the
// expireDate parameter.
const expireDateFormat = "2006-01-02 15:04:05"

// CreateShareRequest describes a share to create. Pointer fields are
// tri-state: nil omits the parameter and leaves the server default.
type CreateShareRequest struct {
	// Path of the file or folder to share. Required.
	Path string
	// Type is the recipient kind.
	Type ShareType
	// ShareWith is the recipient identifier: user name, group id, email
	// address, circle id or conversation name. Required for every type
	// except ShareTypeLink.
	ShareWith string
	// Permissions to grant, within [PermissionRead, PermissionAll].
	Permissions Permission
	// PublicUpload enables upload to a public shared folder.
	PublicUpload *bool
	// Password protects a public link share.
	Password *string
	// Expiration sets an expiration date.
	Expiration *time.Time
	// Name is a display name for the share.
	Name string
	// Note is shown to the share recipient.
	Note string
}

// CreateShare creates a share and returns the variant matching the
// server-echoed share type: *PublicShare for links, *UserShare for users,
// *GroupShare for groups, *RemoteShare for federated users.
func (c *Client) CreateShare(ctx context.Context, req CreateShareRequest) (Share, error) {
	if req.Path == "" {
		return nil, ErrEmptyPath
	}
	if req.Type != ShareTypeLink && req.ShareWith == "" {
		return nil, ErrMissingShareWith
	}
	if !req.Permissions.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPermissions, int(req.Permissions))
	}

	form := url.Values{}
	form.Set("shareType", strconv.Itoa(int(req.Type)))
	form.Set("path", req.Path)
	if req.ShareWith != "" {
		form.Set("shareWith", req.ShareWith)
	}
	if req.Name != "" {
		// OwnCloud reads name, Nextcloud label. Send both.
		form.Set("name", req.Name)
		form.Set("label", req.Name)
	}
	form.Set("permissions", strconv.Itoa(int(req.Permissions)))
	if req.Password != nil {
		form.Set("password", *req.Password)
	}
	setBoolParam(form, "publicUpload", req.PublicUpload)
	if req.Expiration != nil {
		form.Set("expireDate", req.Expiration.Format(expireDateFormat))
	}
	if req.Note != "" {
		form.Set("note", req.Note)
	}

	res := c.ocsRequest(ctx, http.MethodPost, ocsPath(serviceShare, "shares"), nil, form)
	doc, err := checkEnvelope(res)
	if err != nil {
		return nil, err
	}
	shares, err := parseShareData(doc)
	if err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, &TransportError{HTTPStatus: res.status, Body: res.body, Message: "result data not in expected format"}
	}
	return shares[0], nil
}

// CreateShareWithLink creates a public link share on path.
func (c *Client) CreateShareWithLink(ctx context.Context, path string, permissions Permission, publicUpload *bool, name string, expiration *time.Time, password *string) (*PublicShare, error) {
	share, err := c.CreateShare(ctx, CreateShareRequest{
		Path:         path,
		Type:         ShareTypeLink,
		Permissions:  permissions,
		PublicUpload: publicUpload,
		Password:     password,
		Expiration:   expiration,
		Name:         name,
	})
	if err != nil {
		return nil, err
	}
	link, ok := share.(*PublicShare)
	if !ok {
		return nil, fmt.Errorf("ocs: server answered a link share with variant %T", share)
	}
	return link, nil
}

// CreateShareWithUser shares path with a local user.
func (c *Client) CreateShareWithUser(ctx context.Context, path, username string, permissions Permission, expiration *time.Time) (*UserShare, error) {
	share, err := c.CreateShare(ctx, CreateShareRequest{
		Path:        path,
		Type:        ShareTypeUser,
		ShareWith:   username,
		Permissions: permissions,
		Expiration:  expiration,
	})
	if err != nil {
		return nil, err
	}
	user, ok := share.(*UserShare)
	if !ok {
		return nil, fmt.Errorf("ocs: server answered a user share with variant %T", share)
	}
	return user, nil
}

// CreateShareWithRemoteUser shares path with a federated user on another
// server.
func (c *Client) CreateShareWithRemoteUser(ctx context.Context, path, username string, permissions Permission, expiration *time.Time) (*RemoteShare, error) {
	share, err := c.CreateShare(ctx, CreateShareRequest{
		Path:        path,
		Type:        ShareTypeRemote,
		ShareWith:   username,
		Permissions: permissions,
		Expiration:  expiration,
	})
	if err != nil {
		return nil, err
	}
	remote, ok := share.(*RemoteShare)
	if !ok {
		return nil, fmt.Errorf("ocs: server answered a remote share with variant %T", share)
	}
	return remote, nil
}

// CreateShareWithGroup shares path with a group.
func (c *Client) CreateShareWithGroup(ctx context.Context, path, groupName string, permissions Permission, expiration *time.Time) (*GroupShare, error) {
	share, err := c.CreateShare(ctx, CreateShareRequest{
		Path:        path,
		Type:        ShareTypeGroup,
		ShareWith:   groupName,
		Permissions: permissions,
		Expiration:  expiration,
	})
	if err != nil {
		return nil, err
	}
	group, ok := share.(*GroupShare)
	if !ok {
		return nil, fmt.Errorf("ocs: server answered a group share with variant %T", share)
	}
	return group, nil
}

// UpdateShareRequest lists the share fields to change. Nil pointer fields
// are left unchanged on the server.
type UpdateShareRequest struct {
	// Permissions replaces the granted permissions.
	Permissions *Permission
	// PublicUpload toggles upload to a public shared folder.
	PublicUpload *bool
	// Name replaces the display name.
	Name *string
	// Expiration replaces the expiration date. A pointer to the zero time
	// clears it, distinct from nil which leaves it unchanged.
	Expiration *time.Time
	// Password replaces the link password. A pointer to the empty string
	// removes it.
	Password *string
	// Note replaces the recipient note.
	Note *string
}

func (r UpdateShareRequest) empty() bool {
	return r.Permissions == nil && r.PublicUpload == nil && r.Name == nil &&
		r.Expiration == nil && r.Password == nil && r.Note == nil
}

// UpdateShare changes fields of an existing share. The id is resolved
// first, so a stale id fails with ErrShareNotFound instead of a
// server-specific protocol error.
func (c *Client) UpdateShare(ctx context.Context, shareID int, req UpdateShareRequest) error {
	if req.empty() {
		return ErrNothingToUpdate
	}
	if req.Permissions != nil && !req.Permissions.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPermissions, int(*req.Permissions))
	}
	if _, err := c.GetShare(ctx, shareID); err != nil {
		return err
	}

	query := url.Values{}
	if req.Permissions != nil {
		query.Set("permissions", strconv.Itoa(int(*req.Permissions)))
	}
	setBoolParam(query, "publicUpload", req.PublicUpload)
	if req.Name != nil {
		query.Set("name", *req.Name)
		query.Set("label", *req.Name)
	}
	if req.Expiration != nil {
		if req.Expiration.IsZero() {
			query.Set("expireDate", "")
		} else {
			query.Set("expireDate", req.Expiration.Format(expireDateFormat))
		}
	}
	if req.Password != nil {
		query.Set("password", *req.Password)
	}
	if req.Note != nil {
		query.Set("note", *req.Note)
	}

	res := c.ocsRequest(ctx, http.MethodPut, sharePath(shareID), query, nil)
	return checkOCSStatus(res)
}

// DeleteShare removes a share.
func (c *Client) DeleteShare(ctx context.Context, shareID int) error {
	res := c.ocsRequest(ctx, http.MethodDelete, sharePath(shareID), nil, nil)
	return checkOCSStatus(res)
}

// GetShare returns the single share with the given id. Zero matches fail
// with ErrShareNotFound. More than one match fails with
// ErrDuplicateShareID: ids are server-assigned and unique, so a duplicate
// means corrupted server data and must not be silently resolved.
func (c *Client) GetShare(ctx context.Context, shareID int) (Share, error) {
	doc, err := c.ocsGet(ctx, sharePath(shareID), nil)
	if err != nil {
		return nil, err
	}
	shares, err := parseShareList(doc)
	if err != nil {
		return nil, err
	}
	switch len(shares) {
	case 0:
		return nil, fmt.Errorf("%w: id %d", ErrShareNotFound, shareID)
	case 1:
		return shares[0], nil
	default:
		return nil, fmt.Errorf("%w: id %d matched %d shares", ErrDuplicateShareID, shareID, len(shares))
	}
}

// GetShares lists shares. An empty path means all shares visible to the
// current user. reshares additionally includes shares from other users on
// the same file; subfiles expands a folder path to the shares inside it.
func (c *Client) GetShares(ctx context.Context, path string, reshares, subfiles *bool) ([]Share, error) {
	query := url.Values{}
	if path != "" {
		query.Set("path", path)
	}
	setBoolParam(query, "reshares", reshares)
	setBoolParam(query, "subfiles", subfiles)

	doc, err := c.ocsGet(ctx, ocsPath(serviceShare, "shares"), query)
	if err != nil {
		return nil, err
	}
	return parseShareList(doc)
}

// IsShared reports whether at least one share exists for path.
func (c *Client) IsShared(ctx context.Context, path string) (bool, error) {
	shares, err := c.GetShares(ctx, path, nil, nil)
	if err != nil {
		return false, err
	}
	return len(shares) > 0, nil
}

// Sharees searches for share recipient candidates. itemType is the kind of
// item to share, e.g. "file" or "folder"; lookupGlobally extends the search
// to the federated lookup server.
func (c *Client) Sharees(ctx context.Context, search string, lookupGlobally bool, itemType string) ([]Sharee, error) {
	query := url.Values{}
	query.Set("search", search)
	query.Set("lookup", strconv.FormatBool(lookupGlobally))
	query.Set("itemType", itemType)

	doc, err := c.ocsGet(ctx, ocsPath(serviceShare, "sharees"), query)
	if err != nil {
		return nil, err
	}
	return parseSharees(doc)
}

// ShareesRecommended returns the server's recipient recommendations for
// the given item type.
func (c *Client) ShareesRecommended(ctx context.Context, itemType string) ([]string, error) {
	query := url.Values{}
	query.Set("itemType", itemType)

	doc, err := c.ocsGet(ctx, ocsPath(serviceShare, "sharees_recommended"), query)
	if err != nil {
		return nil, err
	}
	return stringListFromData(doc), nil
}

// AcceptRemoteShare accepts a pending incoming federated share.
func (c *Client) AcceptRemoteShare(ctx context.Context, shareID int) error {
	res := c.ocsRequest(ctx, http.MethodPost, remoteSharePath(shareID), nil, nil)
	return checkOCSStatus(res)
}

// DeclineRemoteShare declines a pending incoming federated share.
func (c *Client) DeclineRemoteShare(ctx context.Context, shareID int) error {
	res := c.ocsRequest(ctx, http.MethodDelete, remoteSharePath(shareID), nil, nil)
	return checkOCSStatus(res)
}

func sharePath(shareID int) string {
	return ocsPath(serviceShare, "shares") + "/" + strconv.Itoa(shareID)
}

func remoteSharePath(shareID int) string {
	return ocsPath(serviceShare, "remote_shares") + "/" + strconv.Itoa(shareID)
}

// setBoolParam writes a tri-state boolean parameter: nil omits it.
func setBoolParam(v url.Values, key string, b *bool) {
	if b == nil {
		return
	}
	v.Set(key, strconv.FormatBool(*b))
}
