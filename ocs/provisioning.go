package ocs

import (
	"context"
	"net/http"
	"net/url"
	"slices"
)

// Provisioning API operations. These delegate to the parser and status
// checker; the only logic here is request shaping.

// CreateUser creates a user with an initial password.
func (c *Client) CreateUser(ctx context.Context, username, initialPassword string) error {
	form := url.Values{}
	form.Set("userid", username)
	form.Set("password", initialPassword)
	res := c.ocsRequest(ctx, http.MethodPost, ocsPath(serviceCloud, "users"), nil, form)
	return checkOCSStatus(res)
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	res := c.ocsRequest(ctx, http.MethodDelete, userPath(username), nil, nil)
	return checkOCSStatus(res)
}

// UserExists reports whether the user exists. The provisioning API has no
// dedicated existence endpoint, so this searches for the name and checks
// the result list.
func (c *Client) UserExists(ctx context.Context, username string) (bool, error) {
	users, err := c.SearchUsers(ctx, username)
	if err != nil {
		return false, err
	}
	return slices.Contains(users, username), nil
}

// SearchUsers returns user names matching search. An empty search returns
// all users.
func (c *Client) SearchUsers(ctx context.Context, search string) ([]string, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": {search}}
	}
	doc, err := c.ocsGet(ctx, ocsPath(serviceCloud, "users"), query)
	if err != nil {
		return nil, err
	}
	return stringListFromData(doc), nil
}

// GetUserAttributes returns the account attributes of a user.
func (c *Client) GetUserAttributes(ctx context.Context, username string) (*User, error) {
	doc, err := c.ocsGet(ctx, userPath(username), nil)
	if err != nil {
		return nil, err
	}
	return parseUser(doc), nil
}

// SetUserAttribute sets one account attribute of a user.
func (c *Client) SetUserAttribute(ctx context.Context, username string, key UserAttributeKey, value string) error {
	name, err := key.wireName()
	if err != nil {
		return err
	}
	form := url.Values{}
	form.Set("key", name)
	form.Set("value", value)
	res := c.ocsRequest(ctx, http.MethodPut, userPath(username), nil, form)
	return checkOCSStatus(res)
}

// AddUserToGroup adds a user to a group.
func (c *Client) AddUserToGroup(ctx context.Context, username, groupName string) error {
	form := url.Values{}
	form.Set("groupid", groupName)
	res := c.ocsRequest(ctx, http.MethodPost, userPath(username)+"/groups", nil, form)
	return checkOCSStatus(res)
}

// RemoveUserFromGroup removes a user from a group.
func (c *Client) RemoveUserFromGroup(ctx context.Context, username, groupName string) error {
	form := url.Values{}
	form.Set("groupid", groupName)
	res := c.ocsRequest(ctx, http.MethodDelete, userPath(username)+"/groups", nil, form)
	return checkOCSStatus(res)
}

// GetUserGroups returns the groups a user is a member of.
func (c *Client) GetUserGroups(ctx context.Context, username string) ([]string, error) {
	doc, err := c.ocsGet(ctx, userPath(username)+"/groups", nil)
	if err != nil {
		return nil, err
	}
	return stringListFromData(doc), nil
}

// IsUserInGroup reports whether a user is a member of a group.
func (c *Client) IsUserInGroup(ctx context.Context, username, groupName string) (bool, error) {
	groups, err := c.GetUserGroups(ctx, username)
	if err != nil {
		return false, err
	}
	return slices.Contains(groups, groupName), nil
}

// AddUserToSubAdminGroup makes a user a subadmin of a group.
func (c *Client) AddUserToSubAdminGroup(ctx context.Context, username, groupName string) error {
	form := url.Values{}
	form.Set("groupid", groupName)
	res := c.ocsRequest(ctx, http.MethodPost, userPath(username)+"/subadmins", nil, form)
	return checkOCSStatus(res)
}

// RemoveUserFromSubAdminGroup removes a user's subadmin role for a group.
func (c *Client) RemoveUserFromSubAdminGroup(ctx context.Context, username, groupName string) error {
	form := url.Values{}
	form.Set("groupid", groupName)
	res := c.ocsRequest(ctx, http.MethodDelete, userPath(username)+"/subadmins", nil, form)
	return checkOCSStatus(res)
}

// GetUserSubAdminGroups returns the groups a user is a subadmin of. Servers
// answer OCS status 102 when there are none; that one code on this one
// endpoint means an empty list, not a failure, and is swallowed here. No
// other endpoint shares this behavior.
func (c *Client) GetUserSubAdminGroups(ctx context.Context, username string) ([]string, error) {
	doc, err := checkEnvelope(c.ocsRequest(ctx, http.MethodGet, userPath(username)+"/subadmins", nil, nil))
	if err != nil {
		if pe, ok := IsProtocolError(err); ok && pe.OCSStatusCode == 102 {
			return []string{}, nil
		}
		return nil, err
	}
	return stringListFromData(doc), nil
}

// IsUserInSubAdminGroup reports whether a user is a subadmin of a group.
func (c *Client) IsUserInSubAdminGroup(ctx context.Context, username, groupName string) (bool, error) {
	groups, err := c.GetUserSubAdminGroups(ctx, username)
	if err != nil {
		return false, err
	}
	return slices.Contains(groups, groupName), nil
}

// CreateGroup creates a group.
func (c *Client) CreateGroup(ctx context.Context, groupName string) error {
	form := url.Values{}
	form.Set("groupid", groupName)
	res := c.ocsRequest(ctx, http.MethodPost, ocsPath(serviceCloud, "groups"), nil, form)
	return checkOCSStatus(res)
}

// DeleteGroup removes a group.
func (c *Client) DeleteGroup(ctx context.Context, groupName string) error {
	res := c.ocsRequest(ctx, http.MethodDelete, ocsPath(serviceCloud, "groups")+"/"+url.PathEscape(groupName), nil, nil)
	return checkOCSStatus(res)
}

// GroupExists reports whether the group exists, resolved by searching.
func (c *Client) GroupExists(ctx context.Context, groupName string) (bool, error) {
	groups, err := c.SearchGroups(ctx, groupName)
	if err != nil {
		return false, err
	}
	return slices.Contains(groups, groupName), nil
}

// SearchGroups returns group names matching search.
func (c *Client) SearchGroups(ctx context.Context, search string) ([]string, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": {search}}
	}
	doc, err := c.ocsGet(ctx, ocsPath(serviceCloud, "groups"), query)
	if err != nil {
		return nil, err
	}
	return stringListFromData(doc), nil
}

// GetConfig returns the server's metadata snapshot.
func (c *Client) GetConfig(ctx context.Context) (*Config, error) {
	doc, err := c.ocsGet(ctx, ocsPath("", "config"), nil)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	for _, f := range []struct {
		tag  string
		dest *string
	}{
		{"website", &cfg.Website},
		{"host", &cfg.Host},
		{"ssl", &cfg.SSL},
		{"contact", &cfg.Contact},
		{"version", &cfg.Version},
	} {
		if v, ok := dataValue(doc, f.tag); ok {
			*f.dest = v
		}
	}
	return cfg, nil
}

// GetAppAttribute returns attributes from the privatedata store. Empty app
// returns all attributes; empty key returns all attributes of app.
func (c *Client) GetAppAttribute(ctx context.Context, app, key string) ([]AppAttribute, error) {
	action := "getattribute"
	if app != "" {
		action += "/" + url.PathEscape(app)
		if key != "" {
			action += "/" + url.PathEscape(key)
		}
	}
	doc, err := c.ocsGet(ctx, ocsPath(serviceData, action), nil)
	if err != nil {
		return nil, err
	}
	return parseAttributeList(doc), nil
}

// SetAppAttribute stores one attribute in the privatedata store.
func (c *Client) SetAppAttribute(ctx context.Context, app, key, value string) error {
	action := "setattribute/" + url.PathEscape(app) + "/" + url.PathEscape(key)
	form := url.Values{}
	form.Set("value", value)
	res := c.ocsRequest(ctx, http.MethodPost, ocsPath(serviceData, action), nil, form)
	return checkOCSStatus(res)
}

// DeleteAppAttribute removes one attribute from the privatedata store.
func (c *Client) DeleteAppAttribute(ctx context.Context, app, key string) error {
	action := "deleteattribute/" + url.PathEscape(app) + "/" + url.PathEscape(key)
	res := c.ocsRequest(ctx, http.MethodDelete, ocsPath(serviceData, action), nil, nil)
	return checkOCSStatus(res)
}

// GetApps returns the ids of all installed applications.
func (c *Client) GetApps(ctx context.Context) ([]string, error) {
	doc, err := c.ocsGet(ctx, ocsPath(serviceCloud, "apps"), nil)
	if err != nil {
		return nil, err
	}
	return stringListFromData(doc), nil
}

// GetApp returns the metadata of one application.
func (c *Client) GetApp(ctx context.Context, appID string) (*AppInfo, error) {
	doc, err := c.ocsGet(ctx, appPath(appID), nil)
	if err != nil {
		return nil, err
	}
	return parseAppInfo(doc), nil
}

// EnableApp enables an application.
func (c *Client) EnableApp(ctx context.Context, appID string) error {
	res := c.ocsRequest(ctx, http.MethodPost, appPath(appID), nil, nil)
	return checkOCSStatus(res)
}

// DisableApp disables an application.
func (c *Client) DisableApp(ctx context.Context, appID string) error {
	res := c.ocsRequest(ctx, http.MethodDelete, appPath(appID), nil, nil)
	return checkOCSStatus(res)
}

func userPath(username string) string {
	return ocsPath(serviceCloud, "users") + "/" + url.PathEscape(username)
}

func appPath(appID string) string {
	return ocsPath(serviceCloud, "apps") + "/" + url.PathEscape(appID)
}
