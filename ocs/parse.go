package ocs

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Tolerant OCS envelope parsing. Every lookup returns an absent value when
// the node is missing instead of failing: OwnCloud and Nextcloud emit
// different optional fields for the same operation, and callers decide
// whether absence is fatal.

// parseDocument parses an OCS response body into an XML document.
func parseDocument(body string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, fmt.Errorf("ocs: invalid XML response: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("ocs: empty XML response")
	}
	return doc, nil
}

// descendants returns all elements named tag anywhere below el.
func descendants(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
		out = append(out, descendants(child, tag)...)
	}
	return out
}

// childText returns the text of the first direct child named tag, and
// whether such a child exists.
func childText(parent *etree.Element, tag string) (string, bool) {
	node := parent.SelectElement(tag)
	if node == nil {
		return "", false
	}
	return node.Text(), true
}

// singleChild returns the direct child named tag when it appears exactly
// once, nil when absent, and an error when it appears more than once.
func singleChild(parent *etree.Element, tag string) (*etree.Element, error) {
	nodes := parent.SelectElements(tag)
	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	default:
		return nil, fmt.Errorf("ocs: more than one %q child found", tag)
	}
}

// metaValue returns the value of the named element under the first <meta>
// node that has it.
func metaValue(doc *etree.Document, name string) (string, bool) {
	for _, meta := range descendants(doc.Root(), "meta") {
		if v, ok := childText(meta, name); ok {
			return v, true
		}
	}
	return "", false
}

// dataValue returns the value of the named element under the first <data>
// node that has it.
func dataValue(doc *etree.Document, name string) (string, bool) {
	for _, data := range descendants(doc.Root(), "data") {
		if v, ok := childText(data, name); ok {
			return v, true
		}
	}
	return "", false
}

// stringListFromData returns the values of all <element> nodes below every
// <data> node, in document order. Used for plain name lists (users, groups,
// apps).
func stringListFromData(doc *etree.Document) []string {
	result := []string{}
	for _, data := range descendants(doc.Root(), "data") {
		for _, node := range descendants(data, "element") {
			result = append(result, node.Text())
		}
	}
	return result
}

// dataChildren returns the direct children of the envelope's single <data>
// element.
func dataChildren(doc *etree.Document) ([]*etree.Element, error) {
	data, err := singleChild(doc.Root(), "data")
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return data.ChildElements(), nil
}

// parseShareList builds one Share per <element> node that carries a
// share_type discriminant. Elements without one are skipped, matching the
// envelope's use of <element> for non-share records elsewhere.
func parseShareList(doc *etree.Document) ([]Share, error) {
	shares := []Share{}
	for _, el := range descendants(doc.Root(), "element") {
		share, err := parseShareElement(el)
		if err != nil {
			return nil, err
		}
		if share != nil {
			shares = append(shares, share)
		}
	}
	return shares, nil
}

// parseShareData builds one Share per <data> node whose direct children are
// the share fields. This is the shape of create-share responses, where the
// share record is not wrapped in an <element>.
func parseShareData(doc *etree.Document) ([]Share, error) {
	shares := []Share{}
	for _, data := range descendants(doc.Root(), "data") {
		share, err := parseShareElement(data)
		if err != nil {
			return nil, err
		}
		if share != nil {
			shares = append(shares, share)
		}
	}
	return shares, nil
}

// parseShareElement reads the share_type discriminant first and lets the
// matching variant read its own fields. Returns nil when el carries no
// share_type.
func parseShareElement(el *etree.Element) (Share, error) {
	raw, ok := childText(el, "share_type")
	if !ok {
		return nil, nil
	}
	typeValue, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("ocs: invalid share_type %q: %w", raw, err)
	}
	shareType := ShareType(typeValue)

	base := parseShareInfo(shareType, el)
	switch shareType {
	case ShareTypeLink:
		share := &PublicShare{ShareInfo: base}
		if v, ok := childText(el, "url"); ok {
			share.URL = v
		}
		if v, ok := childText(el, "token"); ok {
			share.Token = v
		}
		if v, ok := childText(el, "name"); ok {
			share.Name = v
		}
		return share, nil
	case ShareTypeUser:
		share := &UserShare{ShareInfo: base}
		if v, ok := childText(el, "share_with"); ok {
			share.SharedWith = v
		}
		return share, nil
	case ShareTypeGroup:
		share := &GroupShare{ShareInfo: base}
		if v, ok := childText(el, "share_with"); ok {
			share.SharedWith = v
		}
		return share, nil
	case ShareTypeRemote:
		share := &RemoteShare{UserShare: UserShare{ShareInfo: base}}
		if v, ok := childText(el, "share_with"); ok {
			share.SharedWith = v
		}
		return share, nil
	case ShareTypeEMail, ShareTypeCircle, ShareTypeTalkConversation:
		share := base
		return &share, nil
	default:
		return nil, fmt.Errorf("ocs: unexpected share type %d", typeValue)
	}
}

// parseShareInfo reads the base fields common to all share variants.
func parseShareInfo(shareType ShareType, el *etree.Element) ShareInfo {
	info := ShareInfo{Type: shareType, Permissions: PermissionNone}

	if v, ok := childText(el, "id"); ok {
		if id, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			info.ID = id
		}
	}
	if v, ok := childText(el, "file_target"); ok {
		info.TargetPath = v
	}
	if v, ok := childText(el, "permissions"); ok {
		if perms, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			info.Permissions = Permission(perms)
		}
	}
	if v, ok := childText(el, "expiration"); ok && v != "" {
		if t, err := parseShareTime(v); err == nil {
			info.Expiration = &t
		}
	}
	if v, ok := childText(el, "name"); ok && v != "" {
		info.Name = v
	} else if v, ok := childText(el, "label"); ok && v != "" {
		info.Name = v
	}
	if v, ok := childText(el, "note"); ok && v != "" {
		info.Note = v
	}

	adv := &info.Advanced
	for _, f := range []struct {
		tag  string
		dest *string
	}{
		{"item_type", &adv.ItemType},
		{"item_source", &adv.ItemSource},
		{"parent", &adv.Parent},
		{"file_source", &adv.FileSource},
		{"stime", &adv.STime},
		{"expiration", &adv.Expiration},
		{"mail_send", &adv.MailSend},
		{"uid_owner", &adv.Owner},
		{"storage_id", &adv.StorageID},
		{"storage", &adv.Storage},
		{"file_parent", &adv.FileParent},
		{"uid_file_owner", &adv.FileOwner},
		{"displayname_file_owner", &adv.FileOwnerDisplayname},
		{"share_with_displayname", &adv.SharedWithDisplayname},
		{"displayname_owner", &adv.DisplaynameOwner},
		{"password", &adv.Password},
	} {
		if v, ok := childText(el, f.tag); ok {
			*f.dest = v
		}
	}
	return info
}

// parseShareTime accepts the date formats servers use for expiration
// values.
func parseShareTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("ocs: unsupported time value %q", v)
}

// parseSharees walks the category subtrees under <data>. The category set
// is dynamic (it depends on which recipient kinds the server supports), so
// the shape is discovered first: every direct child of <data> is a
// category, except "exact", whose children are themselves categories of
// exact matches.
func parseSharees(doc *etree.Document) ([]Sharee, error) {
	categories, err := dataChildren(doc)
	if err != nil {
		return nil, err
	}
	result := []Sharee{}
	for _, category := range categories {
		if category.Tag == "exact" {
			for _, exactCategory := range category.ChildElements() {
				for _, item := range exactCategory.SelectElements("element") {
					sharee, err := parseShareeElement(item)
					if err != nil {
						return nil, err
					}
					sharee.IsExactResult = true
					result = append(result, sharee)
				}
			}
			continue
		}
		for _, item := range category.SelectElements("element") {
			sharee, err := parseShareeElement(item)
			if err != nil {
				return nil, err
			}
			result = append(result, sharee)
		}
	}
	return result, nil
}

// parseShareeElement reads one sharee record. The discriminant lives in the
// nested value/shareType node.
func parseShareeElement(el *etree.Element) (Sharee, error) {
	value, err := singleChild(el, "value")
	if err != nil {
		return Sharee{}, err
	}
	if value == nil {
		return Sharee{}, fmt.Errorf("ocs: sharee entry without value node")
	}
	typeNode, err := singleChild(value, "shareType")
	if err != nil {
		return Sharee{}, err
	}
	if typeNode == nil {
		return Sharee{}, fmt.Errorf("ocs: sharee entry without shareType")
	}
	typeValue, err := strconv.Atoi(strings.TrimSpace(typeNode.Text()))
	if err != nil {
		return Sharee{}, fmt.Errorf("ocs: invalid sharee shareType %q: %w", typeNode.Text(), err)
	}

	sharee := Sharee{ShareType: ShareType(typeValue)}
	if v, ok := childText(value, "shareWith"); ok {
		sharee.ShareWith = v
	}
	if v, ok := childText(el, "shareWithDisplayNameUnique"); ok {
		sharee.ShareWithDisplayName = v
	}
	if v, ok := childText(el, "shareWithAdditionalInfo"); ok {
		sharee.ShareWithAdditionalInfo = v
	}
	if v, ok := childText(el, "icon"); ok {
		sharee.Icon = v
	}
	if v, ok := childText(el, "label"); ok {
		sharee.Label = v
	}
	return sharee, nil
}

// parseUser reads account attributes from a provisioning response.
func parseUser(doc *etree.Document) *User {
	user := &User{}
	for _, data := range descendants(doc.Root(), "data") {
		if v, ok := childText(data, "displayname"); ok {
			user.DisplayName = v
		}
		if v, ok := childText(data, "email"); ok {
			user.Email = v
		}
		if v, ok := childText(data, "enabled"); ok {
			user.Enabled = v == "true" || v == "1"
		}
		// Direct children only: a same-named quota node nested deeper in
		// the tree must not match.
		for _, q := range data.SelectElements("quota") {
			quota := &Quota{}
			for _, f := range []struct {
				tag  string
				dest *float64
			}{
				{"free", &quota.Free},
				{"used", &quota.Used},
				{"total", &quota.Total},
				{"relative", &quota.Relative},
			} {
				if v, ok := childText(q, f.tag); ok {
					if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
						*f.dest = n
					}
				}
			}
			user.Quota = quota
		}
	}
	return user
}

// parseAppInfo reads application metadata. standalone and default_enable
// are presence-only markers; the dict sections are one level deep.
func parseAppInfo(doc *etree.Document) *AppInfo {
	app := &AppInfo{}
	for _, data := range descendants(doc.Root(), "data") {
		for _, f := range []struct {
			tag  string
			dest *string
		}{
			{"id", &app.ID},
			{"name", &app.DisplayName},
			{"description", &app.Description},
			{"licence", &app.Licence},
			{"author", &app.Author},
			{"requiremin", &app.RequireMin},
		} {
			if v, ok := childText(data, f.tag); ok {
				*f.dest = v
			}
		}
		if v, ok := childText(data, "shipped"); ok {
			app.Shipped = v == "true"
		}
		app.Standalone = data.SelectElement("standalone") != nil
		app.DefaultEnable = data.SelectElement("default_enable") != nil
		if node := data.SelectElement("types"); node != nil {
			app.Types = elementsToList(node)
		}
		if node := data.SelectElement("remote"); node != nil {
			app.Remote = elementsToDict(node)
		}
		if node := data.SelectElement("documentation"); node != nil {
			app.Documentation = elementsToDict(node)
		}
		if node := data.SelectElement("info"); node != nil {
			app.Info = elementsToDict(node)
		}
		if node := data.SelectElement("public"); node != nil {
			app.Public = elementsToDict(node)
		}
	}
	return app
}

// parseAttributeList reads the (app, key, value) triples of a privatedata
// response.
func parseAttributeList(doc *etree.Document) []AppAttribute {
	result := []AppAttribute{}
	for _, data := range descendants(doc.Root(), "data") {
		for _, el := range descendants(data, "element") {
			attr := AppAttribute{}
			if v, ok := childText(el, "app"); ok {
				attr.App = v
			}
			if v, ok := childText(el, "key"); ok {
				attr.Key = v
			}
			if v, ok := childText(el, "value"); ok {
				attr.Value = v
			}
			result = append(result, attr)
		}
	}
	return result
}

// elementsToList returns the values of all <element> nodes below el.
func elementsToList(el *etree.Element) []string {
	result := []string{}
	for _, node := range descendants(el, "element") {
		result = append(result, node.Text())
	}
	return result
}

// elementsToDict maps each direct child's name to its text.
func elementsToDict(el *etree.Element) map[string]string {
	result := map[string]string{}
	for _, node := range el.ChildElements() {
		result[node.Tag] = node.Text()
	}
	return result
}
