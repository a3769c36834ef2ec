package ocs

import "fmt"

// Permission is the OCS share permission bitflag set. Add values together to
// grant multiple permissions.
// See https://doc.owncloud.org/server/developer_manual/core/ocs-share-api.html
type Permission int

const (
	// PermissionRead grants read access.
	PermissionRead Permission = 1
	// PermissionUpdate grants update access.
	PermissionUpdate Permission = 2
	// PermissionCreate grants create access.
	PermissionCreate Permission = 4
	// PermissionDelete grants delete access.
	PermissionDelete Permission = 8
	// PermissionShare grants re-share access.
	PermissionShare Permission = 16
	// PermissionAll grants every permission.
	PermissionAll Permission = 31
	// PermissionNone is the not-defined indicator. It is never sent on the
	// wire; optional parameters use it to mean "leave unchanged".
	PermissionNone Permission = -1
)

// Valid reports whether p is a permission set a server accepts, i.e. within
// [Read, All].
func (p Permission) Valid() bool {
	return p >= PermissionRead && p <= PermissionAll
}

// Has reports whether all bits of perm are contained in p.
func (p Permission) Has(perm Permission) bool {
	if p < 0 || perm < 0 {
		return false
	}
	return p&perm == perm
}

func (p Permission) String() string {
	switch p {
	case PermissionNone:
		return "none"
	case PermissionAll:
		return "all"
	}
	names := ""
	for _, f := range []struct {
		bit  Permission
		name string
	}{
		{PermissionRead, "read"},
		{PermissionUpdate, "update"},
		{PermissionCreate, "create"},
		{PermissionDelete, "delete"},
		{PermissionShare, "share"},
	} {
		if p&f.bit != 0 {
			if names != "" {
				names += "+"
			}
			names += f.name
		}
	}
	if names == "" {
		return fmt.Sprintf("permission(%d)", int(p))
	}
	return names
}

// ShareType identifies the recipient kind of a share.
// Wire values: 0 = user, 1 = group, 3 = public link, 4 = email,
// 6 = federated cloud share, 7 = circle, 10 = Talk conversation.
type ShareType int

const (
	// ShareTypeUser is a share with a local user.
	ShareTypeUser ShareType = 0
	// ShareTypeGroup is a share with a group.
	ShareTypeGroup ShareType = 1
	// ShareTypeLink is a public link share.
	ShareTypeLink ShareType = 3
	// ShareTypeEMail is a share sent to an email address.
	ShareTypeEMail ShareType = 4
	// ShareTypeRemote is a federated cloud share with a remote user.
	ShareTypeRemote ShareType = 6
	// ShareTypeCircle is a share with a circle.
	ShareTypeCircle ShareType = 7
	// ShareTypeTalkConversation is a share into a Talk conversation.
	ShareTypeTalkConversation ShareType = 10
	// ShareTypeNone is the not-defined indicator.
	ShareTypeNone ShareType = -1
)

func (t ShareType) String() string {
	switch t {
	case ShareTypeUser:
		return "user"
	case ShareTypeGroup:
		return "group"
	case ShareTypeLink:
		return "link"
	case ShareTypeEMail:
		return "email"
	case ShareTypeRemote:
		return "remote"
	case ShareTypeCircle:
		return "circle"
	case ShareTypeTalkConversation:
		return "talk"
	case ShareTypeNone:
		return "none"
	default:
		return fmt.Sprintf("sharetype(%d)", int(t))
	}
}

// UserAttributeKey selects which account attribute SetUserAttribute modifies.
type UserAttributeKey int

const (
	// UserAttributeDisplayName is the user's display name.
	UserAttributeDisplayName UserAttributeKey = iota
	// UserAttributeQuota is the user's storage quota.
	UserAttributeQuota
	// UserAttributePassword is the user's password.
	UserAttributePassword
	// UserAttributeEMail is the user's email address.
	UserAttributeEMail
)

// wireName returns the provisioning API key name for k. An explicit switch
// keeps the mapping stable even if the enum values are ever reordered.
func (k UserAttributeKey) wireName() (string, error) {
	switch k {
	case UserAttributeDisplayName:
		return "display", nil
	case UserAttributeQuota:
		return "quota", nil
	case UserAttributePassword:
		return "password", nil
	case UserAttributeEMail:
		return "email", nil
	default:
		return "", fmt.Errorf("ocs: unknown user attribute key %d", int(k))
	}
}

func (k UserAttributeKey) String() string {
	name, err := k.wireName()
	if err != nil {
		return fmt.Sprintf("userattribute(%d)", int(k))
	}
	return name
}
