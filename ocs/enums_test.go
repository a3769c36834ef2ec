package ocs

import "testing"

func TestPermissionValid(t *testing.T) {
	tests := []struct {
		p     Permission
		valid bool
	}{
		{0, false},
		{PermissionRead, true},
		{PermissionAll, true},
		{32, false},
		{PermissionNone, false},
		{PermissionRead | PermissionUpdate, true},
	}
	for _, tt := range tests {
		if got := tt.p.Valid(); got != tt.valid {
			t.Errorf("Permission(%d).Valid() = %t, want %t", int(tt.p), got, tt.valid)
		}
	}
}

func TestPermissionHas(t *testing.T) {
	p := PermissionRead | PermissionShare
	if !p.Has(PermissionRead) || !p.Has(PermissionShare) {
		t.Error("expected read and share to be contained")
	}
	if p.Has(PermissionDelete) {
		t.Error("delete must not be contained")
	}
	if PermissionNone.Has(PermissionRead) {
		t.Error("the none sentinel contains nothing")
	}
}

func TestPermissionString(t *testing.T) {
	tests := []struct {
		p    Permission
		want string
	}{
		{PermissionAll, "all"},
		{PermissionNone, "none"},
		{PermissionRead, "read"},
		{PermissionRead | PermissionUpdate, "read+update"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Permission(%d).String() = %q, want %q", int(tt.p), got, tt.want)
		}
	}
}

func TestUserAttributeKeyWireName(t *testing.T) {
	tests := []struct {
		key  UserAttributeKey
		want string
	}{
		{UserAttributeDisplayName, "display"},
		{UserAttributeQuota, "quota"},
		{UserAttributePassword, "password"},
		{UserAttributeEMail, "email"},
	}
	for _, tt := range tests {
		got, err := tt.key.wireName()
		if err != nil {
			t.Fatalf("wireName(%v): %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("wireName(%v) = %q, want %q", tt.key, got, tt.want)
		}
	}
	if _, err := UserAttributeKey(99).wireName(); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestShareTypeString(t *testing.T) {
	if ShareTypeLink.String() != "link" || ShareTypeRemote.String() != "remote" {
		t.Error("unexpected share type names")
	}
	if ShareType(42).String() != "sharetype(42)" {
		t.Errorf("fallback = %q", ShareType(42).String())
	}
}
