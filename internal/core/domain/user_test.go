package domain

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestRoleSet_FromStrings(t *testing.T) {
	cases := []struct {
		in        []string
		wantAdmin bool
		wantNames []string
	}{
		{nil, false, []string{"user"}},
		{[]string{"user"}, false, []string{"user"}},
		{[]string{"user", "admin"}, true, []string{"user", "admin"}},
		{[]string{"admin"}, true, []string{"user", "admin"}},
		{[]string{"Admin", "superuser"}, false, []string{"user"}},
	}

	for _, tc := range cases {
		s := RoleSetFromStrings(tc.in)
		if !s.Has(RoleUser) {
			t.Errorf("%v: RoleUser must always be present", tc.in)
		}
		if s.Has(RoleAdmin) != tc.wantAdmin {
			t.Errorf("%v: admin = %v, want %v", tc.in, s.Has(RoleAdmin), tc.wantAdmin)
		}
		if got := s.Strings(); !reflect.DeepEqual(got, tc.wantNames) {
			t.Errorf("%v: Strings() = %v, want %v", tc.in, got, tc.wantNames)
		}
	}
}

func TestIsReservedUsername(t *testing.T) {
	for _, name := range []string{"admin", "ADMIN", "Admin", "aDmIn"} {
		if !IsReservedUsername(name) {
			t.Errorf("%q should be reserved", name)
		}
	}
	for _, name := range []string{"admin1", "administrator", "alice", ""} {
		if IsReservedUsername(name) {
			t.Errorf("%q should not be reserved", name)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	verr := fmt.Errorf("register: %w", NewValidationError("username", "username must not contain spaces"))
	if !errors.Is(verr, ErrValidation) {
		t.Fatalf("wrapped ValidationError must match ErrValidation")
	}

	cause := errors.New("connection reset")
	serr := fmt.Errorf("list: %w", NewStoreError("find posts", cause))
	if !errors.Is(serr, ErrStore) {
		t.Fatalf("wrapped StoreError must match ErrStore")
	}
	if !errors.Is(serr, cause) {
		t.Fatalf("StoreError must unwrap to its cause")
	}
	if NewStoreError("noop", nil) != nil {
		t.Fatalf("NewStoreError(nil) must be nil")
	}
}
