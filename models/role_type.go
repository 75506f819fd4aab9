package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// RoleType is the closed set of role classifications. It is persisted by
// name so stored rows survive reordering of the constants below.
type RoleType string

const (
	RoleAdmin    RoleType = "ROLE_ADMIN"
	RoleCustomer RoleType = "ROLE_CUSTOMER"
)

// ErrUnknownRoleType is returned when a name does not match any RoleType.
var ErrUnknownRoleType = errors.New("unknown role type")

var roleTypes = []RoleType{RoleAdmin, RoleCustomer}

// RoleTypes returns every member in declaration order.
func RoleTypes() []RoleType {
	out := make([]RoleType, len(roleTypes))
	copy(out, roleTypes)
	return out
}

// ParseRoleType resolves a name (case-insensitive) to its RoleType.
func ParseRoleType(s string) (RoleType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range roleTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRoleType, s)
}

func (t RoleType) IsValid() bool {
	for _, m := range roleTypes {
		if m == t {
			return true
		}
	}
	return false
}

func (t RoleType) String() string { return string(t) }

// Value stores the member name. The zero value maps to NULL so the column's
// NOT NULL constraint rejects it.
func (t RoleType) Value() (driver.Value, error) {
	if t == "" {
		return nil, nil
	}
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoleType, string(t))
	}
	return string(t), nil
}

// Scan reads a stored member name.
func (t *RoleType) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	case nil:
		return fmt.Errorf("%w: NULL", ErrUnknownRoleType)
	default:
		return fmt.Errorf("cannot scan %T into RoleType", src)
	}
	parsed, err := ParseRoleType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t RoleType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// UnmarshalText accepts a member name. Empty input leaves the zero value so
// that a missing type surfaces as a constraint violation at persistence time.
func (t *RoleType) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*t = ""
		return nil
	}
	parsed, err := ParseRoleType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
