package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleType(t *testing.T) {
	for _, rt := range RoleTypes() {
		got, err := ParseRoleType(string(rt))
		require.NoError(t, err)
		assert.Equal(t, rt, got)
	}

	got, err := ParseRoleType(" role_admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, got)

	_, err = ParseRoleType("ROLE_ROOT")
	assert.True(t, errors.Is(err, ErrUnknownRoleType))
}

func TestRoleTypeValueStoresName(t *testing.T) {
	for _, rt := range RoleTypes() {
		v, err := rt.Value()
		require.NoError(t, err)
		assert.Equal(t, rt.String(), v)
	}
}

func TestRoleTypeValueZeroIsNull(t *testing.T) {
	var rt RoleType
	v, err := rt.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRoleTypeValueRejectsUnknown(t *testing.T) {
	_, err := RoleType("ROLE_GUEST").Value()
	assert.ErrorIs(t, err, ErrUnknownRoleType)
}

func TestRoleTypeScan(t *testing.T) {
	var rt RoleType
	require.NoError(t, rt.Scan("ROLE_CUSTOMER"))
	assert.Equal(t, RoleCustomer, rt)

	require.NoError(t, rt.Scan([]byte("ROLE_ADMIN")))
	assert.Equal(t, RoleAdmin, rt)

	assert.ErrorIs(t, rt.Scan(nil), ErrUnknownRoleType)
	assert.ErrorIs(t, rt.Scan("ROLE_GUEST"), ErrUnknownRoleType)
	assert.Error(t, rt.Scan(42))
}

func TestRoleJSON(t *testing.T) {
	b, err := json.Marshal(Role{ID: 7, Type: RoleAdmin})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"type":"ROLE_ADMIN"}`, string(b))

	var r Role
	require.NoError(t, json.Unmarshal([]byte(`{"type":"role_customer"}`), &r))
	assert.Equal(t, RoleCustomer, r.Type)

	var empty Role
	require.NoError(t, json.Unmarshal([]byte(`{"type":null}`), &empty))
	assert.Equal(t, RoleType(""), empty.Type)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"nope"}`), &r))
}

func TestRoleAccessors(t *testing.T) {
	r := NewRole(RoleCustomer)
	assert.False(t, r.IsPersisted())
	assert.Equal(t, uint(0), r.GetID())
	assert.Equal(t, RoleCustomer, r.GetType())

	require.NoError(t, r.SetType(RoleAdmin))
	assert.Equal(t, RoleAdmin, r.GetType())
	assert.ErrorIs(t, r.SetType("ROLE_GUEST"), ErrUnknownRoleType)
	assert.Equal(t, RoleAdmin, r.GetType())

	r.SetID(3)
	assert.True(t, r.IsPersisted())
	assert.Equal(t, uint(3), r.GetID())
	assert.Equal(t, "roles", Role{}.TableName())
}
