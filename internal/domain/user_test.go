package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	regular := &User{Role: RoleUser}
	var nobody *User

	assert.True(t, admin.IsAdmin())
	assert.False(t, regular.IsAdmin())
	assert.False(t, nobody.IsAdmin())
}
