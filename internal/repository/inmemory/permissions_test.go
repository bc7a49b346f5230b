package inmemory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessdomain "hospital-admin-go/internal/domain/access"
)

func TestPermissionsCacheExpires(t *testing.T) {
	cache := NewInMemoryPermissionsCache()
	perms := []accessdomain.Permission{{Role: "user", ModuleID: "cards", CanView: true}}

	cache.SetByRole("user", perms, time.Hour)
	got, ok := cache.GetByRole("user")
	require.True(t, ok)
	assert.Equal(t, perms, got)

	got[0].CanView = false
	again, _ := cache.GetByRole("user")
	assert.True(t, again[0].CanView)

	cache.SetByRole("manager", perms, time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, ok = cache.GetByRole("manager")
	assert.False(t, ok)

	cache.Clear()
	_, ok = cache.GetByRole("user")
	assert.False(t, ok)
}

func TestPermissionsCacheZeroTTLDeletes(t *testing.T) {
	cache := NewInMemoryPermissionsCache()
	cache.SetByRole("user", []accessdomain.Permission{{Role: "user"}}, time.Hour)
	cache.SetByRole("user", []accessdomain.Permission{{Role: "user"}}, 0)

	_, ok := cache.GetByRole("user")
	assert.False(t, ok)
}
