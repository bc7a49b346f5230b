package inmemory

import (
	"sync"
	"time"

	accessdomain "hospital-admin-go/internal/domain/access"
)

type InMemoryPermissionsCache struct {
	mu    sync.RWMutex
	items map[string]permissionsItem
}

type permissionsItem struct {
	value     []accessdomain.Permission
	expiresAt time.Time
}

func NewInMemoryPermissionsCache() *InMemoryPermissionsCache {
	return &InMemoryPermissionsCache{
		items: make(map[string]permissionsItem),
	}
}

func (c *InMemoryPermissionsCache) GetByRole(role string) ([]accessdomain.Permission, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[role]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[role]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, role)
		}
		c.mu.Unlock()
		return nil, false
	}

	return clonePermissions(item.value), true
}

func (c *InMemoryPermissionsCache) SetByRole(role string, permissions []accessdomain.Permission, ttl time.Duration) {
	if permissions == nil || ttl <= 0 {
		c.DeleteByRole(role)
		return
	}

	c.mu.Lock()
	c.items[role] = permissionsItem{
		value:     clonePermissions(permissions),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryPermissionsCache) DeleteByRole(role string) {
	c.mu.Lock()
	delete(c.items, role)
	c.mu.Unlock()
}

func (c *InMemoryPermissionsCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]permissionsItem)
	c.mu.Unlock()
}

func clonePermissions(permissions []accessdomain.Permission) []accessdomain.Permission {
	return append([]accessdomain.Permission(nil), permissions...)
}
