package access

import "time"

type Cache interface {
	GetByRole(role string) ([]Permission, bool)
	SetByRole(role string, permissions []Permission, ttl time.Duration)
	DeleteByRole(role string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByRole(string) ([]Permission, bool) {
	return nil, false
}

func (noopCache) SetByRole(string, []Permission, time.Duration) {}

func (noopCache) DeleteByRole(string) {}

func (noopCache) Clear() {}
