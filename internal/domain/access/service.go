package access

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
}

func NewService(repo Repository, cache Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, ttl: ttl}
}

// Permission returns what role may do in moduleID. Missing rows deny
// everything.
func (s *Service) Permission(ctx context.Context, role, moduleID string) (Permission, error) {
	if !IsKnownModule(moduleID) {
		return Permission{}, ErrUnknownModule
	}
	if role == RoleAdmin {
		return full(role, moduleID), nil
	}

	permissions, err := s.RolePermissions(ctx, role)
	if err != nil {
		return Permission{}, err
	}
	for _, permission := range permissions {
		if permission.ModuleID == moduleID {
			return permission, nil
		}
	}
	return Permission{Role: role, ModuleID: moduleID}, nil
}

func (s *Service) Allowed(ctx context.Context, role, moduleID string, action Action) (bool, error) {
	permission, err := s.Permission(ctx, role, moduleID)
	if err != nil {
		return false, err
	}
	return permission.Allows(action), nil
}

// RolePermissions lists one entry per known module for role.
func (s *Service) RolePermissions(ctx context.Context, role string) ([]Permission, error) {
	role = strings.TrimSpace(role)
	if role == RoleAdmin {
		result := make([]Permission, 0, len(Modules))
		for _, moduleID := range Modules {
			result = append(result, full(role, moduleID))
		}
		return result, nil
	}

	if cached, ok := s.cache.GetByRole(role); ok {
		return cached, nil
	}

	stored, err := s.repo.ListPermissions(ctx, role)
	if err != nil {
		return nil, err
	}
	byModule := make(map[string]Permission, len(stored))
	for _, permission := range stored {
		byModule[permission.ModuleID] = permission
	}
	result := make([]Permission, 0, len(Modules))
	for _, moduleID := range Modules {
		permission, ok := byModule[moduleID]
		if !ok {
			permission = Permission{Role: role, ModuleID: moduleID}
		}
		result = append(result, permission)
	}

	s.cache.SetByRole(role, result, s.ttl)
	return result, nil
}

func (s *Service) Matrix(ctx context.Context) ([]Permission, error) {
	return s.repo.ListAllPermissions(ctx)
}

func (s *Service) Update(ctx context.Context, permissions []Permission) error {
	for i := range permissions {
		permissions[i].Role = strings.TrimSpace(permissions[i].Role)
		if permissions[i].Role != RoleUser && permissions[i].Role != RoleManager {
			return ErrInvalidRole
		}
		if !IsKnownModule(permissions[i].ModuleID) {
			return ErrUnknownModule
		}
	}
	if len(permissions) == 0 {
		return nil
	}
	if err := s.repo.UpsertPermissions(ctx, permissions); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// SeedDefaults writes the embedded matrix when no permissions are stored yet.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.repo.CountPermissions(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	permissions, err := ParseSeed(defaultSeed)
	if err != nil {
		return 0, err
	}
	if err := s.repo.UpsertPermissions(ctx, permissions); err != nil {
		return 0, err
	}
	s.cache.Clear()
	return len(permissions), nil
}
