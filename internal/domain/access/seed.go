package access

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// ParseSeed reads a role -> module -> actions matrix.
func ParseSeed(data []byte) ([]Permission, error) {
	var matrix map[string]map[string][]Action
	if err := yaml.Unmarshal(data, &matrix); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	var permissions []Permission
	for role, modules := range matrix {
		if role != RoleUser && role != RoleManager {
			return nil, fmt.Errorf("%w: role %q", ErrInvalidSeed, role)
		}
		for moduleID, actions := range modules {
			if !IsKnownModule(moduleID) {
				return nil, fmt.Errorf("%w: module %q", ErrInvalidSeed, moduleID)
			}
			permission := Permission{Role: role, ModuleID: moduleID}
			for _, action := range actions {
				switch action {
				case ActionView:
					permission.CanView = true
				case ActionCreate:
					permission.CanCreate = true
				case ActionUpdate:
					permission.CanUpdate = true
				case ActionDelete:
					permission.CanDelete = true
				default:
					return nil, fmt.Errorf("%w: action %q", ErrInvalidSeed, action)
				}
			}
			permissions = append(permissions, permission)
		}
	}

	sort.Slice(permissions, func(i, j int) bool {
		if permissions[i].Role != permissions[j].Role {
			return permissions[i].Role < permissions[j].Role
		}
		return permissions[i].ModuleID < permissions[j].ModuleID
	})
	return permissions, nil
}
