package access

// Module ids as used by the sidebar and route gating.
const (
	ModulePersonnel = "personnel"
	ModuleLeave     = "leave"
	ModuleSchedule  = "schedule"
	ModuleCards     = "cards"
	ModuleResearch  = "research"
	ModuleUsers     = "users"
	ModuleSettings  = "settings"
)

var Modules = []string{
	ModulePersonnel,
	ModuleLeave,
	ModuleSchedule,
	ModuleCards,
	ModuleResearch,
	ModuleUsers,
	ModuleSettings,
}

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Roles mirror the user roles; admin is implicit and never stored.
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

type Permission struct {
	Role      string `gorm:"column:role;primaryKey" json:"role"`
	ModuleID  string `gorm:"column:module_id;primaryKey" json:"module_id"`
	CanView   bool   `gorm:"column:can_view" json:"can_view"`
	CanCreate bool   `gorm:"column:can_create" json:"can_create"`
	CanUpdate bool   `gorm:"column:can_update" json:"can_update"`
	CanDelete bool   `gorm:"column:can_delete" json:"can_delete"`
}

func (Permission) TableName() string {
	return "role_permissions"
}

func (p Permission) Allows(action Action) bool {
	switch action {
	case ActionView:
		return p.CanView
	case ActionCreate:
		return p.CanCreate
	case ActionUpdate:
		return p.CanUpdate
	case ActionDelete:
		return p.CanDelete
	default:
		return false
	}
}

func full(role, moduleID string) Permission {
	return Permission{Role: role, ModuleID: moduleID, CanView: true, CanCreate: true, CanUpdate: true, CanDelete: true}
}

func IsKnownModule(moduleID string) bool {
	for _, module := range Modules {
		if module == moduleID {
			return true
		}
	}
	return false
}
