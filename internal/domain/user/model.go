package user

import "time"

const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

const (
	MinPasswordLength = 6
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

type SystemUser struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"column:username;uniqueIndex;not null" json:"username"`
	HoTen        string    `gorm:"column:ho_ten" json:"ho_ten"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         string    `gorm:"column:role;not null" json:"role"`
	IsActive     bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemUser) TableName() string {
	return "system_users"
}

type CreateInput struct {
	Username        string
	HoTen           string
	Password        string
	ConfirmPassword string
	Role            string
}

// UpdateInput changes only the fields that are set. An empty Password keeps
// the current one.
type UpdateInput struct {
	HoTen           *string
	Role            *string
	IsActive        *bool
	Password        string
	ConfirmPassword string
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token     string     `json:"access_token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      SystemUser `json:"user"`
}
