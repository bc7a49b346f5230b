package settings

import "time"

const (
	KeyBackgroundImage = "background_image"
	KeyMenuOrder       = "menu_order"
)

type AppSetting struct {
	Key       string    `gorm:"column:key;primaryKey" json:"key"`
	Value     string    `gorm:"column:value;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
