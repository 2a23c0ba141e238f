package model

import "github.com/google/uuid"

type SettingCategory string

const (
	SettingBranding SettingCategory = "branding"
	SettingTVView   SettingCategory = "tv_view"
	SettingGeneral  SettingCategory = "general"
)

// Setting is one key/value pair of an agency's configuration.
type Setting struct {
	BaseModel
	AgencyID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_settings_agency_key" json:"agency_id"`
	Category SettingCategory `gorm:"type:varchar(20);not null;index" json:"category" validate:"required,oneof=branding tv_view general"`
	Key      string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_settings_agency_key" json:"key" validate:"required,max=100"`
	Value    string          `gorm:"type:text" json:"value"`
}
