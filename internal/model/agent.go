package model

import "github.com/google/uuid"

type AgentRole string

const (
	AgentRolePrincipal       AgentRole = "principal"
	AgentRoleSalesAgent      AgentRole = "sales_agent"
	AgentRolePropertyManager AgentRole = "property_manager"
	AgentRoleAdmin           AgentRole = "admin"
)

type Agent struct {
	BaseModel
	AgencyID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"agency_id"`
	Name              string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email             string     `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone             string     `gorm:"type:varchar(30)" json:"phone"`
	Role              AgentRole  `gorm:"type:varchar(30);default:'sales_agent'" json:"role" validate:"omitempty,oneof=principal sales_agent property_manager admin"`
	ProfilePictureURL string     `gorm:"type:varchar(512)" json:"profile_picture_url,omitempty"`
	Specialties       StringList `json:"specialties"`
	IsActive          bool       `gorm:"default:true" json:"is_active"`
}
