package model

// Agency is the tenant boundary: agents, transactions, settings and the stats
// snapshot all hang off an agency.
type Agency struct {
	BaseModel
	Name         string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email        string     `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone        string     `gorm:"type:varchar(30)" json:"phone"`
	Address      string     `gorm:"type:varchar(255)" json:"address"`
	RLANumber    string     `gorm:"column:rla_number;type:varchar(50);uniqueIndex" json:"rla_number" validate:"required"`
	LogoURL      string     `gorm:"type:varchar(512)" json:"logo_url"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	ServiceAreas StringList `json:"service_areas"`

	Agents []Agent `json:"agents,omitempty" validate:"-"`
}
