package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RolePlatformAdmin = "PLATFORM_ADMIN"
	RoleAgencyAdmin   = "AGENCY_ADMIN"
	RoleAgencyViewer  = "AGENCY_VIEWER"
)

var DefaultRoles = []Role{
	{
		Code:        RolePlatformAdmin,
		Name:        "Platform Administrator",
		Description: "Manages every agency and all privileges",
	},
	{
		Code:        RoleAgencyAdmin,
		Name:        "Agency Administrator",
		Description: "Full access within a single agency",
	},
	{
		Code:        RoleAgencyViewer,
		Name:        "Agency Viewer",
		Description: "Read-only dashboards and reports within a single agency",
	},
}

// RolePrivileges picks the privilege set a default role starts with.
func RolePrivileges(roleCode string, all []Privilege) []Privilege {
	picked := []Privilege{}
	for _, p := range all {
		switch roleCode {
		case RolePlatformAdmin:
			picked = append(picked, p)
		case RoleAgencyAdmin:
			if !IsPlatformPrivilege(p.Code) {
				picked = append(picked, p)
			}
		case RoleAgencyViewer:
			switch p.Code {
			case PrivAgentView, PrivTxView, PrivSettingsView, PrivStatsView, PrivReportExport:
				picked = append(picked, p)
			}
		}
	}
	return picked
}
