package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "transaction:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Privilege codes checked by route middleware.
const (
	PrivUserView       = "user:view"
	PrivUserManage     = "user:manage"
	PrivAgencyManage   = "agency:manage"
	PrivAgencySwitch   = "agency:switch"
	PrivAgentView      = "agent:view"
	PrivAgentManage    = "agent:manage"
	PrivTxView         = "transaction:view"
	PrivTxManage       = "transaction:manage"
	PrivSettingsView   = "settings:view"
	PrivSettingsManage = "settings:manage"
	PrivStatsView      = "stats:view"
	PrivStatsRefresh   = "stats:refresh"
	PrivReportExport   = "report:export"
)

// DefaultPrivileges are seeded on startup.
var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "View Users"},
	{Code: PrivUserManage, Name: "Manage Users"},
	{Code: PrivAgencyManage, Name: "Manage Agencies"},
	{Code: PrivAgencySwitch, Name: "Act On Any Agency"},
	{Code: PrivAgentView, Name: "View Agents"},
	{Code: PrivAgentManage, Name: "Manage Agents"},
	{Code: PrivTxView, Name: "View Transactions"},
	{Code: PrivTxManage, Name: "Manage Transactions"},
	{Code: PrivSettingsView, Name: "View Settings"},
	{Code: PrivSettingsManage, Name: "Manage Settings"},
	{Code: PrivStatsView, Name: "View Sales Stats"},
	{Code: PrivStatsRefresh, Name: "Refresh Sales Stats"},
	{Code: PrivReportExport, Name: "Build And Export Reports"},
}

// platformOnly privileges are never granted to agency-level roles.
var platformOnly = map[string]bool{
	PrivAgencyManage: true,
	PrivAgencySwitch: true,
}

// IsPlatformPrivilege reports whether code may only be held by platform admins.
func IsPlatformPrivilege(code string) bool {
	return platformOnly[code]
}
