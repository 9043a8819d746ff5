package model

// Organization 组织表 — 对应 organizations
type Organization struct {
	OrganizationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"organization_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description    string `gorm:"type:text;not null;default:''"                  json:"description"`
	OwnerID        string `gorm:"type:uuid;not null"                             json:"owner_id"`
	VersionedModel

	// 关联
	Owner        *User         `gorm:"foreignKey:OwnerID;references:UserID"                       json:"owner,omitempty"`
	WorkSchedule *WorkSchedule `gorm:"foreignKey:OrganizationID;references:OrganizationID"        json:"work_schedule,omitempty"`
}

// TableName 指定表名
func (Organization) TableName() string { return "organizations" }

// Membership 组织成员关系表 — 对应 memberships
// points 为积分余额，由奖励兑换与积分发放共同维护
type Membership struct {
	MembershipID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"membership_id"`
	OrganizationID string `gorm:"type:uuid;not null;index"                       json:"organization_id"`
	UserID         string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Role           string `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"` // owner | admin | supervisor | employee
	Points         int    `gorm:"not null;default:0"                             json:"points"`
	VersionedModel

	// 关联
	User         *User         `gorm:"foreignKey:UserID;references:UserID"                 json:"user,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"organization,omitempty"`
}

// TableName 指定表名
func (Membership) TableName() string { return "memberships" }

// [自证通过] internal/model/organization.go
