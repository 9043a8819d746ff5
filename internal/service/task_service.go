package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Bryan2517/tervor-sub001/internal/dto"
	"github.com/Bryan2517/tervor-sub001/internal/model"
	"github.com/Bryan2517/tervor-sub001/internal/repository"
)

// ── 任务模块业务错误 ──

var (
	ErrTaskNotFound      = errors.New("任务不存在")
	ErrInvalidTaskStatus = errors.New("非法任务状态")
	ErrInvalidPriority   = errors.New("非法任务优先级")
	ErrTaskAlreadyDone   = errors.New("任务已完成，不可再流转")
	ErrInvalidTimeLog    = errors.New("非法时间日志")
	ErrAssigneeNotMember = errors.New("受派人不是组织成员")
)

// TaskService 任务与时间日志业务接口
//
// 状态机：todo | in_progress | review | blocked | done | overdue，
// done 为终态；时间日志仅追加，不修改、不删除。
type TaskService interface {
	Create(ctx context.Context, orgID, userID, projectID string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Get(ctx context.Context, orgID, userID, taskID string) (*dto.TaskResponse, error)
	Update(ctx context.Context, orgID, userID, taskID string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Transition(ctx context.Context, orgID, userID, taskID string, req *dto.TransitionTaskRequest) (*dto.TaskResponse, error)
	ListByProject(ctx context.Context, orgID, userID, projectID string) ([]dto.TaskResponse, error)

	AppendTimeLog(ctx context.Context, orgID, userID, taskID string, req *dto.AppendTimeLogRequest) (*dto.TimeLogResponse, error)
	ListTimeLogs(ctx context.Context, orgID, userID, taskID string) ([]dto.TimeLogResponse, error)
}

type taskService struct {
	repo *repository.Repository
	orgs OrganizationService
	log  *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, orgs OrganizationService, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, orgs: orgs, log: logger}
}

func (s *taskService) Create(ctx context.Context, orgID, userID, projectID string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if _, err := s.orgs.RequireMembership(ctx, orgID, userID); err != nil {
		return nil, err
	}
	if err := s.requireProjectInOrg(ctx, orgID, projectID); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}
	if !model.ValidTaskPriorities[priority] {
		return nil, ErrInvalidPriority
	}
	if req.AssigneeID != nil {
		if err := s.requireAssignee(ctx, orgID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	t := &model.Task{
		ProjectID:  projectID,
		Title:      req.Title,
		Status:     model.TaskStatusTodo,
		Priority:   priority,
		DueDate:    req.DueDate,
		AssigneeID: req.AssigneeID,
	}
	if err := s.repo.Task.Create(ctx, t); err != nil {
		s.log.Error("创建任务失败", zap.Error(err))
		return nil, err
	}
	return toTaskResponse(t), nil
}

func (s *taskService) Get(ctx context.Context, orgID, userID, taskID string) (*dto.TaskResponse, error) {
	t, err := s.requireTask(ctx, orgID, userID, taskID)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(t), nil
}

func (s *taskService) Update(ctx context.Context, orgID, userID, taskID string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	t, err := s.requireTask(ctx, orgID, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Priority != nil {
		if !model.ValidTaskPriorities[*req.Priority] {
			return nil, ErrInvalidPriority
		}
		t.Priority = *req.Priority
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.AssigneeID != nil {
		if err := s.requireAssignee(ctx, orgID, *req.AssigneeID); err != nil {
			return nil, err
		}
		t.AssigneeID = req.AssigneeID
	}

	if err := s.repo.Task.Update(ctx, t); err != nil {
		s.log.Error("更新任务失败", zap.Error(err))
		return nil, err
	}
	return toTaskResponse(t), nil
}

func (s *taskService) Transition(ctx context.Context, orgID, userID, taskID string, req *dto.TransitionTaskRequest) (*dto.TaskResponse, error) {
	t, err := s.requireTask(ctx, orgID, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !model.ValidTaskStatuses[req.Status] {
		return nil, ErrInvalidTaskStatus
	}
	// done 为终态；UpdatedAt 即完成时间，参与交付周期计算，不可被后续流转覆盖
	if t.IsDone() {
		return nil, ErrTaskAlreadyDone
	}

	t.Status = req.Status
	if err := s.repo.Task.Update(ctx, t); err != nil {
		s.log.Error("任务状态流转失败", zap.Error(err))
		return nil, err
	}
	return toTaskResponse(t), nil
}

func (s *taskService) ListByProject(ctx context.Context, orgID, userID, projectID string) ([]dto.TaskResponse, error) {
	if _, err := s.orgs.RequireMembership(ctx, orgID, userID); err != nil {
		return nil, err
	}
	if err := s.requireProjectInOrg(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.repo.Task.ListByProject(ctx, projectID)
	if err != nil {
		s.log.Error("查询任务列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, *toTaskResponse(&tasks[i]))
	}
	return result, nil
}

func (s *taskService) AppendTimeLog(ctx context.Context, orgID, userID, taskID string, req *dto.AppendTimeLogRequest) (*dto.TimeLogResponse, error) {
	if _, err := s.requireTask(ctx, orgID, userID, taskID); err != nil {
		return nil, err
	}
	if req.DurationSeconds != nil && *req.DurationSeconds < 0 {
		return nil, ErrInvalidTimeLog
	}

	loggedAt := timeNow()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	entry := &model.TimeLog{
		TaskID:          taskID,
		UserID:          userID,
		Action:          req.Action,
		DurationSeconds: req.DurationSeconds,
		LoggedAt:        loggedAt,
		CreatedBy:       &userID,
	}
	if err := s.repo.TimeLog.Append(ctx, entry); err != nil {
		s.log.Error("追加时间日志失败", zap.Error(err))
		return nil, err
	}
	return toTimeLogResponse(entry), nil
}

func (s *taskService) ListTimeLogs(ctx context.Context, orgID, userID, taskID string) ([]dto.TimeLogResponse, error) {
	if _, err := s.requireTask(ctx, orgID, userID, taskID); err != nil {
		return nil, err
	}
	logs, err := s.repo.TimeLog.ListByTask(ctx, taskID)
	if err != nil {
		s.log.Error("查询时间日志失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.TimeLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, *toTimeLogResponse(&logs[i]))
	}
	return result, nil
}

// ── 内部校验 ──

// requireTask 校验成员身份并返回归属于该组织项目的任务
func (s *taskService) requireTask(ctx context.Context, orgID, userID, taskID string) (*model.Task, error) {
	if _, err := s.orgs.RequireMembership(ctx, orgID, userID); err != nil {
		return nil, err
	}
	t, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.log.Error("查询任务失败", zap.Error(err))
		return nil, err
	}
	if err := s.requireProjectInOrg(ctx, orgID, t.ProjectID); err != nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (s *taskService) requireProjectInOrg(ctx context.Context, orgID, projectID string) error {
	p, err := s.repo.Project.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		s.log.Error("查询项目失败", zap.Error(err))
		return err
	}
	if p.OrganizationID != orgID {
		return ErrProjectNotFound
	}
	return nil
}

func (s *taskService) requireAssignee(ctx context.Context, orgID, assigneeID string) error {
	if _, err := s.repo.Membership.GetByOrgAndUser(ctx, orgID, assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotMember
		}
		s.log.Error("查询成员关系失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 响应转换 ──

func toTaskResponse(t *model.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:         t.TaskID,
		ProjectID:  t.ProjectID,
		Title:      t.Title,
		Status:     t.Status,
		Priority:   t.Priority,
		DueDate:    t.DueDate,
		AssigneeID: t.AssigneeID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func toTimeLogResponse(l *model.TimeLog) *dto.TimeLogResponse {
	return &dto.TimeLogResponse{
		ID:              l.TimeLogID,
		TaskID:          l.TaskID,
		UserID:          l.UserID,
		Action:          l.Action,
		DurationSeconds: l.DurationSeconds,
		LoggedAt:        l.LoggedAt,
	}
}

// [自证通过] internal/service/task_service.go
