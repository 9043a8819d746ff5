package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Bryan2517/tervor-sub001/internal/dto"
	"github.com/Bryan2517/tervor-sub001/internal/service"
	"github.com/Bryan2517/tervor-sub001/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// Create 在项目下创建任务
// POST /api/v1/organizations/:orgID/projects/:projectID/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.taskSvc.Create(c.Request.Context(), orgID, userID, c.Param("projectID"), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.Created(c, result)
}

// Get 查询任务
// GET /api/v1/organizations/:orgID/tasks/:taskID
func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.Get(c.Request.Context(), orgID, userID, c.Param("taskID"))
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, result)
}

// Update 更新任务字段
// PUT /api/v1/organizations/:orgID/tasks/:taskID
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.taskSvc.Update(c.Request.Context(), orgID, userID, c.Param("taskID"), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, result)
}

// Transition 任务状态流转
// POST /api/v1/organizations/:orgID/tasks/:taskID/transitions
func (h *TaskHandler) Transition(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	var req dto.TransitionTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.taskSvc.Transition(c.Request.Context(), orgID, userID, c.Param("taskID"), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, result)
}

// ListByProject 项目任务列表
// GET /api/v1/organizations/:orgID/projects/:projectID/tasks
func (h *TaskHandler) ListByProject(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.ListByProject(c.Request.Context(), orgID, userID, c.Param("projectID"))
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, result)
}

// AppendTimeLog 追加工时记录
// POST /api/v1/organizations/:orgID/tasks/:taskID/time-logs
func (h *TaskHandler) AppendTimeLog(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	var req dto.AppendTimeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.taskSvc.AppendTimeLog(c.Request.Context(), orgID, userID, c.Param("taskID"), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.Created(c, result)
}

// ListTimeLogs 查询任务工时记录
// GET /api/v1/organizations/:orgID/tasks/:taskID/time-logs
func (h *TaskHandler) ListTimeLogs(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.ListTimeLogs(c.Request.Context(), orgID, userID, c.Param("taskID"))
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 13101, "任务不存在")
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 13001, "项目不存在")
	case errors.Is(err, service.ErrInvalidTaskStatus):
		response.BadRequest(c, 13102, "无效的任务状态")
	case errors.Is(err, service.ErrInvalidPriority):
		response.BadRequest(c, 13103, "无效的优先级")
	case errors.Is(err, service.ErrTaskAlreadyDone):
		response.Conflict(c, 13104, "任务已完成，不可再流转")
	case errors.Is(err, service.ErrInvalidTimeLog):
		response.BadRequest(c, 13105, "无效的工时记录")
	case errors.Is(err, service.ErrAssigneeNotMember):
		response.BadRequest(c, 13106, "指派对象不是该组织成员")
	case errors.Is(err, service.ErrNotMember):
		response.Forbidden(c, 12002, "不是该组织成员")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/task_handler.go
