package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Bryan2517/tervor-sub001/internal/dto"
	"github.com/Bryan2517/tervor-sub001/internal/model"
	"github.com/Bryan2517/tervor-sub001/internal/repository"
)

func setupTestProjectService() (ProjectService, *repository.Repository) {
	repo := newTestRepository()
	orgs := NewOrganizationService(repo, zap.NewNop())
	return NewProjectService(repo, orgs, zap.NewNop()), repo
}

func TestProjectService_Create_SupervisorAllowed(t *testing.T) {
	svc, repo := setupTestProjectService()
	seedUser(t, repo, "u1", "张三", "zhang@example.com")
	seedOrg(t, repo, "org1", "u1")
	seedMember(t, repo, "org1", "u1", model.RoleSupervisor, 0)

	p, err := svc.Create(context.Background(), "org1", "u1", &dto.CreateProjectRequest{
		Name: "官网改版",
	})
	if err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}
	if p.OrganizationID != "org1" || p.Name != "官网改版" {
		t.Errorf("项目字段不符: %+v", p)
	}
}

func TestProjectService_Create_EmployeeForbidden(t *testing.T) {
	svc, repo := setupTestProjectService()
	seedUser(t, repo, "u1", "张三", "zhang@example.com")
	seedOrg(t, repo, "org1", "u1")
	seedMember(t, repo, "org1", "u1", model.RoleEmployee, 0)

	_, err := svc.Create(context.Background(), "org1", "u1", &dto.CreateProjectRequest{
		Name: "不该成功",
	})
	if !errors.Is(err, ErrProjectForbidden) {
		t.Errorf("期望 ErrProjectForbidden，实际 %v", err)
	}
}

func TestProjectService_Delete_RequiresAdmin(t *testing.T) {
	svc, repo := setupTestProjectService()
	seedUser(t, repo, "u1", "张三", "zhang@example.com")
	seedUser(t, repo, "u2", "李四", "li@example.com")
	seedOrg(t, repo, "org1", "u1")
	seedMember(t, repo, "org1", "u1", model.RoleAdmin, 0)
	seedMember(t, repo, "org1", "u2", model.RoleSupervisor, 0)

	p, err := svc.Create(context.Background(), "org1", "u1", &dto.CreateProjectRequest{Name: "短命项目"})
	if err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	// supervisor 不能删
	if err := svc.Delete(context.Background(), "org1", "u2", p.ID); !errors.Is(err, ErrProjectForbidden) {
		t.Errorf("期望 ErrProjectForbidden，实际 %v", err)
	}

	// admin 可以删
	if err := svc.Delete(context.Background(), "org1", "u1", p.ID); err != nil {
		t.Fatalf("删除项目失败: %v", err)
	}
	if _, err := svc.Get(context.Background(), "org1", "u1", p.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("期望项目已删除，实际 %v", err)
	}
}

func TestProjectService_Get_CrossOrgInvisible(t *testing.T) {
	svc, repo := setupTestProjectService()
	seedUser(t, repo, "u1", "张三", "zhang@example.com")
	seedUser(t, repo, "u2", "李四", "li@example.com")
	seedOrg(t, repo, "org1", "u1")
	seedOrg(t, repo, "org2", "u2")
	seedMember(t, repo, "org1", "u1", model.RoleOwner, 0)
	seedMember(t, repo, "org2", "u2", model.RoleOwner, 0)

	p, err := svc.Create(context.Background(), "org1", "u1", &dto.CreateProjectRequest{Name: "内部项目"})
	if err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	// 同一项目 ID 在另一组织上下文中不可见
	if _, err := svc.Get(context.Background(), "org2", "u2", p.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("期望 ErrProjectNotFound，实际 %v", err)
	}
}

func TestProjectService_GetHealth_OverdueBlocked(t *testing.T) {
	svc, repo := setupTestProjectService()
	seedUser(t, repo, "u1", "张三", "zhang@example.com")
	seedOrg(t, repo, "org1", "u1")
	seedMember(t, repo, "org1", "u1", model.RoleOwner, 0)

	p, err := svc.Create(context.Background(), "org1", "u1", &dto.CreateProjectRequest{Name: "延期项目"})
	if err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	pastDue := now.Add(-48 * time.Hour)
	repo.Task.(*mockTaskRepo).tasks["t1"] = &model.Task{
		TaskID:    "t1",
		ProjectID: p.ID,
		Status:    model.TaskStatusInProgress,
		DueDate:   timePtr(pastDue),
	}

	orig := timeNow
	timeNow = func() time.Time { return now }
	defer func() { timeNow = orig }()

	health, err := svc.GetHealth(context.Background(), "org1", "u1", p.ID)
	if err != nil {
		t.Fatalf("评估健康度失败: %v", err)
	}
	if health.Health != HealthBlocked {
		t.Errorf("期望 blocked，实际 %s", health.Health)
	}
}

// [自证通过] internal/service/project_service_test.go
