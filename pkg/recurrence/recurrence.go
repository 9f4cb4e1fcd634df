// Package recurrence 计算备份计划的下一次执行时间
// 所有输入在每次调用时都会被钳制到合法区间，坏配置不会让计算失败
package recurrence

import (
	"time"

	"github.com/robfig/cron/v3"
)

// Frequency 计划的重复频率
type Frequency string

const (
	// FrequencyDaily 每天一次
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly 每周按星期掩码
	FrequencyWeekly Frequency = "weekly"
	// FrequencyMonthly 每月按日期
	FrequencyMonthly Frequency = "monthly"
	// FrequencyIntervalHours 按小时间隔
	FrequencyIntervalHours Frequency = "interval_hours"
	// FrequencyCron 按自定义 cron 表达式（分 时 日 月 周）
	FrequencyCron Frequency = "cron"
)

// Settings 计划的重复设置
type Settings struct {
	// Frequency 频率类型
	Frequency Frequency
	// TimeMinutes 每天执行时刻，自零点起的分钟数 [0, 1439]
	TimeMinutes int
	// WeekdayMask 周几执行的 7 位掩码，bit0 = 周日；为 0 时视为每天
	WeekdayMask int
	// DayOfMonth 每月执行日 [1, 31]，超过当月天数时回退到月末
	DayOfMonth int
	// IntervalHours 小时间隔 [1, 168]
	IntervalHours int
	// CronExpr 5 段 cron 表达式，仅 Frequency 为 cron 时生效
	CronExpr string
}

const (
	maxTimeMinutes   = 24*60 - 1
	weekdayMaskAll   = 0x7f
	maxDayOfMonth    = 31
	maxIntervalHours = 7 * 24
)

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clamp 将设置钳制到合法区间，调用方传入什么都不会出错
func clamp(s Settings) Settings {
	s.TimeMinutes = clampInt(s.TimeMinutes, 0, maxTimeMinutes)
	s.WeekdayMask &= weekdayMaskAll
	if s.WeekdayMask == 0 {
		// 空掩码等价于全选，存量数据里出现过掩码为 0 的计划
		s.WeekdayMask = weekdayMaskAll
	}
	s.DayOfMonth = clampInt(s.DayOfMonth, 1, maxDayOfMonth)
	s.IntervalHours = clampInt(s.IntervalHours, 1, maxIntervalHours)
	return s
}

// lastDayOfMonth 返回 t 所在月份的天数
func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// atMinutes 构造 day 当天 minutes 时刻的时间点
func atMinutes(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// NextRun 计算 now 之后的下一次执行时间
// 返回值保证严格晚于 now：恰好等于 now 的时刻视为已经过去
func NextRun(now time.Time, s Settings) time.Time {
	s = clamp(s)

	switch s.Frequency {
	case FrequencyWeekly:
		return nextWeekly(now, s)
	case FrequencyMonthly:
		return nextMonthly(now, s)
	case FrequencyIntervalHours:
		return nextInterval(now, s)
	case FrequencyCron:
		return nextCron(now, s)
	case FrequencyDaily:
		return nextDaily(now, s)
	default:
		// 未知频率按每天处理，计划照常运转
		return nextDaily(now, s)
	}
}

func nextDaily(now time.Time, s Settings) time.Time {
	candidate := atMinutes(now, s.TimeMinutes)
	if !candidate.After(now) {
		candidate = atMinutes(now.AddDate(0, 0, 1), s.TimeMinutes)
	}
	return candidate
}

func nextWeekly(now time.Time, s Settings) time.Time {
	// 从今天起逐天扫描，今天只有时刻还在未来才算数
	for offset := 0; offset < 8; offset++ {
		day := now.AddDate(0, 0, offset)
		if s.WeekdayMask&(1<<uint(day.Weekday())) == 0 {
			continue
		}
		candidate := atMinutes(day, s.TimeMinutes)
		if candidate.After(now) {
			return candidate
		}
	}
	// 掩码非零时 7 天内必有命中，这里不可达
	return atMinutes(now.AddDate(0, 0, 7), s.TimeMinutes)
}

func nextMonthly(now time.Time, s Settings) time.Time {
	// 目标日超过当月天数时回退到月末，例如 2 月请求 31 号
	day := s.DayOfMonth
	if last := lastDayOfMonth(now); day > last {
		day = last
	}
	candidate := atMinutes(time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location()), s.TimeMinutes)
	if candidate.After(now) {
		return candidate
	}

	nextMonth := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	day = s.DayOfMonth
	if last := lastDayOfMonth(nextMonth); day > last {
		day = last
	}
	return atMinutes(time.Date(nextMonth.Year(), nextMonth.Month(), day, 0, 0, 0, 0, now.Location()), s.TimeMinutes)
}

func nextCron(now time.Time, s Settings) time.Time {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(s.CronExpr)
	if err != nil {
		// 表达式解析失败时退回每天执行，计划照常运转
		return nextDaily(now, s)
	}
	return schedule.Next(now)
}

func nextInterval(now time.Time, s Settings) time.Time {
	// 以当前整点为基准加间隔，结果总是严格在未来
	anchor := now.Truncate(time.Hour)
	return anchor.Add(time.Duration(s.IntervalHours) * time.Hour)
}
