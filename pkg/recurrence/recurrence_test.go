package recurrence

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var loc = time.FixedZone("CST", 8*60*60)

func date(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func TestNextRunDaily(t *testing.T) {
	s := Settings{Frequency: FrequencyDaily, TimeMinutes: 2 * 60}

	// 时刻还在今天未来
	// Slot still ahead today
	got := NextRun(date(2024, 3, 11, 1, 0), s)
	want := date(2024, 3, 11, 2, 0)
	if !got.Equal(want) {
		t.Errorf("NextRun() = %v, want %v", got, want)
	}

	// 时刻已过，推进到明天
	// Slot already passed, advance one day
	got = NextRun(date(2024, 3, 11, 3, 0), s)
	want = date(2024, 3, 12, 2, 0)
	if !got.Equal(want) {
		t.Errorf("NextRun() = %v, want %v", got, want)
	}

	// 恰好等于当前时刻视为已过去
	// Exactly-now counts as elapsed
	got = NextRun(date(2024, 3, 11, 2, 0), s)
	want = date(2024, 3, 12, 2, 0)
	if !got.Equal(want) {
		t.Errorf("NextRun() = %v, want %v", got, want)
	}
}

func TestNextRunWeekly(t *testing.T) {
	// 周二 + 周四，21:00
	mask := (1 << int(time.Tuesday)) | (1 << int(time.Thursday))
	s := Settings{Frequency: FrequencyWeekly, TimeMinutes: 21 * 60, WeekdayMask: mask}

	// 2024-03-11 是周一
	got := NextRun(date(2024, 3, 11, 22, 0), s)
	want := date(2024, 3, 12, 21, 0)
	if !got.Equal(want) {
		t.Errorf("from Monday 22:00: NextRun() = %v, want %v", got, want)
	}

	// 周二 22:00，本日时刻已过，跳到周四
	got = NextRun(date(2024, 3, 12, 22, 0), s)
	want = date(2024, 3, 14, 21, 0)
	if !got.Equal(want) {
		t.Errorf("from Tuesday 22:00: NextRun() = %v, want %v", got, want)
	}

	// 周二 20:00，本日时刻还在未来
	got = NextRun(date(2024, 3, 12, 20, 0), s)
	want = date(2024, 3, 12, 21, 0)
	if !got.Equal(want) {
		t.Errorf("from Tuesday 20:00: NextRun() = %v, want %v", got, want)
	}
}

func TestNextRunWeeklyZeroMaskMeansEveryDay(t *testing.T) {
	s := Settings{Frequency: FrequencyWeekly, TimeMinutes: 10 * 60, WeekdayMask: 0}

	got := NextRun(date(2024, 3, 11, 9, 0), s)
	want := date(2024, 3, 11, 10, 0)
	if !got.Equal(want) {
		t.Errorf("NextRun() = %v, want %v", got, want)
	}
}

func TestNextRunMonthlyOverflowFallsBackToLastDay(t *testing.T) {
	s := Settings{Frequency: FrequencyMonthly, TimeMinutes: 9*60 + 30, DayOfMonth: 31}

	// 2 月没有 31 号，回退到 2 月末
	got := NextRun(date(2023, 2, 27, 12, 0), s)
	want := date(2023, 2, 28, 9, 30)
	if !got.Equal(want) {
		t.Errorf("from Feb 27: NextRun() = %v, want %v", got, want)
	}

	// 2 月末时刻已过，下个月 31 号存在
	got = NextRun(date(2023, 2, 28, 12, 0), s)
	want = date(2023, 3, 31, 9, 30)
	if !got.Equal(want) {
		t.Errorf("from Feb 28: NextRun() = %v, want %v", got, want)
	}
}

func TestNextRunMonthlyLeapFebruary(t *testing.T) {
	s := Settings{Frequency: FrequencyMonthly, TimeMinutes: 0, DayOfMonth: 30}

	got := NextRun(date(2024, 2, 10, 0, 0), s)
	want := date(2024, 2, 29, 0, 0)
	if !got.Equal(want) {
		t.Errorf("NextRun() = %v, want %v", got, want)
	}
}

func TestNextRunIntervalClamps(t *testing.T) {
	now := date(2024, 3, 11, 10, 30)

	// 0 钳制为 1 小时
	got := NextRun(now, Settings{Frequency: FrequencyIntervalHours, IntervalHours: 0})
	want := date(2024, 3, 11, 11, 0)
	if !got.Equal(want) {
		t.Errorf("interval 0: NextRun() = %v, want %v", got, want)
	}

	// 200 钳制为 168 小时（7 天）
	got = NextRun(now, Settings{Frequency: FrequencyIntervalHours, IntervalHours: 200})
	want = date(2024, 3, 18, 10, 0)
	if !got.Equal(want) {
		t.Errorf("interval 200: NextRun() = %v, want %v", got, want)
	}
}

func TestNextRunCron(t *testing.T) {
	now := date(2024, 3, 18, 10, 0) // 周一

	// 工作日凌晨 3:30
	got := NextRun(now, Settings{Frequency: FrequencyCron, CronExpr: "30 3 * * 1-5"})
	want := date(2024, 3, 19, 3, 30)
	if !got.Equal(want) {
		t.Errorf("cron weekday: NextRun() = %v, want %v", got, want)
	}

	// 当天时刻还在未来时选当天
	got = NextRun(now, Settings{Frequency: FrequencyCron, CronExpr: "0 22 * * *"})
	want = date(2024, 3, 18, 22, 0)
	if !got.Equal(want) {
		t.Errorf("cron same day: NextRun() = %v, want %v", got, want)
	}
}

func TestNextRunCronInvalidExprFallsBackToDaily(t *testing.T) {
	now := date(2024, 3, 18, 10, 0)

	got := NextRun(now, Settings{Frequency: FrequencyCron, CronExpr: "not a cron", TimeMinutes: 12 * 60})
	want := date(2024, 3, 18, 12, 0)
	if !got.Equal(want) {
		t.Errorf("cron invalid: NextRun() = %v, want %v", got, want)
	}
}

// 任意输入下结果必须严格晚于 now
// For any clamped input the result is strictly after now
func TestNextRunAlwaysStrictlyFuture(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	frequencies := []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyIntervalHours}

	properties.Property("next run is strictly after now", prop.ForAll(
		func(unixSec int64, freqIdx int, timeMinutes int, mask int, dayOfMonth int, intervalHours int) bool {
			now := time.Unix(unixSec, 0).In(loc)
			s := Settings{
				Frequency:     frequencies[freqIdx],
				TimeMinutes:   timeMinutes,
				WeekdayMask:   mask,
				DayOfMonth:    dayOfMonth,
				IntervalHours: intervalHours,
			}
			return NextRun(now, s).After(now)
		},
		gen.Int64Range(0, 4102444800), // 1970 ~ 2100
		gen.IntRange(0, 3),
		gen.IntRange(-100, 2000),
		gen.IntRange(-1, 512),
		gen.IntRange(-5, 40),
		gen.IntRange(-10, 400),
	))

	properties.TestingRun(t)
}
