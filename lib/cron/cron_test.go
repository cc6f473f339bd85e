// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"strings"
	"testing"
	"time"
)

func mustParse(t *testing.T, expression string) Schedule {
	t.Helper()
	schedule, err := Parse(expression)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expression, err)
	}
	return schedule
}

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestParseValid(t *testing.T) {
	expressions := []string{
		"* * * * *",
		"0 7 * * *",
		"*/15 0-6 1,15 * 1-5",
		"30 3 * * 0",
		"30 3 * * 7",
		"0 0 1 1 *",
		"5,10,15 * * * *",
		"0-30/5 * * * *",
	}
	for _, expression := range expressions {
		t.Run(expression, func(t *testing.T) {
			if _, err := Parse(expression); err != nil {
				t.Errorf("Parse(%q) = %v, want nil", expression, err)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    string
	}{
		{"too_few_fields", "* * * *", "expected 5 fields"},
		{"too_many_fields", "* * * * * *", "expected 5 fields"},
		{"empty", "", "expected 5 fields"},
		{"minute_out_of_range", "60 * * * *", "out of range"},
		{"hour_out_of_range", "* 24 * * *", "out of range"},
		{"day_zero", "* * 0 * *", "out of range"},
		{"day_out_of_range", "* * 32 * *", "out of range"},
		{"month_zero", "* * * 0 *", "out of range"},
		{"month_out_of_range", "* * * 13 *", "out of range"},
		{"dow_out_of_range", "* * * * 8", "out of range"},
		{"zero_step", "*/0 * * * *", "step must be positive"},
		{"bad_range", "5-3 * * * *", "range start 5 > end 3"},
		{"non_numeric", "abc * * * *", "invalid value"},
		{"bad_step_value", "*/x * * * *", "invalid step"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.expression)
			if err == nil {
				t.Fatalf("Parse(%q) = nil, want error containing %q", test.expression, test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Parse(%q) = %q, want error containing %q", test.expression, err, test.wantErr)
			}
		})
	}
}

func TestNextEveryMinute(t *testing.T) {
	schedule := mustParse(t, "* * * * *")
	from := utc(2026, 2, 18, 10, 30)
	next, err := schedule.Next(from)
	if err != nil {
		t.Fatal(err)
	}
	want := utc(2026, 2, 18, 10, 31)
	if !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestNextDailyDigestHour(t *testing.T) {
	schedule := mustParse(t, "0 7 * * *")

	// Before 7am → same day.
	next, err := schedule.Next(utc(2026, 2, 18, 5, 0))
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, 2, 18, 7, 0); !next.Equal(want) {
		t.Errorf("before 7am: Next = %v, want %v", next, want)
	}

	// After 7am → next day.
	next, err = schedule.Next(utc(2026, 2, 18, 8, 0))
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, 2, 19, 7, 0); !next.Equal(want) {
		t.Errorf("after 7am: Next = %v, want %v", next, want)
	}

	// Exactly at 7:00 → next day (strictly after).
	next, err = schedule.Next(utc(2026, 2, 18, 7, 0))
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, 2, 19, 7, 0); !next.Equal(want) {
		t.Errorf("at 7am: Next = %v, want %v", next, want)
	}
}

func TestNextEvery15Minutes(t *testing.T) {
	schedule := mustParse(t, "*/15 * * * *")

	tests := []struct {
		from time.Time
		want time.Time
	}{
		{utc(2026, 2, 18, 10, 0), utc(2026, 2, 18, 10, 15)},
		{utc(2026, 2, 18, 10, 14), utc(2026, 2, 18, 10, 15)},
		{utc(2026, 2, 18, 10, 15), utc(2026, 2, 18, 10, 30)},
		{utc(2026, 2, 18, 10, 46), utc(2026, 2, 18, 11, 0)},
		{utc(2026, 2, 18, 23, 50), utc(2026, 2, 19, 0, 0)},
	}

	for _, test := range tests {
		next, err := schedule.Next(test.from)
		if err != nil {
			t.Fatalf("Next(%v): %v", test.from, err)
		}
		if !next.Equal(test.want) {
			t.Errorf("Next(%v) = %v, want %v", test.from, next, test.want)
		}
	}
}

func TestNextWeekdaysOnly(t *testing.T) {
	// Monday through Friday at 9am.
	schedule := mustParse(t, "0 9 * * 1-5")

	// Feb 20 2026 is Friday; from Friday 10am the next match is Monday.
	next, err := schedule.Next(utc(2026, 2, 20, 10, 0))
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, 2, 23, 9, 0); !next.Equal(want) {
		t.Errorf("Next = %v (weekday=%v), want %v", next, next.Weekday(), want)
	}
}

func TestNextSundayAsSeven(t *testing.T) {
	// 7 in the day-of-week field means Sunday, same as 0.
	fromSeven := mustParse(t, "0 3 * * 7")
	fromZero := mustParse(t, "0 3 * * 0")

	// Feb 18 2026 is Wednesday; next Sunday is Feb 22.
	start := utc(2026, 2, 18, 0, 0)
	want := utc(2026, 2, 22, 3, 0)

	for name, schedule := range map[string]Schedule{"seven": fromSeven, "zero": fromZero} {
		next, err := schedule.Next(start)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !next.Equal(want) {
			t.Errorf("%s: Next = %v (weekday=%v), want %v", name, next, next.Weekday(), want)
		}
	}
}

func TestNextSpecificDayOfMonth(t *testing.T) {
	schedule := mustParse(t, "0 12 15 * *")

	next, err := schedule.Next(utc(2026, 2, 16, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, 3, 15, 12, 0); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestNextYearRollover(t *testing.T) {
	schedule := mustParse(t, "0 0 1 1 *")

	next, err := schedule.Next(utc(2026, 6, 1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2027, 1, 1, 0, 0); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestNextLeapYear(t *testing.T) {
	schedule := mustParse(t, "0 0 29 2 *")

	// 2027 is not a leap year; the next Feb 29 after mid-2026 is 2028.
	next, err := schedule.Next(utc(2026, 6, 1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2028, 2, 29, 0, 0); !next.Equal(want) {
		t.Errorf("Next Feb 29 = %v, want %v", next, want)
	}
}

func TestNextWithSubMinutePrecision(t *testing.T) {
	// When t has seconds or nanoseconds, Next should still return
	// the correct next minute boundary.
	schedule := mustParse(t, "0 * * * *")

	from := utc(2026, 2, 18, 10, 59).Add(30 * time.Second)
	next, err := schedule.Next(from)
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, 2, 18, 11, 0); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestMultipleConsecutiveNext(t *testing.T) {
	// Calling Next repeatedly walks the schedule forward.
	schedule := mustParse(t, "0 */6 * * *")

	cursor := utc(2026, 2, 18, 0, 0)
	expected := []time.Time{
		utc(2026, 2, 18, 6, 0),
		utc(2026, 2, 18, 12, 0),
		utc(2026, 2, 18, 18, 0),
		utc(2026, 2, 19, 0, 0),
		utc(2026, 2, 19, 6, 0),
	}

	for i, want := range expected {
		next, err := schedule.Next(cursor)
		if err != nil {
			t.Fatalf("Next #%d from %v: %v", i, cursor, err)
		}
		if !next.Equal(want) {
			t.Errorf("Next #%d = %v, want %v", i, next, want)
		}
		cursor = next
	}
}

func TestParseFieldEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		field string
		min   int
		max   int
		want  []int
	}{
		{"single", "5", 0, 59, []int{5}},
		{"range", "1-3", 0, 59, []int{1, 2, 3}},
		{"list", "1,3,5", 0, 59, []int{1, 3, 5}},
		{"star", "*", 0, 5, []int{0, 1, 2, 3, 4, 5}},
		{"star_step", "*/2", 0, 5, []int{0, 2, 4}},
		{"range_step", "1-10/3", 0, 59, []int{1, 4, 7, 10}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bits, err := parseField(test.field, test.min, test.max)
			if err != nil {
				t.Fatalf("parseField(%q, %d, %d) = %v", test.field, test.min, test.max, err)
			}
			for _, value := range test.want {
				if !bits.has(value) {
					t.Errorf("parseField(%q): missing value %d", test.field, value)
				}
			}
			// Verify no extra values are set.
			count := 0
			for value := test.min; value <= test.max; value++ {
				if bits.has(value) {
					count++
				}
			}
			if count != len(test.want) {
				t.Errorf("parseField(%q): got %d values, want %d", test.field, count, len(test.want))
			}
		})
	}
}
