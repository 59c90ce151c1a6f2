package locale

import (
	"errors"
	"testing"
	"time"
)

func kolkata(t *testing.T) *Locale {
	t.Helper()
	l, err := Load("Asia/Kolkata")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return l
}

func TestParseDate(t *testing.T) {
	l := kolkata(t)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "calendar date", input: "2025-06-01", want: "2025-06-01"},
		{name: "utc timestamp late evening is next local day", input: "2025-06-01T20:00:00Z", want: "2025-06-02"},
		{name: "local timestamp", input: "2025-06-01T10:15:00+05:30", want: "2025-06-01"},
		{name: "padded", input: " 2025-06-01 ", want: "2025-06-01"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "01/06/2025", wantErr: true},
		{name: "invalid day", input: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if l.Format(got) != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, l.Format(got), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("ParseDate(%q) is not midnight: %v", tt.input, got)
			}
		})
	}
}

func TestDay_IsStableAcrossInstants(t *testing.T) {
	l := kolkata(t)
	morning := time.Date(2025, 6, 2, 0, 5, 0, 0, l.Location())
	night := time.Date(2025, 6, 2, 23, 55, 0, 0, l.Location())

	if !l.Day(morning).Equal(l.Day(night)) {
		t.Errorf("Day() differs within the same local date: %v vs %v", l.Day(morning), l.Day(night))
	}
}

func TestIsPastAndToday(t *testing.T) {
	l := kolkata(t)
	now := time.Date(2025, 6, 2, 18, 30, 0, 0, l.Location())

	yesterday, _ := l.ParseDate("2025-06-01")
	today, _ := l.ParseDate("2025-06-02")
	tomorrow, _ := l.ParseDate("2025-06-03")

	if !l.IsPast(yesterday, now) {
		t.Errorf("yesterday should be past")
	}
	if l.IsPast(today, now) {
		t.Errorf("today should not be past")
	}
	if !l.IsToday(today, now) || l.IsToday(tomorrow, now) {
		t.Errorf("IsToday() mismatch")
	}
	if l.Hour(now) != 18 {
		t.Errorf("Hour() = %d, want 18", l.Hour(now))
	}
}

func TestStartOfWeekAndMonth(t *testing.T) {
	l := kolkata(t)
	// Thursday
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, l.Location())

	if got := l.Format(l.StartOfWeek(now)); got != "2025-06-01" {
		t.Errorf("StartOfWeek() = %s, want 2025-06-01", got)
	}
	if got := l.Format(l.StartOfMonth(now)); got != "2025-06-01" {
		t.Errorf("StartOfMonth() = %s, want 2025-06-01", got)
	}
	sunday := time.Date(2025, 6, 8, 23, 0, 0, 0, l.Location())
	if got := l.Format(l.StartOfWeek(sunday)); got != "2025-06-08" {
		t.Errorf("StartOfWeek(sunday) = %s, want 2025-06-08", got)
	}
	saturday := time.Date(2025, 6, 7, 0, 30, 0, 0, l.Location())
	if got := l.Format(l.StartOfWeek(saturday)); got != "2025-06-01" {
		t.Errorf("StartOfWeek(saturday) = %s, want 2025-06-01", got)
	}
}

func TestMonthRange(t *testing.T) {
	l := kolkata(t)

	start, end, err := l.MonthRange(time.December, 2025)
	if err != nil {
		t.Fatalf("MonthRange() error = %v", err)
	}
	if l.Format(start) != "2025-12-01" || l.Format(end) != "2026-01-01" {
		t.Errorf("MonthRange() = [%s, %s)", l.Format(start), l.Format(end))
	}

	if _, _, err := l.MonthRange(13, 2025); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("MonthRange(13) error = %v, want ErrInvalidDate", err)
	}
}

func TestNextDay(t *testing.T) {
	l := kolkata(t)
	day, _ := l.ParseDate("2025-02-28")

	if got := l.Format(l.NextDay(day)); got != "2025-03-01" {
		t.Errorf("NextDay() = %s, want 2025-03-01", got)
	}
}
