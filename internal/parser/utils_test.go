package parser

import (
	"testing"
	"time"
)

func TestSplitWeekRange(t *testing.T) {
	for _, tc := range []struct {
		in    string
		want  string
		found bool
	}{
		{"03/03/2025 al 09/03/2025", "03/03/2025", true},
		{"  10/02/2025 al 16/02/2025  ", "10/02/2025", true},
		{"03/03/2025 - 09/03/2025", "", false},
		{"", "", false},
	} {
		got, found := SplitWeekRange(tc.in, " al ")
		if found != tc.found || got != tc.want {
			t.Fatalf("SplitWeekRange(%q) = (%q, %v), want (%q, %v)", tc.in, got, found, tc.want, tc.found)
		}
	}
}

func TestParseDayFirstDate(t *testing.T) {
	want := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"03/03/2025",
		"3/3/2025",
		"03-03-2025",
		"2025-03-03",
	} {
		got, err := ParseDayFirstDate(in, nil)
		if err != nil {
			t.Fatalf("ParseDayFirstDate(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDayFirstDate(%q) = %v, want %v", in, got, want)
		}
	}

	// 日在前: 05/03 是 3 月 5 日而不是 5 月 3 日
	got, err := ParseDayFirstDate("05/03/2025", nil)
	if err != nil {
		t.Fatalf("parse 05/03/2025: %v", err)
	}
	if got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("expected 2025-03-05, got %v", got)
	}

	if _, err := ParseDayFirstDate("non una data", nil); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestPersonKey(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"Pietro Fava", "fava"},
		{"MARIA ROSSI", "rossi"},
		{"  Giovanni  De Luca ", "luca"},
		{"Cher", "cher"},
		{"", "unknown"},
		{"   ", "unknown"},
	} {
		if got := PersonKey(tc.in); got != tc.want {
			t.Fatalf("PersonKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCoerceHours(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want float64
	}{
		{"4", 4},
		{"3.5", 3.5},
		{"3,5", 3.5}, // 意大利小数点
		{" 4 ", 4},
		{"  8  ", 8},
		{"", 0},
		{"   ", 0},
		{"0", 0},
		{"n/a", 0},
		{"-2", 0}, // 负值按无效处理
	} {
		if got := CoerceHours(tc.in); got != tc.want {
			t.Fatalf("CoerceHours(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
