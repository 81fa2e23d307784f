package parser

import (
	"reflect"
	"testing"
	"time"

	"oresync/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize_WeekExpansion(t *testing.T) {
	entries := []model.RawWeeklyEntry{
		{
			Sheet:     "Foglio1",
			Row:       2,
			WeekRange: "03/03/2025 al 09/03/2025",
			LaborCode: "I112 - SYS - SA/RC",
			Author:    "Pietro Fava",
			DayHours:  [7]string{"4", "0", "3.5", "", "", "", ""},
		},
	}
	laborMap := model.LaborCodeMap{"I112 - SYS - SA/RC": "23WP030 Sa-Rc"}

	records, skips := Normalize(entries, laborMap, Options{})
	if len(skips) != 0 {
		t.Fatalf("unexpected skips: %v", skips)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %v", len(records), records)
	}

	// 周一 4 小时
	r := records[0]
	if !r.Date.Equal(date(2025, 3, 3)) || r.PersonKey != "fava" || r.Hours != 4 {
		t.Fatalf("record 0 mismatch: %+v", r)
	}
	if r.JoinedCodes() != "23WP030 Sa-Rc" {
		t.Fatalf("record 0 codes mismatch: %q", r.JoinedCodes())
	}

	// 周三 3.5 小时 (周二为 0, 不产生记录)
	r = records[1]
	if !r.Date.Equal(date(2025, 3, 5)) || r.PersonKey != "fava" || r.Hours != 3.5 {
		t.Fatalf("record 1 mismatch: %+v", r)
	}
}

func TestNormalize_ZeroBlankNeutrality(t *testing.T) {
	entries := []model.RawWeeklyEntry{
		{
			WeekRange: "03/03/2025 al 09/03/2025",
			LaborCode: "X",
			Author:    "Pietro Fava",
			DayHours:  [7]string{"0", "", "   ", " ", "n/a", "-1", ""},
		},
	}

	records, skips := Normalize(entries, model.LaborCodeMap{}, Options{})
	if len(records) != 0 {
		t.Fatalf("expected no records, got %v", records)
	}
	if len(skips) != 0 {
		t.Fatalf("expected no skips, got %v", skips)
	}
}

func TestNormalize_SkipMalformedRows(t *testing.T) {
	entries := []model.RawWeeklyEntry{
		{Sheet: "A", Row: 2, WeekRange: "senza delimitatore", Author: "X Y", DayHours: [7]string{"1"}},
		{Sheet: "A", Row: 3, WeekRange: "boh al 09/03/2025", Author: "X Y", DayHours: [7]string{"1"}},
		{Sheet: "A", Row: 4, WeekRange: "03/03/2025 al 09/03/2025", LaborCode: "C", Author: "X Y", DayHours: [7]string{"1"}},
	}

	records, skips := Normalize(entries, model.LaborCodeMap{}, Options{})
	if len(skips) != 2 {
		t.Fatalf("expected 2 skips, got %v", skips)
	}
	if skips[0].Row != 2 || skips[1].Row != 3 {
		t.Fatalf("skip rows mismatch: %v", skips)
	}
	// 坏行不影响后续行
	if len(records) != 1 || records[0].Hours != 1 {
		t.Fatalf("expected 1 record from the good row, got %v", records)
	}
}

func TestNormalize_MappingFallback(t *testing.T) {
	entries := []model.RawWeeklyEntry{
		{WeekRange: "03/03/2025 al 09/03/2025", LaborCode: "SCONOSCIUTO", Author: "A B", DayHours: [7]string{"2"}},
	}

	records, _ := Normalize(entries, model.LaborCodeMap{"ALTRO": "X"}, Options{})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %v", records)
	}
	// 未命中映射: 原样透传
	if records[0].JoinedCodes() != "SCONOSCIUTO" {
		t.Fatalf("expected identity fallback, got %q", records[0].JoinedCodes())
	}
}

func TestNormalize_CaseInsensitivePerson(t *testing.T) {
	entries := []model.RawWeeklyEntry{
		{WeekRange: "03/03/2025 al 09/03/2025", LaborCode: "C1", Author: "Maria Rossi", DayHours: [7]string{"4"}},
		{WeekRange: "03/03/2025 al 09/03/2025", LaborCode: "C2", Author: "MARIA ROSSI", DayHours: [7]string{"2"}},
	}

	records, _ := Normalize(entries, model.LaborCodeMap{}, Options{})
	if len(records) != 1 {
		t.Fatalf("expected aggregation into one record, got %v", records)
	}

	r := records[0]
	if r.PersonKey != "rossi" || r.Hours != 6 {
		t.Fatalf("aggregate mismatch: %+v", r)
	}
	// commessa 并集去重并排序
	if r.JoinedCodes() != "C1; C2" {
		t.Fatalf("codes join mismatch: %q", r.JoinedCodes())
	}
}

func TestNormalize_PermutationInvariance(t *testing.T) {
	base := []model.RawWeeklyEntry{
		{WeekRange: "03/03/2025 al 09/03/2025", LaborCode: "B", Author: "Pietro Fava", DayHours: [7]string{"4", "", "3.5"}},
		{WeekRange: "03/03/2025 al 09/03/2025", LaborCode: "A", Author: "pietro FAVA", DayHours: [7]string{"1"}},
		{WeekRange: "10/03/2025 al 16/03/2025", LaborCode: "A", Author: "Maria Rossi", DayHours: [7]string{"", "8"}},
		{WeekRange: "03/03/2025 al 09/03/2025", LaborCode: "B", Author: "Maria Rossi", DayHours: [7]string{"2"}},
	}
	laborMap := model.LaborCodeMap{"A": "Alfa"}

	want, _ := Normalize(base, laborMap, Options{})

	perms := [][]int{
		{3, 2, 1, 0},
		{1, 3, 0, 2},
		{2, 0, 3, 1},
	}
	for _, perm := range perms {
		shuffled := make([]model.RawWeeklyEntry, len(base))
		for i, j := range perm {
			shuffled[i] = base[j]
		}
		got, _ := Normalize(shuffled, laborMap, Options{})
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("output depends on input order:\nperm %v\ngot  %+v\nwant %+v", perm, got, want)
		}
	}
}

func TestNormalize_SumAcrossRows(t *testing.T) {
	// 同一 (日期, 人) 的多行贡献: 工时精确求和
	entries := []model.RawWeeklyEntry{
		{WeekRange: "03/03/2025 al 09/03/2025", LaborCode: "C", Author: "A B", DayHours: [7]string{"1.5"}},
		{WeekRange: "03/03/2025 al 09/03/2025", LaborCode: "C", Author: "A B", DayHours: [7]string{"2.5"}},
	}

	records, _ := Normalize(entries, model.LaborCodeMap{}, Options{})
	if len(records) != 1 || records[0].Hours != 4 {
		t.Fatalf("expected single record with 4 hours, got %v", records)
	}
	// 同一 commessa 不重复
	if records[0].JoinedCodes() != "C" {
		t.Fatalf("expected deduplicated code, got %q", records[0].JoinedCodes())
	}
}
