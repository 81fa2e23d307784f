package store

import (
	"path/filepath"
	"testing"

	"oresync/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "oresync.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRunLifecycle(t *testing.T) {
	st := newTestStore(t)

	if err := st.CreateRun("run-1", "timesheet.xlsx", "mapping.xlsx", "ledger.xlsx"); err != nil {
		t.Fatalf("create run: %v", err)
	}

	report := &model.RunReport{
		TotalSheets:      2,
		RowsRead:         10,
		RowsSkipped:      1,
		Records:          7,
		MatchedSheets:    3,
		UpdatedSlots:     6,
		UnmatchedRecords: 1,
		Skips: []model.SkipNote{
			{Sheet: "Foglio1", Row: 5, Reason: "WeekRange 缺少分隔符"},
		},
	}
	if err := st.FinishRun("run-1", report, "ok", ""); err != nil {
		t.Fatalf("finish run: %v", err)
	}
	if err := st.AddSkipNotes("run-1", report.Skips); err != nil {
		t.Fatalf("add skip notes: %v", err)
	}

	run, notes, err := st.GetRun("run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run == nil {
		t.Fatal("run not found")
	}
	if run.Status != "ok" || run.UpdatedSlots != 6 || run.RowsSkipped != 1 {
		t.Fatalf("run fields mismatch: %+v", run)
	}
	if run.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}
	if len(notes) != 1 || notes[0].Row != 5 {
		t.Fatalf("skip notes mismatch: %v", notes)
	}
}

func TestListRuns_Order(t *testing.T) {
	st := newTestStore(t)

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		if err := st.CreateRun(id, "t.xlsx", "m.xlsx", "l.xlsx"); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	runs, err := st.ListRuns(2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}

func TestGetRun_Missing(t *testing.T) {
	st := newTestStore(t)

	run, notes, err := st.GetRun("inesistente")
	if err != nil {
		t.Fatalf("get missing run: %v", err)
	}
	if run != nil || notes != nil {
		t.Fatalf("expected nil for missing run, got %+v %v", run, notes)
	}
}
