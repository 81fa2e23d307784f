package store

import (
	"database/sql"
	"fmt"
	"time"

	"oresync/internal/model"
)

// RunSummary 一次同步运行的落库视图
type RunSummary struct {
	ID               string     `json:"id"`
	TimesheetFile    string     `json:"timesheetFile"`
	MappingFile      string     `json:"mappingFile"`
	LedgerFile       string     `json:"ledgerFile"`
	TotalSheets      int        `json:"totalSheets"`
	RowsRead         int        `json:"rowsRead"`
	RowsSkipped      int        `json:"rowsSkipped"`
	Records          int        `json:"records"`
	MatchedSheets    int        `json:"matchedSheets"`
	UpdatedSlots     int        `json:"updatedSlots"`
	UnmatchedRecords int        `json:"unmatchedRecords"`
	Status           string     `json:"status"` // processing/ok/empty/error
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// CreateRun 创建运行记录, 状态 processing
func (s *Store) CreateRun(id, timesheetFile, mappingFile, ledgerFile string) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_runs (id, timesheet_file, mapping_file, ledger_file, status)
		VALUES (?, ?, ?, ?, 'processing')
	`, id, timesheetFile, mappingFile, ledgerFile)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun 完成运行记录更新
func (s *Store) FinishRun(id string, report *model.RunReport, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE sync_runs SET
			total_sheets = ?,
			rows_read = ?,
			rows_skipped = ?,
			records = ?,
			matched_sheets = ?,
			updated_slots = ?,
			unmatched_records = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, report.TotalSheets, report.RowsRead, report.RowsSkipped, report.Records,
		report.MatchedSheets, report.UpdatedSlots, report.UnmatchedRecords,
		status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// AddSkipNotes 批量写入跳过行明细
func (s *Store) AddSkipNotes(runID string, notes []model.SkipNote) error {
	if len(notes) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO skip_notes (run_id, sheet, row_num, reason) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range notes {
		if _, err := stmt.Exec(runID, n.Sheet, n.Row, n.Reason); err != nil {
			return fmt.Errorf("failed to insert skip note: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns 按开始时间倒序列出运行记录
func (s *Store) ListRuns(limit int) ([]*RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, timesheet_file, mapping_file, ledger_file,
		       total_sheets, rows_read, rows_skipped, records,
		       matched_sheets, updated_slots, unmatched_records,
		       status, error_message, started_at, completed_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunSummary
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// GetRun 读取单条运行记录及其跳过行明细
func (s *Store) GetRun(id string) (*RunSummary, []model.SkipNote, error) {
	row := s.db.QueryRow(`
		SELECT id, timesheet_file, mapping_file, ledger_file,
		       total_sheets, rows_read, rows_skipped, records,
		       matched_sheets, updated_slots, unmatched_records,
		       status, error_message, started_at, completed_at
		FROM sync_runs
		WHERE id = ?
	`, id)

	r, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	noteRows, err := s.db.Query(`
		SELECT sheet, row_num, reason FROM skip_notes WHERE run_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query skip notes: %w", err)
	}
	defer noteRows.Close()

	var notes []model.SkipNote
	for noteRows.Next() {
		var n model.SkipNote
		if err := noteRows.Scan(&n.Sheet, &n.Row, &n.Reason); err != nil {
			return nil, nil, fmt.Errorf("failed to scan skip note: %w", err)
		}
		notes = append(notes, n)
	}

	return r, notes, noteRows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*RunSummary, error) {
	var r RunSummary
	var completedAt sql.NullTime
	err := row.Scan(
		&r.ID, &r.TimesheetFile, &r.MappingFile, &r.LedgerFile,
		&r.TotalSheets, &r.RowsRead, &r.RowsSkipped, &r.Records,
		&r.MatchedSheets, &r.UpdatedSlots, &r.UnmatchedRecords,
		&r.Status, &r.ErrorMessage, &r.StartedAt, &completedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}
