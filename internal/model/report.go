package model

import "time"

// SheetResult 单个周报 sheet 的读取结果
type SheetResult struct {
	SheetName   string   `json:"sheetName"`
	Status      string   `json:"status"` // read/skipped/error
	RowsRead    int      `json:"rowsRead"`
	Errors      []string `json:"errors,omitempty"`
}

// RunReport 一次同步运行的汇总报告
type RunReport struct {
	RunID            string        `json:"runId"`
	TimesheetFile    string        `json:"timesheetFile"`
	MappingFile      string        `json:"mappingFile"`
	LedgerFile       string        `json:"ledgerFile"`
	TotalSheets      int           `json:"totalSheets"`
	RowsRead         int           `json:"rowsRead"`
	RowsSkipped      int           `json:"rowsSkipped"`
	Records          int           `json:"records"`          // 聚合后的按日记录数
	MatchedSheets    int           `json:"matchedSheets"`    // 台账中命中的姓氏分区数
	UpdatedSlots     int           `json:"updatedSlots"`     // 被覆盖的台账行数
	UnmatchedRecords int           `json:"unmatchedRecords"` // 台账中无对应日期行而被丢弃的记录数
	Duration         time.Duration `json:"duration"`
	Sheets           []SheetResult `json:"sheets"`
	Skips            []SkipNote    `json:"skips,omitempty"`
}
