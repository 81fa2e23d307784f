package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"oresync/internal/config"
	"oresync/internal/model"
	"oresync/internal/parser"
	"oresync/internal/reader"
	"oresync/internal/store"
	"oresync/internal/updater"
)

// ErrNoRecords 周报中没有任何有效行, 台账未被触碰
// 独立于成功与失败的第三种终态, 调用方据此避免误报成功
var ErrNoRecords = errors.New("no daily records to apply")

// Coordinator 同步协调器
// 串联 映射表 -> 周报规范化 -> 台账覆盖 的完整流水线
type Coordinator struct {
	store *store.Store // 可为 nil (不记历史)
	cfg   *config.AppConfig
}

// NewCoordinator 创建同步协调器
func NewCoordinator(st *store.Store, cfg *config.AppConfig) *Coordinator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Coordinator{
		store: st,
		cfg:   cfg,
	}
}

// Options 同步选项
type Options struct {
	RunID         string // 为空时自动生成
	TimesheetPath string // 周报文件
	MappingPath   string // 映射表文件
	LedgerPath    string // 台账文件 (就地更新)
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/info/warning/done/empty/error
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Run 执行同步, 返回进度通道
func (c *Coordinator) Run(opts Options) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doRun(opts, progressChan)
	}()

	return progressChan
}

// RunSync 同步执行, 不发进度事件
// 返回的报告在 ErrNoRecords 场景下依然有效
func (c *Coordinator) RunSync(opts Options) (*model.RunReport, error) {
	return c.doRun(opts, nil)
}

// doRun 执行同步逻辑
func (c *Coordinator) doRun(opts Options, progressChan chan ProgressEvent) (*model.RunReport, error) {
	startTime := time.Now()

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	report := &model.RunReport{
		RunID:         opts.RunID,
		TimesheetFile: filepath.Base(opts.TimesheetPath),
		MappingFile:   filepath.Base(opts.MappingPath),
		LedgerFile:    filepath.Base(opts.LedgerPath),
	}

	if c.store != nil {
		if err := c.store.CreateRun(opts.RunID, report.TimesheetFile, report.MappingFile, report.LedgerFile); err != nil {
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "warning",
				Message:   fmt.Sprintf("创建运行记录失败: %v", err),
				Timestamp: time.Now(),
			})
		}
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "start",
		Message: "开始同步周报到台账",
		Data: map[string]string{
			"timesheet": report.TimesheetFile,
			"mapping":   report.MappingFile,
			"ledger":    report.LedgerFile,
		},
		Timestamp: time.Now(),
	})

	// 读取映射表
	laborMap, err := reader.ReadLaborCodeMapFile(opts.MappingPath)
	if err != nil {
		return c.fail(opts, report, progressChan, fmt.Errorf("读取映射表失败: %w", err))
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "info",
		Message:   fmt.Sprintf("映射表加载完成: %d 条", len(laborMap)),
		Timestamp: time.Now(),
	})

	// 读取周报
	entries, sheetResults, err := reader.ReadTimesheetFile(opts.TimesheetPath, reader.Config{
		WeekdayLabels: c.cfg.Locale.WeekdayLabels,
	})
	if err != nil {
		return c.fail(opts, report, progressChan, fmt.Errorf("读取周报失败: %w", err))
	}

	report.Sheets = sheetResults
	report.TotalSheets = len(sheetResults)
	report.RowsRead = len(entries)

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("周报读取完成: %d 个 sheet, %d 行", report.TotalSheets, report.RowsRead),
		Data: map[string]interface{}{
			"total_sheets": report.TotalSheets,
			"rows_read":    report.RowsRead,
		},
		Timestamp: time.Now(),
	})

	// 规范化 + 聚合
	records, skips := parser.Normalize(entries, laborMap, parser.Options{
		Delimiter:   c.cfg.Locale.WeekRangeDelimiter,
		DateLayouts: c.cfg.Locale.DateLayouts,
	})
	report.Records = len(records)
	report.RowsSkipped = len(skips)
	report.Skips = skips

	for _, n := range skips {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   fmt.Sprintf("跳过行 %s!%d: %s", n.Sheet, n.Row, n.Reason),
			Timestamp: time.Now(),
		})
	}

	if len(records) == 0 {
		report.Duration = time.Since(startTime)
		c.finishStore(opts, report, "empty", "")
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "empty",
			Message:   "没有任何有效的按日记录, 台账未改动",
			Data:      report,
			Timestamp: time.Now(),
		})
		return report, ErrNoRecords
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "info",
		Message:   fmt.Sprintf("聚合完成: %d 条按日记录", len(records)),
		Timestamp: time.Now(),
	})

	// 就地覆盖台账
	result, err := updater.Update(opts.LedgerPath, records, updater.Config{
		HeaderRows:  c.cfg.Ledger.HeaderRows,
		DateColumn:  c.cfg.Ledger.DateColumn,
		CodesColumn: c.cfg.Ledger.CodesColumn,
		HoursColumn: c.cfg.Ledger.HoursColumn,
		DateLayouts: c.cfg.Locale.DateLayouts,
	})
	if err != nil {
		return c.fail(opts, report, progressChan, fmt.Errorf("更新台账失败: %w", err))
	}

	report.MatchedSheets = result.MatchedSheets
	report.UpdatedSlots = result.UpdatedSlots
	report.UnmatchedRecords = result.UnmatchedRecords
	report.Duration = time.Since(startTime)

	c.finishStore(opts, report, "ok", "")

	c.sendProgress(progressChan, ProgressEvent{
		Type: "done",
		Message: fmt.Sprintf("同步完成: 命中 %d 个分区, 覆盖 %d 行, 丢弃 %d 条无对应行的记录",
			result.MatchedSheets, result.UpdatedSlots, result.UnmatchedRecords),
		Data:      report,
		Timestamp: time.Now(),
	})

	return report, nil
}

// fail 结构性失败: 记历史、发事件、原样上抛
func (c *Coordinator) fail(opts Options, report *model.RunReport, progressChan chan ProgressEvent, err error) (*model.RunReport, error) {
	c.finishStore(opts, report, "error", err.Error())
	c.sendProgress(progressChan, ProgressEvent{
		Type:      "error",
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
	return report, err
}

func (c *Coordinator) finishStore(opts Options, report *model.RunReport, status, errMsg string) {
	if c.store == nil {
		return
	}
	if err := c.store.FinishRun(opts.RunID, report, status, errMsg); err != nil {
		return
	}
	_ = c.store.AddSkipNotes(opts.RunID, report.Skips)
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- event:
	default:
		// 通道已满, 丢弃事件
	}
}
