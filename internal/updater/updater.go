package updater

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"oresync/internal/model"
	"oresync/internal/parser"
)

// Config 台账结构配置
// 台账工作簿每个 sheet 以姓氏命名, 固定三列: 日期 / commessa / ore
type Config struct {
	HeaderRows  int      // 表头行数, 默认 1
	DateColumn  string   // 日期列, 默认 "A"
	CodesColumn string   // commessa 列, 默认 "B"
	HoursColumn string   // ore 列, 默认 "C"
	DateLayouts []string // 日期单元格文本的候选格式
}

func (c Config) withDefaults() Config {
	if c.HeaderRows <= 0 {
		c.HeaderRows = 1
	}
	if c.DateColumn == "" {
		c.DateColumn = "A"
	}
	if c.CodesColumn == "" {
		c.CodesColumn = "B"
	}
	if c.HoursColumn == "" {
		c.HoursColumn = "C"
	}
	if len(c.DateLayouts) == 0 {
		c.DateLayouts = parser.DefaultDateLayouts
	}
	return c
}

// Result 更新结果统计
type Result struct {
	MatchedSheets    int `json:"matchedSheets"`    // 与某个个人键匹配的 sheet 数
	ScannedSlots     int `json:"scannedSlots"`     // 匹配分区内扫描过的行数
	UpdatedSlots     int `json:"updatedSlots"`     // 被覆盖的行数
	UnmatchedRecords int `json:"unmatchedRecords"` // 台账中无对应行而被丢弃的记录数
}

// Update 打开台账工作簿, 就地覆盖匹配行后一次性保存
//
// 保存只在全部修改进入内存工作簿后执行一次, 扫描中途出错不会留下
// 半更新状态的文件。
func Update(path string, records []model.DailyRecord, cfg Config) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开台账文件失败: %w", err)
	}
	defer f.Close()

	res, err := Apply(f, records, cfg)
	if err != nil {
		return nil, err
	}

	if err := f.Save(); err != nil {
		return nil, fmt.Errorf("保存台账失败: %w", err)
	}

	return res, nil
}

// Apply 对已打开的工作簿执行覆盖, 不保存 (提交时机由调用方控制)
//
// 强约束: 只改匹配行的 commessa/ore 两个单元格, 不新增行、不删行、
// 不调整顺序; 未匹配的 sheet、行与其余单元格 (含公式和格式) 原样保留。
// 未命中任何台账行的记录静默丢弃, 仅计入 UnmatchedRecords。
func Apply(f *excelize.File, records []model.DailyRecord, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()

	// 个人键 -> 日期键 -> 记录 (记录在聚合阶段已保证每 (日期, 人) 唯一)
	byPerson := make(map[string]map[string]model.DailyRecord)
	for _, r := range records {
		dates := byPerson[r.PersonKey]
		if dates == nil {
			dates = make(map[string]model.DailyRecord)
			byPerson[r.PersonKey] = dates
		}
		dates[r.DateKey()] = r
	}

	res := &Result{}
	matched := make(map[string]map[string]bool) // 命中统计: 个人键 -> 日期键

	for _, sheetName := range f.GetSheetList() {
		person := strings.ToLower(strings.TrimSpace(sheetName))
		dates, ok := byPerson[person]
		if !ok {
			continue // 该分区无记录, 整个 sheet 不碰
		}
		res.MatchedSheets++

		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("读取台账 sheet %s 失败: %w", sheetName, err)
		}

		for rowNum := cfg.HeaderRows + 1; rowNum <= len(rows); rowNum++ {
			res.ScannedSlots++

			date, ok := readDateCell(f, sheetName, cfg.DateColumn+strconv.Itoa(rowNum), cfg.DateLayouts)
			if !ok {
				continue
			}
			key := date.Format("2006-01-02")
			rec, ok := dates[key]
			if !ok {
				continue
			}

			if err := f.SetCellStr(sheetName, cfg.CodesColumn+strconv.Itoa(rowNum), rec.JoinedCodes()); err != nil {
				return nil, fmt.Errorf("写入 commessa 单元格失败 (%s 行 %d): %w", sheetName, rowNum, err)
			}
			if err := f.SetCellFloat(sheetName, cfg.HoursColumn+strconv.Itoa(rowNum), rec.Hours, -1, 64); err != nil {
				return nil, fmt.Errorf("写入 ore 单元格失败 (%s 行 %d): %w", sheetName, rowNum, err)
			}
			res.UpdatedSlots++

			if matched[person] == nil {
				matched[person] = make(map[string]bool)
			}
			matched[person][key] = true
		}
	}

	for _, r := range records {
		if !matched[r.PersonKey][r.DateKey()] {
			res.UnmatchedRecords++
		}
	}

	return res, nil
}

// readDateCell 把台账日期单元格强转成日期, 丢弃时分秒
// 依次尝试: 原始值按文本格式解析、原始值按 Excel 序列数解析、显示值按文本格式解析
func readDateCell(f *excelize.File, sheet, cell string, layouts []string) (time.Time, bool) {
	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err == nil {
		if t, perr := parser.ParseDayFirstDate(raw, layouts); perr == nil {
			return t, true
		}
		if serial, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64); perr == nil {
			if t, cerr := excelize.ExcelDateToTime(serial, false); cerr == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
			}
		}
	}

	shown, err := f.GetCellValue(sheet, cell)
	if err != nil {
		return time.Time{}, false
	}
	if t, perr := parser.ParseDayFirstDate(shown, layouts); perr == nil {
		return t, true
	}
	return time.Time{}, false
}
