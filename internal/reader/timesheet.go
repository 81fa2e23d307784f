package reader

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"oresync/internal/model"
	"oresync/internal/parser"
)

// 周报固定列名
const (
	ColWeekRange = "WeekRange"
	ColLaborCode = "Codice Commessa"
	ColAuthor    = "Autore"
)

// Config 周报读取配置
type Config struct {
	WeekdayLabels []string // 按日偏移顺序的周列标签, 默认意大利语
}

func (c Config) withDefaults() Config {
	if len(c.WeekdayLabels) == 0 {
		c.WeekdayLabels = parser.DefaultWeekdayLabels
	}
	return c
}

// ReadTimesheetFile 打开并读取周报工作簿的全部 sheet
func ReadTimesheetFile(path string, cfg Config) ([]model.RawWeeklyEntry, []model.SheetResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("打开周报文件失败: %w", err)
	}
	defer f.Close()

	entries, sheets := ReadTimesheet(f, cfg)
	return entries, sheets, nil
}

// ReadTimesheet 读取已打开工作簿的全部 sheet
//
// 某个 sheet 没有 "Codice Commessa" 列时, 该 sheet 的所有行用 sheet 名
// 作为兜底编码; 短行和整行空白按无数据跳过, 不产生诊断。
func ReadTimesheet(f *excelize.File, cfg Config) ([]model.RawWeeklyEntry, []model.SheetResult) {
	cfg = cfg.withDefaults()

	var entries []model.RawWeeklyEntry
	var results []model.SheetResult

	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			results = append(results, model.SheetResult{
				SheetName: sheetName,
				Status:    "error",
				Errors:    []string{fmt.Sprintf("读取 sheet 失败: %v", err)},
			})
			continue
		}
		if len(rows) <= 1 {
			results = append(results, model.SheetResult{
				SheetName: sheetName,
				Status:    "skipped",
			})
			continue
		}

		// 列名 -> 列下标
		colIndex := make(map[string]int)
		for i, col := range rows[0] {
			colIndex[strings.TrimSpace(col)] = i
		}

		idxWeek, hasWeek := colIndex[ColWeekRange]
		idxAuthor, hasAuthor := colIndex[ColAuthor]
		idxCode, hasCode := colIndex[ColLaborCode]
		if !hasWeek && !hasAuthor {
			// 表头完全不像周报, 整个 sheet 跳过
			results = append(results, model.SheetResult{
				SheetName: sheetName,
				Status:    "skipped",
			})
			continue
		}

		// 周列下标, 缺失的列记 -1
		dayIdx := make([]int, model.WeekdayCount)
		for offset := range dayIdx {
			dayIdx[offset] = -1
			if offset < len(cfg.WeekdayLabels) {
				if idx, ok := colIndex[cfg.WeekdayLabels[offset]]; ok {
					dayIdx[offset] = idx
				}
			}
		}

		read := 0
		for i, row := range rows[1:] {
			e := model.RawWeeklyEntry{
				Sheet:     sheetName,
				Row:       i + 2,
				LaborCode: sheetName, // 兜底: sheet 名即编码
			}
			if hasWeek {
				e.WeekRange = getCell(row, idxWeek)
			}
			if hasAuthor {
				e.Author = getCell(row, idxAuthor)
			}
			if hasCode {
				if v := getCell(row, idxCode); v != "" {
					e.LaborCode = v
				}
			}
			for offset, idx := range dayIdx {
				e.DayHours[offset] = getCellRaw(row, idx)
			}

			if e.WeekRange == "" && e.Author == "" {
				continue // 空白行
			}
			entries = append(entries, e)
			read++
		}

		results = append(results, model.SheetResult{
			SheetName: sheetName,
			Status:    "read",
			RowsRead:  read,
		})
	}

	return entries, results
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// getCellRaw 不做 trim, 工时列的空白语义交给 CoerceHours 统一处理
func getCellRaw(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
