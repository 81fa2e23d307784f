package model

import (
	"strings"
	"time"
)

// WeekdayCount 一周的工时列数 (Lunedì..Domenica)
const WeekdayCount = 7

// RawWeeklyEntry 周报原始行
// 一行对应一个人一周的工时, 七个按天列按周一起始顺序排列
type RawWeeklyEntry struct {
	Sheet     string                // 来源 sheet 名
	Row       int                   // Excel 行号 (1 起始)
	WeekRange string                // 形如 "03/03/2025 al 09/03/2025"
	LaborCode string                // Codice Commessa; 列缺失时读取方已用 sheet 名兜底
	Author    string                // Autore 全名
	DayHours  [WeekdayCount]string  // 周一..周日 的原始单元格文本 (可能含不间断空格)
}

// LaborCodeMap 工号映射 (原始编码 -> 规范名称)
type LaborCodeMap map[string]string

// Resolve 查映射; 未命中时原样返回 (恒等兜底)
func (m LaborCodeMap) Resolve(raw string) string {
	if v, ok := m[raw]; ok {
		return v
	}
	return raw
}

// DailyRecord 聚合后的按日记录
// 对固定 (Date, PersonKey) 聚合后全局唯一
type DailyRecord struct {
	Date      time.Time `json:"date"`      // 仅日期部分 (UTC 零点)
	PersonKey string    `json:"personKey"` // 姓氏小写
	Codes     []string  `json:"codes"`     // 去重并排序后的 commessa 列表
	Hours     float64   `json:"hours"`     // 该人该日的工时合计
}

// JoinedCodes 以 "; " 连接 commessa 列表, 写入台账的最终文本
func (r *DailyRecord) JoinedCodes() string {
	return strings.Join(r.Codes, "; ")
}

// DateKey 日期的规范键 (yyyy-mm-dd)
func (r *DailyRecord) DateKey() string {
	return r.Date.Format("2006-01-02")
}

// SkipNote 被跳过行的诊断信息
type SkipNote struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
