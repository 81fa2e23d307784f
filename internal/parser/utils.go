package parser

import (
	"strconv"
	"strings"
	"time"
)

// WeekRangeDelimiter 周区间分隔符 (意大利语 "al" = 至)
const WeekRangeDelimiter = " al "

// DefaultWeekdayLabels 周列标签 (意大利语), 下标即相对周一的日偏移
var DefaultWeekdayLabels = []string{
	"Lunedì",    // 周一
	"Martedì",   // 周二
	"Mercoledì", // 周三
	"Giovedì",   // 周四
	"Venerdì",   // 周五
	"Sabato",    // 周六
	"Domenica",  // 周日
}

// DefaultDateLayouts 周起始日期的候选格式, 日在前
var DefaultDateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"2006-01-02",
}

// SplitWeekRange 按分隔符拆出周起始日期子串
// 分隔符缺失时返回 false
func SplitWeekRange(s, delim string) (string, bool) {
	s = strings.TrimSpace(s)
	if delim == "" {
		delim = WeekRangeDelimiter
	}
	idx := strings.Index(s, delim)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(s[:idx]), true
}

// ParseDayFirstDate 按日在前的候选格式解析日期, 结果取 UTC 零点
func ParseDayFirstDate(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// PersonKey 从 Autore 全名提取个人键: 取最后一个空白分隔词 (姓氏) 并小写
// 空名返回哨兵 "unknown"
func PersonKey(author string) string {
	fields := strings.Fields(author)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[len(fields)-1])
}

// CoerceHours 把工时单元格文本转成数值
// 去除不间断空格和普通空白; 空白、无法解析或负值一律按 0 处理
func CoerceHours(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// 意大利地区导出常用逗号作小数点
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
