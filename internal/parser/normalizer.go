package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"oresync/internal/model"
)

// Options 规范化选项
type Options struct {
	Delimiter   string   // 周区间分隔符, 默认 " al "
	DateLayouts []string // 日期候选格式, 默认 DefaultDateLayouts
}

func (o Options) withDefaults() Options {
	if o.Delimiter == "" {
		o.Delimiter = WeekRangeDelimiter
	}
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = DefaultDateLayouts
	}
	return o
}

type aggKey struct {
	date   time.Time
	person string
}

type aggState struct {
	codes map[string]struct{}
	hours float64
}

// Normalize 把周报行展开成按日记录并按 (日期, 个人键) 聚合
//
// 单行出错只记入 SkipNote, 不中断整体处理; 行内 0/空白/无法解析的
// 工时不产生记录。聚合对输入行顺序不敏感: commessa 取去重排序并集,
// 工时取精确求和, 输出按 (日期, 个人键) 排序。
func Normalize(entries []model.RawWeeklyEntry, laborMap model.LaborCodeMap, opts Options) ([]model.DailyRecord, []model.SkipNote) {
	opts = opts.withDefaults()

	agg := make(map[aggKey]*aggState)
	var skips []model.SkipNote

	for _, e := range entries {
		startStr, ok := SplitWeekRange(e.WeekRange, opts.Delimiter)
		if !ok {
			skips = append(skips, model.SkipNote{
				Sheet:  e.Sheet,
				Row:    e.Row,
				Reason: fmt.Sprintf("WeekRange 缺少分隔符 %q: %q", opts.Delimiter, e.WeekRange),
			})
			continue
		}

		start, err := ParseDayFirstDate(startStr, opts.DateLayouts)
		if err != nil {
			skips = append(skips, model.SkipNote{
				Sheet:  e.Sheet,
				Row:    e.Row,
				Reason: fmt.Sprintf("周起始日期解析失败 %q: %v", startStr, err),
			})
			continue
		}

		code := laborMap.Resolve(strings.TrimSpace(e.LaborCode))
		person := PersonKey(e.Author)

		for offset, raw := range e.DayHours {
			hours := CoerceHours(raw)
			if hours == 0 {
				continue
			}
			key := aggKey{date: start.AddDate(0, 0, offset), person: person}
			st := agg[key]
			if st == nil {
				st = &aggState{codes: make(map[string]struct{})}
				agg[key] = st
			}
			st.codes[code] = struct{}{}
			st.hours += hours
		}
	}

	records := make([]model.DailyRecord, 0, len(agg))
	for key, st := range agg {
		codes := make([]string, 0, len(st.codes))
		for c := range st.codes {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		records = append(records, model.DailyRecord{
			Date:      key.date,
			PersonKey: key.person,
			Codes:     codes,
			Hours:     st.hours,
		})
	}

	// 输出定序, 保证结果与输入行排列无关
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].PersonKey < records[j].PersonKey
	})

	return records, skips
}
