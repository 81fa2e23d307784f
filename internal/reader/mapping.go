package reader

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"oresync/internal/model"
)

// ReadLaborCodeMapFile 打开并读取两列映射表
func ReadLaborCodeMapFile(path string) (model.LaborCodeMap, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开映射文件失败: %w", err)
	}
	defer f.Close()

	return ReadLaborCodeMap(f)
}

// ReadLaborCodeMap 从第一个 sheet 的前两列构建映射
// 首行视为表头; 键为空的行忽略
func ReadLaborCodeMap(f *excelize.File) (model.LaborCodeMap, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("映射文件没有任何 sheet")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取映射 sheet 失败: %w", err)
	}

	m := make(model.LaborCodeMap)
	for i, row := range rows {
		if i == 0 {
			continue // 表头
		}
		key := getCell(row, 0)
		if key == "" {
			continue
		}
		m[key] = getCell(row, 1)
	}

	return m, nil
}
