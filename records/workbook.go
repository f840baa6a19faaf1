package records

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ByLCY/cylscale/layout"
)

// ReadWorkbook 从 xlsx 文件读取记录。A 列为数值，B 列为方向+偏移。
// sheet 为空时读取第一个工作表。
func ReadWorkbook(path, sheet string, opts ParseOptions) ([]layout.PlotRecord, []*ParseError, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("打开工作簿 %s 失败: %w", path, err)
	}
	defer f.Close()
	return readSheet(f, sheet, opts)
}

// ReadWorkbookFrom 与 ReadWorkbook 相同，但从内存中的 xlsx 数据读取。
func ReadWorkbookFrom(r io.Reader, sheet string, opts ParseOptions) ([]layout.PlotRecord, []*ParseError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("打开工作簿失败: %w", err)
	}
	defer f.Close()
	return readSheet(f, sheet, opts)
}

func readSheet(f *excelize.File, sheet string, opts ParseOptions) ([]layout.PlotRecord, []*ParseError, error) {
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, nil, fmt.Errorf("工作簿中没有工作表")
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("读取工作表 %s 失败: %w", sheet, err)
	}

	var (
		recs    []layout.PlotRecord
		skipped []*ParseError
	)
	for rowIdx, row := range rows {
		// 只取 A、B 两列，空单元格保持原位。
		var cells [2]string
		for i := 0; i < len(cells) && i < len(row); i++ {
			cells[i] = strings.TrimSpace(row[i])
		}
		if cells[0] == "" || cells[1] == "" {
			if cells[0] != "" || cells[1] != "" {
				perr := &ParseError{Line: rowIdx + 1, Raw: strings.Join(row, "\t"), Field: missingField(cells), Reason: "A、B 两列必须同时填写"}
				if !opts.SkipInvalid {
					return nil, nil, perr
				}
				skipped = append(skipped, perr)
			}
			continue
		}
		rec, ok, perr := parseLine(rowIdx+1, cells[0]+"\t"+cells[1])
		if perr != nil {
			if !opts.SkipInvalid {
				return nil, nil, perr
			}
			skipped = append(skipped, perr)
			continue
		}
		if ok {
			recs = append(recs, rec)
		}
	}
	return recs, skipped, nil
}

func missingField(cells [2]string) string {
	if cells[0] == "" {
		return FieldNumber
	}
	return FieldDirection
}
