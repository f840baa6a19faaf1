// Package settings 读写刻度设置文件：全部布局参数、内嵌的记录文本与输出文件名。
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/cylscale/layout"
	"github.com/ByLCY/cylscale/records"
)

// DefaultFilename 是未指定 pdf_filename 时的输出文件名。
const DefaultFilename = "cylinder_scale.pdf"

// Document 是设置文件的内容。参数字段与 layout.ParameterSet 的 JSON 键平铺在同一层。
type Document struct {
	layout.ParameterSet
	CSVData     string `json:"csv_data,omitempty"`
	PDFFilename string `json:"pdf_filename,omitempty"`
}

// New 返回使用默认参数与示例记录的设置。
func New() *Document {
	return &Document{
		ParameterSet: layout.Defaults(),
		CSVData:      records.SampleText,
		PDFFilename:  DefaultFilename,
	}
}

// Decode 解析设置 JSON。缺失的键取默认值，未知的键被忽略。
func Decode(data []byte) (*Document, error) {
	doc := &Document{ParameterSet: layout.Defaults()}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("解析设置失败: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load 读取并解析设置文件。
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取设置文件 %s 失败: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode 以两空格缩进输出设置 JSON。
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("设置为空")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化设置失败: %w", err)
	}
	return data, nil
}

// Save 将设置写入 path，必要时创建目录。
func Save(doc *Document, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入设置文件 %s 失败: %w", path, err)
	}
	return nil
}

// Records 解析内嵌的记录文本，遇到错误行即返回。
func (d *Document) Records() ([]layout.PlotRecord, error) {
	return records.ParseString(d.CSVData)
}

// OutputFilename 返回输出文件名，保证以 .pdf 结尾。
func (d *Document) OutputFilename() string {
	name := strings.TrimSpace(d.PDFFilename)
	if name == "" {
		return DefaultFilename
	}
	if !strings.HasSuffix(name, ".pdf") {
		name += ".pdf"
	}
	return name
}
