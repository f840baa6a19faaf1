package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ByLCY/cylscale/layout"
	"github.com/ByLCY/cylscale/records"
	"github.com/ByLCY/cylscale/settings"
)

// 描述刻度输入的公共参数，由 export/preview/scene/preset save 共用。
type inputFlags struct {
	settingsPath string
	recordsPath  string
	sheet        string
	skipInvalid  bool
	bindTitle    bool
	diameter     string
	tape         string
	overrides    []string
}

var input inputFlags

func (f *inputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.settingsPath, "settings", "s", "", "settings JSON file (defaults when empty)")
	fs.StringVarP(&f.recordsPath, "records", "r", "", "record file: text (number<TAB>U/Doffset per line) or .xlsx")
	fs.StringVar(&f.sheet, "sheet", "", "worksheet name for .xlsx records (first sheet when empty)")
	fs.BoolVar(&f.skipInvalid, "skip-invalid", false, "skip malformed record lines instead of failing")
	fs.BoolVar(&f.bindTitle, "bind", false, "expand ${key} placeholders in the title from parameter values")
	fs.StringVar(&f.diameter, "diameter", "", "cylinder diameter with unit, e.g. 32mm or 1.25in")
	fs.StringVar(&f.tape, "tape", "", "tape thickness with unit, e.g. 0.13mm or 0.005in")
	fs.StringArrayVar(&f.overrides, "set", nil, "override a parameter by settings key, e.g. --set num_clicks=48")
}

func (f *inputFlags) reset() { *f = inputFlags{} }

func (f *inputFlags) sceneOptions(debug bool) settings.SceneOptions {
	return settings.SceneOptions{SkipInvalid: f.skipInvalid, DebugPlacement: debug, BindTitle: f.bindTitle}
}

// loadDocument 依次应用设置文件、记录文件、长度参数与 --set 覆盖。
func (f *inputFlags) loadDocument() (*settings.Document, error) {
	doc := settings.New()
	if f.settingsPath != "" {
		loaded, err := settings.Load(f.settingsPath)
		if err != nil {
			return nil, err
		}
		doc = loaded
		logger.Debug("settings loaded", "path", f.settingsPath)
	}

	if f.recordsPath != "" {
		text, err := f.readRecords()
		if err != nil {
			return nil, err
		}
		doc.CSVData = text
	}

	for _, l := range []struct {
		flag, value string
		dst         *float64
	}{
		{"diameter", f.diameter, &doc.CylinderDiameterInches},
		{"tape", f.tape, &doc.TapeThicknessInches},
	} {
		if l.value == "" {
			continue
		}
		length, err := layout.ParseLength(l.value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", l.flag, err)
		}
		*l.dst = length.ToIN()
		logger.Debug("length override", "flag", l.flag, "value", length.String(), "inches", *l.dst)
	}

	if err := applyOverrides(doc, f.overrides); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// readRecords 读取记录文件；xlsx 被转换为文本形式以便保存在设置中。
func (f *inputFlags) readRecords() (string, error) {
	if strings.EqualFold(filepath.Ext(f.recordsPath), ".xlsx") {
		recs, skipped, err := records.ReadWorkbook(f.recordsPath, f.sheet, records.ParseOptions{SkipInvalid: f.skipInvalid})
		if err != nil {
			return "", err
		}
		reportSkipped(skipped)
		logger.Debug("workbook records loaded", "path", f.recordsPath, "count", len(recs))
		return records.Format(recs), nil
	}
	data, err := os.ReadFile(f.recordsPath)
	if err != nil {
		return "", fmt.Errorf("读取记录文件 %s 失败: %w", f.recordsPath, err)
	}
	return string(data), nil
}

// applyOverrides 按设置文件的键名覆盖参数。字符串参数按原文赋值，其余先按 JSON 解析。
func applyOverrides(doc *settings.Document, overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	current, err := settings.Encode(doc)
	if err != nil {
		return err
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(current, &known); err != nil {
		return err
	}

	patch := map[string]any{}
	for _, o := range overrides {
		key, raw, ok := strings.Cut(o, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("--set %q 应为 key=value 形式", o)
		}
		cur, exists := known[key]
		stringKey := key == "csv_data" || key == "pdf_filename" || (exists && len(cur) > 0 && cur[0] == '"')
		if !exists && !stringKey {
			return fmt.Errorf("--set: 未知参数 %s", key)
		}
		var v any = raw
		if !stringKey {
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				v = raw
			}
		}
		patch[key] = v
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("--set: %w", err)
	}
	return nil
}

// writeOutput 写文件；path 为 "-" 时写到标准输出。
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

func reportSkipped(skipped []*records.ParseError) {
	for _, s := range skipped {
		logger.Warn("record skipped", "line", s.Line, "field", s.Field, "reason", s.Reason)
	}
}
