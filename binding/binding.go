// Package binding 展开标题等文本中的 ${...} 占位符。
//
// 占位符写作 ${path|filter|filter}：path 用点号和方括号下标在数据中取值，
// filter 依次作用在取到的值上。取值失败或过滤器未知时占位符原样保留。
package binding

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const mmPerInch = 25.4

// Template 是解析后的模板，可对不同数据重复执行。
type Template struct {
	parts []part
}

type part struct {
	literal string
	expr    *expr
}

type expr struct {
	raw     string
	steps   []step
	filters []filter
}

// step 是路径中的一级：对象键或数组下标。
type step struct {
	key   string
	index int
	isIdx bool
}

type filter struct {
	name string
	arg  int
}

// Parse 解析模板文本。未闭合的 ${ 按字面文本处理。
func Parse(text string) *Template {
	t := &Template{}
	rest := text
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			break
		}
		end += start
		if start > 0 {
			t.parts = append(t.parts, part{literal: rest[:start]})
		}
		raw := rest[start : end+1]
		if e, ok := parseExpr(raw, rest[start+2:end]); ok {
			t.parts = append(t.parts, part{expr: e})
		} else {
			t.parts = append(t.parts, part{literal: raw})
		}
		rest = rest[end+1:]
	}
	if rest != "" {
		t.parts = append(t.parts, part{literal: rest})
	}
	return t
}

// Execute 用 data 展开模板。
func (t *Template) Execute(data any) string {
	var sb strings.Builder
	for _, p := range t.parts {
		if p.expr == nil {
			sb.WriteString(p.literal)
			continue
		}
		sb.WriteString(p.expr.eval(data))
	}
	return sb.String()
}

// Interpolate 将文本中的占位符替换为 data 中的值；data 为 nil 时原样返回。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return Parse(text).Execute(data)
}

// Data 把可 JSON 序列化的值（例如参数结构体）转成按 JSON 字段名取值的通用形式。
func Data(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("序列化绑定数据失败: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("解析绑定数据失败: %w", err)
	}
	return out, nil
}

func parseExpr(raw, body string) (*expr, bool) {
	fields := strings.Split(body, "|")
	path := strings.TrimSpace(fields[0])
	if path == "" {
		return nil, false
	}
	steps, ok := parsePath(path)
	if !ok {
		return nil, false
	}
	e := &expr{raw: raw, steps: steps}
	for _, f := range fields[1:] {
		flt, ok := parseFilter(strings.TrimSpace(f))
		if !ok {
			return nil, false
		}
		e.filters = append(e.filters, flt)
	}
	return e, true
}

// parsePath 解析 a.b[0][1].c 形式的路径。
func parsePath(path string) ([]step, bool) {
	var steps []step
	for _, seg := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(seg, "[")
		if name == "" && rest == "" {
			return nil, false
		}
		if name != "" {
			steps = append(steps, step{key: name})
		}
		if rest == "" && !strings.Contains(seg, "[") {
			continue
		}
		rest = "[" + rest
		for rest != "" {
			if rest[0] != '[' {
				return nil, false
			}
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: idx, isIdx: true})
			rest = rest[end+1:]
		}
	}
	return steps, len(steps) > 0
}

// 支持的过滤器：mm（英寸转毫米）、pt（英寸转磅）、upper、lower、round:N。
func parseFilter(s string) (filter, bool) {
	name, arg, hasArg := strings.Cut(s, ":")
	switch name {
	case "mm", "pt", "upper", "lower":
		return filter{name: name}, !hasArg
	case "round":
		if !hasArg {
			return filter{name: name}, true
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return filter{}, false
		}
		return filter{name: name, arg: n}, true
	}
	return filter{}, false
}

func (e *expr) eval(data any) string {
	cur := data
	for _, s := range e.steps {
		var ok bool
		if cur, ok = s.descend(cur); !ok {
			return e.raw
		}
	}
	for _, f := range e.filters {
		var ok bool
		if cur, ok = f.apply(cur); !ok {
			return e.raw
		}
	}
	return format(cur)
}

func (s step) descend(cur any) (any, bool) {
	if s.isIdx {
		arr, ok := cur.([]any)
		if !ok || s.index < 0 || s.index >= len(arr) {
			return nil, false
		}
		return arr[s.index], true
	}
	switch m := cur.(type) {
	case map[string]any:
		v, ok := m[s.key]
		return v, ok
	case map[string]string:
		v, ok := m[s.key]
		return v, ok
	}
	return nil, false
}

func (f filter) apply(v any) (any, bool) {
	switch f.name {
	case "upper", "lower":
		str, ok := v.(string)
		if !ok {
			str = format(v)
		}
		if f.name == "upper" {
			return strings.ToUpper(str), true
		}
		return strings.ToLower(str), true
	}
	n, ok := v.(float64)
	if !ok {
		return nil, false
	}
	switch f.name {
	case "mm":
		return n * mmPerInch, true
	case "pt":
		return n * 72, true
	case "round":
		scale := math.Pow(10, float64(f.arg))
		return math.Floor(n*scale+0.5) / scale, true
	}
	return nil, false
}

func format(val any) string {
	switch v := val.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
