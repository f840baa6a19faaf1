package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体名称。
const (
	Regular = "regular"
	Bold    = "bold"
)

var builtin = map[string][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:bold" 或直接 "bold"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "embed:"))
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s（可用: %s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回全部内置字体名称。
func Names() []string { return []string{Regular, Bold} }
