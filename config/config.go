package config

import (
	"os"
	"strconv"
)

// Config 是 HTTP 服务的运行配置，全部来自环境变量。
type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int // 秒
	WriteTimeout int // 秒
	DBPath       string
	// BodyLimit 是请求体上限（字节），为 0 时使用 fiber 默认值。
	BodyLimit int
	// MaxClicks 限制请求中 num_clicks 与 long_click_interval 的取值，为 0 时使用 DefaultMaxClicks。
	MaxClicks int
}

// DefaultMaxClicks 是 MaxClicks 的默认值。
const DefaultMaxClicks = 10000

// Load 从环境变量加载配置。
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		DBPath:       getEnv("CYLSCALE_DB_PATH", "data/presets.db"),
		BodyLimit:    getEnvAsInt("BODY_LIMIT", 8*1024*1024),
		MaxClicks:    getEnvAsInt("MAX_CLICKS", DefaultMaxClicks),
	}
}

// IsProduction 报告是否运行在生产环境。
func (c *Config) IsProduction() bool { return c.Environment == "production" }

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
