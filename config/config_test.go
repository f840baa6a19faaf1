package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "READ_TIMEOUT", "WRITE_TIMEOUT", "CYLSCALE_DB_PATH", "BODY_LIMIT", "MAX_CLICKS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "3000" || cfg.Environment != "development" || cfg.ReadTimeout != 10 || cfg.WriteTimeout != 10 {
		t.Fatalf("默认配置错误: %+v", cfg)
	}
	if cfg.DBPath != "data/presets.db" || cfg.IsProduction() || cfg.MaxClicks != DefaultMaxClicks {
		t.Fatalf("默认配置错误: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("READ_TIMEOUT", "30")
	t.Setenv("WRITE_TIMEOUT", "not-a-number")
	t.Setenv("CYLSCALE_DB_PATH", "/tmp/x.db")
	t.Setenv("MAX_CLICKS", "500")
	cfg := Load()
	if cfg.Port != "8080" || !cfg.IsProduction() || cfg.ReadTimeout != 30 || cfg.DBPath != "/tmp/x.db" {
		t.Fatalf("环境变量未生效: %+v", cfg)
	}
	if cfg.MaxClicks != 500 {
		t.Fatalf("MAX_CLICKS 未生效: %d", cfg.MaxClicks)
	}
	if cfg.WriteTimeout != 10 {
		t.Fatalf("无效整数应回退默认值，得到 %d", cfg.WriteTimeout)
	}
}
