package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "test-secret-key-for-unit-testing"},
		Attendance: AttendanceConfig{
			Timezone:  "Asia/Shanghai",
			SweepCron: "0 19 * * *",
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("期望校验通过，实际: %v", err)
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Error("期望 jwt_secret 过短时校验失败")
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("期望端口越界时校验失败")
	}
}

func TestValidate_BadTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Attendance.Timezone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Error("期望无效时区校验失败")
	}
}

func TestValidate_BadCron(t *testing.T) {
	cfg := validConfig()
	cfg.Attendance.SweepCron = "every evening"
	if err := cfg.Validate(); err == nil {
		t.Error("期望无效 cron 表达式校验失败")
	}
}

func TestLoad_FromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
auth:
  jwt_secret: file-secret-0123456789
attendance:
  timezone: UTC
  sweep_cron: "30 18 * * *"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	t.Setenv("ATTEND_DB_NAME", "from_env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望 port=9090，实际=%d", cfg.Server.Port)
	}
	if cfg.Database.Name != "from_env" {
		t.Errorf("期望环境变量覆盖 db.name，实际=%s", cfg.Database.Name)
	}
	if cfg.Attendance.SweepCron != "30 18 * * *" {
		t.Errorf("期望 sweep_cron 来自配置文件，实际=%s", cfg.Attendance.SweepCron)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("期望 redis.addr 使用默认值，实际=%s", cfg.Redis.Addr)
	}
}
