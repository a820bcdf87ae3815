package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/skillhive/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"SKILLHIVE_CONFIG",
	"SKILLHIVE_ADDR",
	"SKILLHIVE_LOG_LEVEL",
	"SKILLHIVE_STORE_DRIVER",
	"SKILLHIVE_STORE_DSN",
	"SKILLHIVE_RECOMMEND_LIMIT",
	"SKILLHIVE_RECOMMEND_RANK_BY_STRENGTH",
	"SKILLHIVE_TEAMMATE_LIMIT",
	"SKILLHIVE_FETCH_TIMEOUT_MS",
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func writeConfigFile(dir, content string) string {
	path := filepath.Join(dir, "skillhive.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		panic(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)
				convey.So(cfg.RecommendLimit, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SKILLHIVE_ADDR", ":8080")
			_ = os.Setenv("SKILLHIVE_RECOMMEND_LIMIT", "3")
			_ = os.Setenv("SKILLHIVE_RECOMMEND_RANK_BY_STRENGTH", "true")
			_ = os.Setenv("SKILLHIVE_TEAMMATE_LIMIT", "10")
			_ = os.Setenv("SKILLHIVE_STORE_DRIVER", "sqlite")
			_ = os.Setenv("SKILLHIVE_STORE_DSN", "file:test.db")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RecommendLimit, convey.ShouldEqual, 3)
				convey.So(cfg.RecommendRankByStrength, convey.ShouldBeTrue)
				convey.So(cfg.TeammateLimit, convey.ShouldEqual, 10)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.StoreDSN, convey.ShouldEqual, "file:test.db")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfigFile(t.TempDir(), `
addr: ":9090"
log_level: debug
recommend_limit: 4
fetch_timeout_ms: 1500
`)
			_ = os.Setenv("SKILLHIVE_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.RecommendLimit, convey.ShouldEqual, 4)
				convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 1500)
			})

			convey.Convey("And env vars take precedence over the file", func() {
				_ = os.Setenv("SKILLHIVE_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.RecommendLimit, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("SKILLHIVE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the resulting config is invalid", func() {
			_ = os.Setenv("SKILLHIVE_STORE_DRIVER", "postgres")

			_, err := config.Load(ctx)

			convey.Convey("Then a validation error is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
