package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/calibra/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.Generator, convey.ShouldEqual, config.GeneratorTemplate)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CALIBRA_ADDR", ":8080")
			_ = os.Setenv("CALIBRA_STORE", "sqlite")
			_ = os.Setenv("CALIBRA_SQLITE_PATH", "/tmp/calibra-test.db")
			_ = os.Setenv("CALIBRA_LOG_LEVEL", "debug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreSQLite)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/calibra-test.db")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When the store backend is unknown", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CALIBRA_STORE", "etcd")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading should fail with an invalid config error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the gemini generator is selected without an API key", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CALIBRA_GENERATOR", "gemini")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"CALIBRA_CONFIG",
		"CALIBRA_ADDR",
		"CALIBRA_STORE",
		"CALIBRA_SQLITE_PATH",
		"CALIBRA_GENERATOR",
		"CALIBRA_GEMINI_API_KEY",
		"CALIBRA_GEMINI_MODEL",
		"CALIBRA_LOG_LEVEL",
		"CALIBRA_GENERATION_TIMEOUT_MS",
		"CALIBRA_SESSION_LOCK_CAPACITY",
	} {
		_ = os.Unsetenv(key)
	}
}
