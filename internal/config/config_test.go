package config_test

import (
	"testing"

	"github.com/okian/calibra/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.Generator, convey.ShouldEqual, config.GeneratorTemplate)
			convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-2.5-pro")
			convey.So(cfg.GenerationTimeoutMS, convey.ShouldEqual, 20_000)
			convey.So(cfg.SessionLockCapacity, convey.ShouldEqual, 50_000)
		})
	})
}
