package main

import (
	"context"
	"os"
	"testing"

	"github.com/okian/calibra/internal/adapters/http/api"
	app "github.com/okian/calibra/internal/app"
	"github.com/okian/calibra/internal/config"
	"github.com/okian/calibra/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("CALIBRA_ADDR", ":8080")
			_ = os.Setenv("CALIBRA_STORE", "sqlite")
			_ = os.Setenv("CALIBRA_SESSION_LOCK_CAPACITY", "1000")
			defer func() {
				_ = os.Unsetenv("CALIBRA_ADDR")
				_ = os.Unsetenv("CALIBRA_STORE")
				_ = os.Unsetenv("CALIBRA_SESSION_LOCK_CAPACITY")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreSQLite)
				convey.So(cfg.SessionLockCapacity, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithStoreKind(config.StoreMemory, ""),
					app.WithGeneratorKind(config.GeneratorTemplate, "", ""),
					app.WithLockCapacity(1000),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager()
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestSystemMetricsUpdate(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When updating system metrics once", func() {
			updateSystemMetrics()

			convey.Convey("Then the process keeps running", func() {
				convey.So(true, convey.ShouldBeTrue)
			})
		})
	})
}
