package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/enow/internal/app"
	"github.com/okian/enow/internal/config"
	"github.com/okian/enow/internal/sampledata"
	"github.com/okian/enow/pkg/logger"
	"github.com/okian/enow/pkg/metrics"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startedService(t *testing.T) (*service.Service, string) {
	t.Helper()
	dir := t.TempDir()
	nationalPath, statePath, err := sampledata.WriteFixtures(dir)
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	svc := service.New(
		service.WithNationalPath(nationalPath),
		service.WithStatePath(statePath),
		service.WithAssetsDir(filepath.Join(dir, "assets")),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc, statePath
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("ENOW_ADDR", ":8088")
			_ = os.Setenv("ENOW_DEFAULT_METRIC", "Output")
			defer func() {
				_ = os.Unsetenv("ENOW_ADDR")
				_ = os.Unsetenv("ENOW_DEFAULT_METRIC")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8088")
				convey.So(cfg.DefaultMetric, convey.ShouldEqual, "Output")
			})
		})

		convey.Convey("When the HTTP server is built", func() {
			srv := newHTTPServer(":0", http.NewServeMux())

			convey.Convey("Then the timeouts are set", func() {
				convey.So(srv.Addr, convey.ShouldEqual, ":0")
				convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
				convey.So(srv.IdleTimeout, convey.ShouldEqual, idleTimeout)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc, _ := startedService(t)
		mux, err := newMux(context.Background(), svc)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then pages, API and docs are all routed", func() {
			for _, target := range []string{
				"/", "/details", "/treemap", "/state",
				"/api/summary", "/api/breakdown?state=Texas",
				"/charts/bar.svg", "/api-docs", "/openapi.yaml",
				"/healthz", "/stats",
			} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestReloadOnSignal(t *testing.T) {
	convey.Convey("Given a running reload watcher", t, func() {
		svc, statePath := startedService(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sig := make(chan os.Signal, 1)
		done := make(chan struct{})
		go func() {
			reloadOnSignal(ctx, svc, sig, logger.Get())
			close(done)
		}()

		convey.Convey("When the state table changes and a signal arrives", func() {
			convey.So(sampledata.WriteCSV(statePath, sampledata.Generate(7, []string{"Maine"})), convey.ShouldBeNil)
			sig <- os.Interrupt

			convey.Convey("Then the new table is served", func() {
				var states []string
				for deadline := time.Now().Add(2 * time.Second); time.Now().Before(deadline); time.Sleep(10 * time.Millisecond) {
					states, _ = svc.States(ctx)
					if slices.Contains(states, "Maine") {
						break
					}
				}
				convey.So(states, convey.ShouldResemble, []string{"Maine"})
			})
		})

		convey.Convey("When the table is broken and a signal arrives", func() {
			convey.So(os.WriteFile(statePath, []byte("nonsense\n"), 0o600), convey.ShouldBeNil)
			sig <- os.Interrupt
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the previous table is kept", func() {
				states, err := svc.States(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(states, convey.ShouldContain, "Texas")
			})
		})

		convey.Convey("When the context ends", func() {
			cancel()

			convey.Convey("Then the watcher returns", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Fatal("watcher did not stop")
				}
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When it samples once", func() {
			convey.Convey("Then it should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When its context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx, 5*time.Millisecond)
				close(done)
			}()
			time.Sleep(20 * time.Millisecond)
			cancel()

			convey.Convey("Then it stops", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Fatal("updater did not stop")
				}
				convey.So(metrics.RefreshInterval(), convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}
