package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	service "github.com/okian/enow/internal/app"
	"github.com/okian/enow/internal/adapters/repository"
	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/sampledata"
	"github.com/okian/enow/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	nationalPath, statePath, err := sampledata.WriteFixtures(t.TempDir())
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	opts = append([]service.Option{
		service.WithNationalPath(nationalPath),
		service.WithStatePath(statePath),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a service over missing table files", t, func() {
		dir := t.TempDir()
		svc := service.New(
			service.WithNationalPath(filepath.Join(dir, "national.csv")),
			service.WithStatePath(filepath.Join(dir, "states.csv")),
		)

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then startup fails with not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then queries fail", func() {
			_, err := svc.Summary(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a started service", t, func() {
		svc := startedService(t)

		Convey("Then starting again is a no-op and stop ends it", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["tables"].(repository.Stats).StateRows, ShouldEqual, 4)
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
			svc.Stop()
		})
	})
}

func TestService_National(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then the formatted summary matches the sample table", func() {
			f, err := svc.Formatted(ctx)
			So(err, ShouldBeNil)
			So(f.TotalJobsMillions, ShouldEqual, "3.9")
			So(f.TotalWagesBillions, ShouldEqual, "$250")
			So(f.AvgWagesPerWorker, ShouldEqual, "$64,103")
			So(f.AvgGDPPerWorker, ShouldEqual, "$84,615")
		})

		Convey("Then pictograms, treemap and bars are built", func() {
			p, err := svc.Pictograms(ctx)
			So(err, ShouldBeNil)
			So(p, ShouldHaveLength, 4)
			So(p[0].Rows[0].Count, ShouldEqual, 23)

			tm, err := svc.Treemap(ctx, impact.Output)
			So(err, ShouldBeNil)
			So(tm.Sizes, ShouldResemble, []float64{300e9, 120e9, 80e9})

			bars, err := svc.Bars(ctx, impact.WageAndSalaryEmployment)
			So(err, ShouldBeNil)
			So(bars, ShouldHaveLength, 3)
		})
	})
}

func TestService_Breakdown(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t, service.WithDefaults("Texas", impact.Output))
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then states, metrics and defaults are listed", func() {
			states, err := svc.States(ctx)
			So(err, ShouldBeNil)
			So(states, ShouldResemble, []string{"California", "Florida", "Texas"})
			m, err := svc.Metrics(ctx)
			So(err, ShouldBeNil)
			So(m, ShouldContain, impact.ValueAdded)
			state, metric := svc.Defaults()
			So(state, ShouldEqual, "Texas")
			So(metric, ShouldEqual, impact.Output)
		})

		Convey("When California is compared with the rest", func() {
			res, err := svc.Breakdown(ctx, breakdown.Selection{
				State: "California", Metric: impact.WageAndSalaryEmployment, ImpactTypes: impact.ImpactTypes(),
			}, breakdown.ModeStateVsRest)

			Convey("Then the squares follow the jobs scale", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, breakdown.StatusOK)
				So(res.Buckets[0].Squares, ShouldEqual, 20)
				So(res.Buckets[1].Squares, ShouldEqual, 140)
			})
		})

		Convey("When nothing is selected", func() {
			_, err := svc.Breakdown(ctx, breakdown.Selection{State: "Texas", Metric: impact.Output}, breakdown.ModeByImpactType)

			Convey("Then the selection is rejected", func() {
				So(errors.Is(err, breakdown.ErrEmptySelection), ShouldBeTrue)
			})
		})
	})
}

func TestService_MapImage(t *testing.T) {
	Convey("Given an assets directory with one map", t, func() {
		assets := t.TempDir()
		So(os.WriteFile(filepath.Join(assets, "Map_United_States.jpg"), []byte("jpg"), 0o600), ShouldBeNil)
		svc := startedService(t, service.WithAssetsDir(assets))
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then the national map resolves", func() {
			img, ok := svc.MapImage(ctx, breakdown.AllStates)
			So(ok, ShouldBeTrue)
			So(img.Name, ShouldEqual, "Map_United_States.jpg")
			So(img.Path, ShouldEqual, filepath.Join(assets, "Map_United_States.jpg"))
			So(svc.AssetsDir(), ShouldEqual, assets)
		})

		Convey("Then a missing state map shows nothing", func() {
			_, ok := svc.MapImage(ctx, "California")
			So(ok, ShouldBeFalse)
		})

		Convey("Then unknown states never reach the file system", func() {
			_, ok := svc.MapImage(ctx, "../secrets")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given state names with spaces", t, func() {
		So(service.MapImageName("New Hampshire"), ShouldEqual, "Map_New_Hampshire.jpg")
		So(service.MapImageName(breakdown.AllStates), ShouldEqual, "Map_United_States.jpg")
	})
}
