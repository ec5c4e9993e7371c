package probe_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/enow/internal/adapters/http/api"
	service "github.com/okian/enow/internal/app"
	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/probe"
	"github.com/okian/enow/internal/sampledata"
	"github.com/okian/enow/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newDashboard(t *testing.T) *httptest.Server {
	t.Helper()
	nationalPath, statePath, err := sampledata.WriteFixtures(t.TempDir())
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	svc := service.New(service.WithNationalPath(nationalPath), service.WithStatePath(statePath))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	Convey("Given a running dashboard over the sample tables", t, func() {
		srv := newDashboard(t)

		Convey("When it is probed", func() {
			stats, err := probe.Run(context.Background(), probe.Config{BaseURL: srv.URL, Workers: 3})

			Convey("Then every state, metric and mode is consistent", func() {
				So(err, ShouldBeNil)
				// (3 states + All) x 5 metrics x 2 modes
				So(stats.Requests, ShouldEqual, 40)
				So(stats.OK, ShouldEqual, 32)
				So(stats.NoData, ShouldEqual, 8)
				So(stats.TooSmall, ShouldEqual, 0)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Violations, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a server that fails its health check", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := probe.Run(context.Background(), probe.Config{BaseURL: srv.URL})

		Convey("Then the probe stops early", func() {
			So(errors.Is(err, probe.ErrUnexpectedStatus), ShouldBeTrue)
		})
	})

	Convey("Given a server that drops request ids", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		_, err := probe.Run(context.Background(), probe.Config{BaseURL: srv.URL})

		Convey("Then the probe fails", func() {
			So(errors.Is(err, probe.ErrRequestID), ShouldBeTrue)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a consistent result", t, func() {
		res := breakdown.Result{
			Status:         breakdown.StatusOK,
			Mode:           breakdown.ModeStateVsRest,
			ValuePerSquare: 25_000,
			Percentage:     12.5,
			Buckets: []breakdown.Bucket{
				{Label: "California", Region: true, Value: 500_000, Squares: 20},
				{Label: breakdown.RestLabel, Value: 3_500_000, Squares: 140},
			},
			TotalSquares: 160,
			Columns:      breakdown.Columns,
			Rows:         7,
		}

		Convey("Then nothing is reported", func() {
			So(probe.Verify(res), ShouldBeEmpty)
		})

		Convey("When the totals disagree", func() {
			res.TotalSquares = 161
			problems := probe.Verify(res)

			Convey("Then the sum is reported", func() {
				So(problems, ShouldContain, "bucket squares sum to 160, total says 161")
			})
		})

		Convey("When the grid height is wrong", func() {
			res.Rows = 6
			So(probe.Verify(res), ShouldContain, "rows = 6 for 160 squares")
		})

		Convey("When a six bucket result has two buckets", func() {
			res.Mode = breakdown.ModeByImpactType
			So(probe.Verify(res), ShouldContain, "2 buckets in six mode, want 6")
		})

		Convey("When no data still carries buckets", func() {
			res.Status = breakdown.StatusNoData
			So(probe.Verify(res), ShouldContain, "no_data with 2 buckets")
		})
	})
}
