package export

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/national"
)

func sampleReport() Report {
	s := national.Summary{
		Direct: map[string]float64{impact.WageAndSalaryEmployment: 2.3e6, impact.WagesAndSalary: 150e9, impact.ValueAdded: 200e9},
		Total:  map[string]float64{impact.WageAndSalaryEmployment: 3.9e6, impact.WagesAndSalary: 250e9, impact.ValueAdded: 330e9, impact.Output: 500e9},
	}
	s.AvgWagePerWorker = 250e9 / 3.9e6
	s.AvgGDPPerWorker = 330e9 / 3.9e6
	return Report{
		Summary:   s,
		Formatted: national.Format(s),
		Pictograms: []national.Pictogram{{
			PictogramSpec: national.PictogramSpecs()[0],
			Rows: []national.PictogramRow{
				{ImpactType: impact.Direct, Value: 2.3e6, Count: 23},
				{ImpactType: impact.Indirect, Value: 1e6, Count: 10},
			},
		}},
	}
}

func readBack(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWrite(t *testing.T) {
	Convey("Given a report without a breakdown", t, func() {
		var buf bytes.Buffer
		So(Write(&buf, sampleReport()), ShouldBeNil)
		f := readBack(t, &buf)

		Convey("Then only the national sheets exist", func() {
			So(f.GetSheetList(), ShouldResemble, []string{SheetSummary, SheetPictograms})
		})

		Convey("Then the summary carries display strings", func() {
			rows, err := f.GetRows(SheetSummary)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 10)
			So(rows[0], ShouldResemble, []string{"Figure", "Display", "Value"})
			So(rows[4][1], ShouldEqual, "3.9")
			So(rows[8][1], ShouldEqual, "$64,103")
		})

		Convey("Then every pictogram row is listed with its icon count", func() {
			rows, err := f.GetRows(SheetPictograms)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[1][0], ShouldEqual, "Employment")
			So(rows[1][1], ShouldEqual, "Direct")
			So(rows[1][4], ShouldEqual, "23")
		})
	})

	Convey("Given a report with a breakdown", t, func() {
		rep := sampleReport()
		rep.Breakdown = &breakdown.Result{
			Status: breakdown.StatusOK,
			State:  "Texas",
			Metric: impact.Output,
			Buckets: []breakdown.Bucket{
				{Label: "Texas", Region: true, Value: 50e9, Squares: 50},
				{Label: breakdown.RestLabel, Value: 450e9, Squares: 450},
			},
			ScaleDescription: breakdown.ScaleDescription(impact.Output),
			Columns:          breakdown.Columns,
			Rows:             20,
		}
		var buf bytes.Buffer
		So(Write(&buf, rep), ShouldBeNil)
		f := readBack(t, &buf)

		Convey("Then the breakdown sheet lists buckets and context", func() {
			So(f.GetSheetList(), ShouldContain, SheetBreakdown)
			rows, err := f.GetRows(SheetBreakdown)
			So(err, ShouldBeNil)
			So(rows[1][0], ShouldEqual, "Texas")
			So(rows[1][3], ShouldEqual, "50")
			So(rows[2][0], ShouldEqual, breakdown.RestLabel)
			So(rows[4], ShouldResemble, []string{"State", "Texas"})
			So(rows[len(rows)-1], ShouldResemble, []string{"Grid", "25 x 20"})
		})
	})
}
