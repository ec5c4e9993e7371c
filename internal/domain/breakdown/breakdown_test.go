package breakdown_test

import (
	"errors"
	"testing"

	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func stateTable() *impact.StateTable {
	t, err := table.NewBuilder(4).
		Keys(impact.ColDestinationState, []string{"California", "Texas", "Texas", "Florida"}).
		Keys(impact.ColImpactType, []string{"Direct", "Direct", "Indirect", "Induced"}).
		Metric(impact.WageAndSalaryEmployment, []float64{500_000, 1_500_000, 1_000_000, 1_000_000}).
		Metric(impact.ProprietorEmployment, []float64{0, 0, 0, 0}).
		Metric(impact.Output, []float64{10e9, 30e9, 20e9, 25e9}).
		Metric("Taxes", []float64{100, 200, 300, 400}).
		Build()
	if err != nil {
		panic(err)
	}
	st, err := impact.NewStateTable(t)
	if err != nil {
		panic(err)
	}
	return st
}

func all() []impact.ImpactType { return impact.ImpactTypes() }

func TestScale(t *testing.T) {
	Convey("Given the square scale lookup", t, func() {
		So(breakdown.ValuePerSquare(impact.WageAndSalaryEmployment), ShouldEqual, 25_000)
		So(breakdown.ValuePerSquare(impact.ProprietorEmployment), ShouldEqual, 25_000)
		So(breakdown.ValuePerSquare(impact.Output), ShouldEqual, 1_000_000_000)
		So(breakdown.ValuePerSquare("Taxes"), ShouldEqual, 1_000_000_000)
		So(breakdown.ScaleDescription(impact.Output), ShouldEqual, "Each square represents $1 billion")
		So(breakdown.ScaleDescription(impact.WageAndSalaryEmployment), ShouldEqual, "Each square represents 25,000 jobs")
	})

	Convey("Given square rounding", t, func() {
		Convey("Then halves round to even", func() {
			So(breakdown.Squares(12_500, 25_000), ShouldEqual, 0)
			So(breakdown.Squares(37_500, 25_000), ShouldEqual, 2)
			So(breakdown.Squares(62_500, 25_000), ShouldEqual, 2)
			So(breakdown.Squares(62_501, 25_000), ShouldEqual, 3)
		})
	})

	Convey("Given waffle rows", t, func() {
		So(breakdown.GridRows(0), ShouldEqual, 1)
		So(breakdown.GridRows(25), ShouldEqual, 1)
		So(breakdown.GridRows(26), ShouldEqual, 2)
		So(breakdown.GridRows(160), ShouldEqual, 7)
	})
}

func TestStateVsRest(t *testing.T) {
	Convey("Given the state table", t, func() {
		st := stateTable()

		Convey("When California employment is selected across all impact types", func() {
			res, err := breakdown.StateVsRest(st, breakdown.Selection{
				State: "California", Metric: impact.WageAndSalaryEmployment, ImpactTypes: all(),
			})

			Convey("Then the state and rest squares follow the 25,000 scale", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, breakdown.StatusOK)
				So(res.Buckets, ShouldHaveLength, 2)
				So(res.Buckets[0].Label, ShouldEqual, "California")
				So(res.Buckets[0].Squares, ShouldEqual, 20)
				So(res.Buckets[1].Label, ShouldEqual, breakdown.RestLabel)
				So(res.Buckets[1].Squares, ShouldEqual, 140)
				So(res.Percentage, ShouldEqual, 12.5)
				So(res.TotalSquares, ShouldEqual, 160)
				So(res.Columns, ShouldEqual, 25)
				So(res.Rows, ShouldEqual, 7)
			})

			Convey("And state plus rest equals the national total", func() {
				So(res.Buckets[0].Value+res.Buckets[1].Value, ShouldEqual, res.NationalTotal)
				So(res.NationalTotal, ShouldEqual, 4_000_000)
			})
		})

		Convey("When every state is selected", func() {
			res, err := breakdown.StateVsRest(st, breakdown.Selection{
				State: breakdown.AllStates, Metric: impact.Output, ImpactTypes: all(),
			})

			Convey("Then the region is the whole country", func() {
				So(err, ShouldBeNil)
				So(res.StateTotal, ShouldEqual, res.NationalTotal)
				So(res.Percentage, ShouldEqual, 100)
				So(res.Buckets[0].Label, ShouldEqual, breakdown.NationLabel)
				So(res.Buckets[0].Squares, ShouldEqual, 85)
				So(res.Buckets[1].Squares, ShouldEqual, 0)
			})
		})

		Convey("When the selected state has no rows for the chosen types", func() {
			res, err := breakdown.StateVsRest(st, breakdown.Selection{
				State: "Texas", Metric: impact.WageAndSalaryEmployment, ImpactTypes: []impact.ImpactType{impact.Induced},
			})

			Convey("Then the state contributes zero", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, breakdown.StatusOK)
				So(res.StateTotal, ShouldEqual, 0)
				So(res.Percentage, ShouldEqual, 0)
				So(res.Buckets[1].Squares, ShouldEqual, 40)
			})
		})

		Convey("When the filtered total is zero", func() {
			res, err := breakdown.StateVsRest(st, breakdown.Selection{
				State: "California", Metric: impact.ProprietorEmployment, ImpactTypes: all(),
			})

			Convey("Then the result is no data rather than an error", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, breakdown.StatusNoData)
				So(res.Buckets, ShouldBeEmpty)
			})
		})

		Convey("When every bucket rounds to zero squares", func() {
			res, err := breakdown.StateVsRest(st, breakdown.Selection{
				State: "California", Metric: "Taxes", ImpactTypes: all(),
			})

			Convey("Then the result is too small to display", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, breakdown.StatusTooSmall)
				So(res.NationalTotal, ShouldEqual, 1000)
			})
		})
	})
}

func TestByImpactType(t *testing.T) {
	Convey("Given the state table", t, func() {
		st := stateTable()

		Convey("When California employment is split by impact type", func() {
			res, err := breakdown.ByImpactType(st, breakdown.Selection{
				State: "California", Metric: impact.WageAndSalaryEmployment, ImpactTypes: all(),
			})

			Convey("Then there are six buckets, state first", func() {
				So(err, ShouldBeNil)
				So(res.Buckets, ShouldHaveLength, 6)
				So(res.Buckets[0].Label, ShouldEqual, "California (Direct)")
				So(res.Buckets[0].Squares, ShouldEqual, 20)
				So(res.Buckets[3].Label, ShouldEqual, "Rest of U.S. (Direct)")
				So(res.Buckets[3].Squares, ShouldEqual, 60)
				So(res.Buckets[4].Squares, ShouldEqual, 40)
				So(res.Buckets[5].Squares, ShouldEqual, 40)
			})

			Convey("And state plus rest equals the national value per type", func() {
				national := map[impact.ImpactType]float64{
					impact.Direct: 2_000_000, impact.Indirect: 1_000_000, impact.Induced: 1_000_000,
				}
				for i := 0; i < 3; i++ {
					it := res.Buckets[i].ImpactType
					So(res.Buckets[i].Value+res.Buckets[i+3].Value, ShouldEqual, national[it])
				}
			})
		})

		Convey("When only Direct is selected", func() {
			res, err := breakdown.ByImpactType(st, breakdown.Selection{
				State: "Texas", Metric: impact.WageAndSalaryEmployment, ImpactTypes: []impact.ImpactType{impact.Direct},
			})

			Convey("Then the unselected types are filled with zero", func() {
				So(err, ShouldBeNil)
				So(res.Buckets, ShouldHaveLength, 6)
				So(res.Buckets[0].Value, ShouldEqual, 1_500_000)
				So(res.Buckets[1].Value, ShouldEqual, 0)
				So(res.Buckets[2].Value, ShouldEqual, 0)
				So(res.Buckets[3].Value, ShouldEqual, 500_000)
				So(res.Buckets[4].Value, ShouldEqual, 0)
				So(res.Percentage, ShouldEqual, 75)
			})
		})

		Convey("When the filtered total is zero", func() {
			res, err := breakdown.ByImpactType(st, breakdown.Selection{
				State: "Florida", Metric: impact.ProprietorEmployment, ImpactTypes: all(),
			})
			So(err, ShouldBeNil)
			So(res.Status, ShouldEqual, breakdown.StatusNoData)
		})
	})
}

func TestSelectionErrors(t *testing.T) {
	Convey("Given the state table", t, func() {
		st := stateTable()

		Convey("Then an empty selection is rejected", func() {
			sel := breakdown.Selection{State: "Texas", Metric: impact.Output}
			So(errors.Is(sel.Validate(), breakdown.ErrEmptySelection), ShouldBeTrue)
			_, err := breakdown.StateVsRest(st, sel)
			So(errors.Is(err, breakdown.ErrEmptySelection), ShouldBeTrue)
		})

		Convey("Then an unknown metric is rejected", func() {
			_, err := breakdown.ByImpactType(st, breakdown.Selection{State: "Texas", Metric: "Nope", ImpactTypes: all()})
			So(errors.Is(err, breakdown.ErrUnknownMetric), ShouldBeTrue)
		})

		Convey("Then an unknown state is rejected", func() {
			_, err := breakdown.StateVsRest(st, breakdown.Selection{State: "Ohio", Metric: impact.Output, ImpactTypes: all()})
			So(errors.Is(err, breakdown.ErrUnknownState), ShouldBeTrue)
		})

		Convey("Then modes are parsed strictly", func() {
			m, err := breakdown.ParseMode("")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, breakdown.ModeStateVsRest)
			_, err = breakdown.ParseMode("nine")
			So(errors.Is(err, breakdown.ErrUnknownMode), ShouldBeTrue)
			_, err = breakdown.Compute(st, breakdown.Selection{State: "Texas", Metric: impact.Output, ImpactTypes: all()}, "nine")
			So(errors.Is(err, breakdown.ErrUnknownMode), ShouldBeTrue)
		})
	})
}
