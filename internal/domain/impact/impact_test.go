package impact

import (
	"errors"
	"testing"

	"github.com/okian/enow/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseImpactType(t *testing.T) {
	Convey("Given impact type names", t, func() {
		it, err := ParseImpactType("induced")
		So(err, ShouldBeNil)
		So(it, ShouldEqual, Induced)

		_, err = ParseImpactType("Total")
		So(errors.Is(err, ErrUnknownImpactType), ShouldBeTrue)

		So(ImpactTypes(), ShouldResemble, []ImpactType{Direct, Indirect, Induced})

		types, err := ParseImpactTypes([]string{"induced, Direct", "", "direct"})
		So(err, ShouldBeNil)
		So(types, ShouldResemble, []ImpactType{Direct, Induced})

		types, err = ParseImpactTypes(nil)
		So(err, ShouldBeNil)
		So(types, ShouldBeEmpty)

		_, err = ParseImpactTypes([]string{"Direct,Total"})
		So(errors.Is(err, ErrUnknownImpactType), ShouldBeTrue)
	})
}

func TestNationalTable(t *testing.T) {
	Convey("Given a national table with lower-case impact types", t, func() {
		raw, err := table.NewBuilder(2).
			Keys(ColImpactType, []string{"direct", "INDIRECT"}).
			Metric(Output, []float64{3, 4}).
			Build()
		So(err, ShouldBeNil)

		nt, err := NewNationalTable(raw)

		Convey("Then impact types are normalized", func() {
			So(err, ShouldBeNil)
			So(nt.Types(), ShouldResemble, []ImpactType{Direct, Indirect})
			keys, _ := nt.Table().Strings(ColImpactType)
			So(keys, ShouldResemble, []string{"Direct", "Indirect"})
			So(nt.Rows(Direct), ShouldResemble, []int{0})
			v, err := nt.Value(1, Output)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 4)
		})
	})

	Convey("Given a national table with a negative value", t, func() {
		raw, _ := table.NewBuilder(1).
			Keys(ColImpactType, []string{"Direct"}).
			Metric(Output, []float64{-1}).
			Build()
		_, err := NewNationalTable(raw)
		So(errors.Is(err, ErrNegativeValue), ShouldBeTrue)
	})

	Convey("Given a national table without an ImpactType column", t, func() {
		raw, _ := table.NewBuilder(1).Metric(Output, []float64{1}).Build()
		_, err := NewNationalTable(raw)
		So(errors.Is(err, ErrSchema), ShouldBeTrue)
	})
}

func TestStateTable(t *testing.T) {
	Convey("Given a state table", t, func() {
		build := func(states, types []string) (*StateTable, error) {
			raw, err := table.NewBuilder(len(states)).
				Keys(ColDestinationState, states).
				Keys(ColImpactType, types).
				Metric(WageAndSalaryEmployment, make([]float64, len(states))).
				Build()
			if err != nil {
				return nil, err
			}
			return NewStateTable(raw)
		}

		Convey("When rows are unique per state and impact type", func() {
			st, err := build([]string{"Texas", "Alaska", "Texas"}, []string{"Direct", "Direct", "Induced"})

			Convey("Then states are listed sorted", func() {
				So(err, ShouldBeNil)
				So(st.States(), ShouldResemble, []string{"Alaska", "Texas"})
				So(st.HasState("Texas"), ShouldBeTrue)
				So(st.HasState("Ohio"), ShouldBeFalse)
				So(st.Metrics(), ShouldResemble, []string{WageAndSalaryEmployment})
				So(st.ImpactTypeAt(2), ShouldEqual, Induced)
			})
		})

		Convey("When a state repeats an impact type", func() {
			_, err := build([]string{"Texas", "Texas"}, []string{"Direct", "direct"})

			Convey("Then the table is rejected", func() {
				So(errors.Is(err, ErrDuplicateRow), ShouldBeTrue)
			})
		})
	})
}

func TestMetricHelpers(t *testing.T) {
	Convey("Given metric names", t, func() {
		So(MetricLabel(ValueAdded), ShouldEqual, "Value Added (GDP)")
		So(MetricLabel("Tax_Revenue"), ShouldEqual, "Tax Revenue")
		So(IsEmployment(ProprietorEmployment), ShouldBeTrue)
		So(IsEmployment(Output), ShouldBeFalse)
	})
}
