package national

import (
	"fmt"
	"strings"

	"github.com/okian/enow/internal/domain/impact"
)

// headerIcons is the width of the decorative icon row above each pictogram.
const headerIcons = 20

// PictogramSpec describes how one metric is drawn as repeated icons.
type PictogramSpec struct {
	Metric  string  `json:"metric"`
	Title   string  `json:"title"`
	Icon    string  `json:"icon"`
	Scale   float64 `json:"scale"`
	Color   string  `json:"color"`
	Caption string  `json:"caption"`
}

// PictogramSpecs returns the pictogram definitions in page order.
func PictogramSpecs() []PictogramSpec {
	return []PictogramSpec{
		{Metric: impact.WageAndSalaryEmployment, Title: "Employment", Icon: "👤", Scale: 100_000, Color: "#FFFFFF", Caption: "Each 👤 represents 100,000 workers."},
		{Metric: impact.WagesAndSalary, Title: "Wages and Salary", Icon: "💰", Scale: 10 * billion, Color: "#FFD700", Caption: "Each 💰 represents $10 billion."},
		{Metric: impact.ValueAdded, Title: "Contribution to GDP", Icon: "🏭", Scale: 20 * billion, Color: "#ADD8E6", Caption: "Each 🏭 represents $20 billion."},
		{Metric: impact.Output, Title: "Economic Output", Icon: "📈", Scale: 30 * billion, Color: "#90EE90", Caption: "Each 📈 represents $30 billion."},
	}
}

// PictogramRow is one impact type's icon run.
type PictogramRow struct {
	ImpactType impact.ImpactType `json:"impact_type"`
	Value      float64           `json:"value"`
	Count      int               `json:"count"`
	Icons      string            `json:"icons"`
}

// Pictogram is a rendered-ready pictogram for one metric.
type Pictogram struct {
	PictogramSpec
	Header string         `json:"header"`
	Rows   []PictogramRow `json:"rows"`
}

// Pictograms builds every pictogram whose metric is present in t. Rows follow
// table order.
func Pictograms(t *impact.NationalTable) ([]Pictogram, error) {
	var out []Pictogram
	for _, spec := range PictogramSpecs() {
		if !t.Table().IsMetric(spec.Metric) {
			continue
		}
		p, err := BuildPictogram(t, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// BuildPictogram computes icon counts for spec over every row of t.
func BuildPictogram(t *impact.NationalTable, spec PictogramSpec) (Pictogram, error) {
	vals, err := t.Table().Floats(spec.Metric)
	if err != nil {
		return Pictogram{}, fmt.Errorf("%w: %s", ErrUnknownMetric, spec.Metric)
	}
	types := t.Types()
	p := Pictogram{
		PictogramSpec: spec,
		Header:        strings.Repeat(spec.Icon, headerIcons),
		Rows:          make([]PictogramRow, len(vals)),
	}
	for i, v := range vals {
		n := IconCount(v, spec.Scale)
		p.Rows[i] = PictogramRow{
			ImpactType: types[i],
			Value:      v,
			Count:      n,
			Icons:      strings.Repeat(spec.Icon, n),
		}
	}
	return p, nil
}

// impactColors are the fixed treemap and bar colors per impact type.
var impactColors = map[impact.ImpactType]string{
	impact.Direct:   "#1F77B4",
	impact.Indirect: "#FF7F0E",
	impact.Induced:  "#2CA02C",
}

// ImpactColor returns the fixed display color of an impact type.
func ImpactColor(it impact.ImpactType) string { return impactColors[it] }

// TreemapInput is the sizes, labels and colors triple handed to an
// area-proportional layout.
type TreemapInput struct {
	Metric string    `json:"metric"`
	Title  string    `json:"title"`
	Sizes  []float64 `json:"sizes"`
	Labels []string  `json:"labels"`
	Colors []string  `json:"colors"`
}

// Treemap prepares the treemap input for metric.
func Treemap(t *impact.NationalTable, metric string) (TreemapInput, error) {
	vals, err := t.Table().Floats(metric)
	if err != nil {
		return TreemapInput{}, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}
	in := TreemapInput{
		Metric: metric,
		Title:  impact.MetricLabel(metric) + " by Impact Type",
		Sizes:  vals,
		Labels: make([]string, len(vals)),
		Colors: make([]string, len(vals)),
	}
	for i, it := range t.Types() {
		in.Labels[i] = string(it) + "\n" + ValueLabel(metric, vals[i])
		in.Colors[i] = ImpactColor(it)
	}
	return in, nil
}

// ValueLabel renders a metric value in the unit the pages use for it.
func ValueLabel(metric string, v float64) string {
	if impact.IsEmployment(metric) {
		return Millions(v) + " million jobs"
	}
	return DollarBillions(v) + " billion"
}

// Bar is one bar of a bar chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Bars returns metric per impact type in table order.
func Bars(t *impact.NationalTable, metric string) ([]Bar, error) {
	vals, err := t.Table().Floats(metric)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}
	out := make([]Bar, len(vals))
	for i, it := range t.Types() {
		out[i] = Bar{Label: string(it), Value: vals[i], Color: ImpactColor(it)}
	}
	return out, nil
}
