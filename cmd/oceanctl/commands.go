package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okian/enow/internal/adapters/export"
	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/national"
	"github.com/okian/enow/internal/probe"
	"github.com/okian/enow/internal/sampledata"
)

// Sample table formats written by generate.
const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

const dirPermission = 0o755

var errUnknownFormat = errors.New("unknown format")

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the national totals and per-worker averages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			f, err := svc.Formatted(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, title("U.S. Ocean Economy"))
			for _, line := range []string{
				pair("Direct jobs", f.DirectJobsMillions+" million"),
				pair("Direct wages", f.DirectWagesBillions+" billion"),
				pair("Direct GDP", f.DirectGDPBillions+" billion"),
				pair("Total jobs", f.TotalJobsMillions+" million"),
				pair("Total wages", f.TotalWagesBillions+" billion"),
				pair("Total GDP", f.TotalGDPBillions+" billion"),
				pair("Total output", f.TotalOutputBillions+" billion"),
				pair("Average wage per worker", f.AvgWagesPerWorker),
				pair("Average GDP per worker", f.AvgGDPPerWorker),
			} {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newPictogramsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pictograms",
		Short: "Draw the national pictograms with terminal icons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			pics, err := svc.Pictograms(cmd.Context())
			if err != nil {
				return err
			}
			for i, p := range pics {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprint(cmd.OutOrStdout(), pictogramBlock(p))
			}
			return nil
		},
	}
}

// selectionFlags are the breakdown flags shared by breakdown and export.
type selectionFlags struct {
	state   string
	metric  string
	impacts []string
	mode    string
}

func (s *selectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.state, "state", "", `State to break out, or "All" (default from config)`)
	cmd.Flags().StringVar(&s.metric, "metric", "", "Metric column (default from config)")
	cmd.Flags().StringSliceVar(&s.impacts, "impact", nil, "Impact types to include (default all)")
	cmd.Flags().StringVar(&s.mode, "mode", string(breakdown.ModeStateVsRest), `"two" buckets or "six" by impact type`)
}

// selection resolves the flags against the configured defaults. An --impact
// flag that was given but names nothing is an empty selection.
func (s *selectionFlags) selection(cmd *cobra.Command, opts *options) (breakdown.Selection, breakdown.Mode, error) {
	sel := breakdown.Selection{State: s.state, Metric: s.metric}
	if sel.State == "" {
		sel.State = opts.cfg.DefaultState
	}
	if sel.Metric == "" {
		sel.Metric = opts.cfg.DefaultMetric
	}
	mode, err := breakdown.ParseMode(s.mode)
	if err != nil {
		return breakdown.Selection{}, "", err
	}
	if !cmd.Flags().Changed("impact") {
		sel.ImpactTypes = impact.ImpactTypes()
		return sel, mode, nil
	}
	sel.ImpactTypes, err = impact.ParseImpactTypes(s.impacts)
	if err != nil {
		return breakdown.Selection{}, "", err
	}
	return sel, mode, sel.Validate()
}

func newBreakdownCmd(opts *options) *cobra.Command {
	flags := &selectionFlags{}
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Split a metric into waffle squares for a state and the rest of the country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, mode, err := flags.selection(cmd, opts)
			if err != nil {
				return err
			}
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			res, err := svc.Breakdown(cmd.Context(), sel, mode)
			if err != nil {
				return err
			}
			printBreakdown(cmd, res)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func printBreakdown(cmd *cobra.Command, res breakdown.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title(regionName(res.State)+": "+impact.MetricLabel(res.Metric)))
	switch res.Status {
	case breakdown.StatusNoData:
		fmt.Fprintln(out, "No data is available for this selection.")
		return
	case breakdown.StatusTooSmall:
		fmt.Fprintln(out, "The selected values are too small to show at this scale.")
		return
	}
	fmt.Fprintf(out, "%s accounts for %.1f%% of the selected total.\n", regionName(res.State), res.Percentage)
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%s. %s squares in a %d x %d grid.",
		res.ScaleDescription, humanize.Comma(int64(res.TotalSquares)), res.Columns, res.Rows)))
	for _, b := range res.Buckets {
		fmt.Fprintln(out, bucketBar(b, res.TotalSquares))
	}
}

func regionName(state string) string {
	if state == breakdown.AllStates {
		return breakdown.NationLabel
	}
	return state
}

func newExportCmd(opts *options) *cobra.Command {
	flags := &selectionFlags{}
	var (
		outPath   string
		withState bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard figures to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			ctx := cmd.Context()
			var rep export.Report
			if rep.Summary, err = svc.Summary(ctx); err != nil {
				return err
			}
			rep.Formatted = national.Format(rep.Summary)
			if rep.Pictograms, err = svc.Pictograms(ctx); err != nil {
				return err
			}
			if withState {
				sel, mode, err := flags.selection(cmd, opts)
				if err != nil {
					return err
				}
				res, err := svc.Breakdown(ctx, sel, mode)
				if err != nil {
					return err
				}
				rep.Breakdown = &res
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			if err := export.Write(f, rep); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "ocean-economy.xlsx", "Workbook to write")
	cmd.Flags().BoolVar(&withState, "breakdown", false, "Include a state breakdown sheet")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		dir    string
		seed   uint64
		names  []string
		format string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write sample national and state impact tables",
		Long: `Writes the fixed sample national table and a random state table. The same
seed always produces the same state table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			write, ext, err := writerFor(format)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, dirPermission); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
			nationalPath := filepath.Join(dir, "national"+ext)
			statePath := filepath.Join(dir, "states"+ext)
			if err := write(nationalPath, sampledata.National()); err != nil {
				return err
			}
			if err := write(statePath, sampledata.Generate(seed, names)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s (%d states)\n", nationalPath, statePath, len(names))
			return nil
		},
	}
	// generate needs no tables or config
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	cmd.Flags().StringVar(&dir, "dir", "data", "Directory to write into")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().StringSliceVar(&names, "state-names", []string{"California", "Florida", "Maine", "Texas"}, "States to generate rows for")
	cmd.Flags().StringVar(&format, "format", formatCSV, "Table format: csv or xlsx")
	return cmd
}

func writerFor(format string) (func(string, [][]string) error, string, error) {
	switch strings.ToLower(format) {
	case formatCSV:
		return sampledata.WriteCSV, ".csv", nil
	case formatXLSX:
		return sampledata.WriteXLSX, ".xlsx", nil
	}
	return nil, "", fmt.Errorf("%w: %q", errUnknownFormat, format)
}

func newProbeCmd() *cobra.Command {
	cfg := probe.Config{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check a running dashboard's breakdowns for every state, metric and mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := probe.Run(cmd.Context(), cfg)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, title("Probe of "+cfg.BaseURL))
			fmt.Fprintln(out, pair("Requests", humanize.Comma(int64(stats.Requests))))
			fmt.Fprintln(out, pair("Drawable", humanize.Comma(int64(stats.OK))))
			fmt.Fprintln(out, pair("No data", humanize.Comma(int64(stats.NoData))))
			fmt.Fprintln(out, pair("Too small", humanize.Comma(int64(stats.TooSmall))))
			fmt.Fprintln(out, pair("Failed", humanize.Comma(int64(stats.Failed))))
			fmt.Fprintln(out, pair("Duration", stats.Duration.Round(time.Millisecond).String()))
			for _, v := range stats.Violations {
				fmt.Fprintln(out, mutedStyle.Render(v))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Dashboard base URL")
	cmd.Flags().IntVar(&cfg.Workers, "workers", probe.DefaultWorkers, "Concurrent requests")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", probe.DefaultTimeout, "Per-request timeout")
	return cmd
}
