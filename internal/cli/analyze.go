package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/analysis"
	"github.com/rustyeddy/tradestats/chart"
	"github.com/rustyeddy/tradestats/config"
	"github.com/rustyeddy/tradestats/journal"
	"github.com/rustyeddy/tradestats/pkg/id"
	"github.com/rustyeddy/tradestats/report"
)

type analyzeOptions struct {
	file    string
	srcType string
	table   string
	outDir  string
	format  string
	detail  bool
	orgPath string
	runDir  bool
}

func newAnalyzeCmd(rc *RootConfig) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarise a trade log and render its charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rc.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}

			log, err := rc.logger(cmd, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := log.WithContext(cmd.Context())

			return runAnalyze(ctx, cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Trade log to read (overrides source.path)")
	cmd.Flags().StringVar(&opts.srcType, "type", "", "Source type: csv|sqlite")
	cmd.Flags().StringVar(&opts.table, "table", "", "Table name for sqlite sources")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Chart output directory (overrides output.dir)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Chart format: png|svg|pdf")
	cmd.Flags().BoolVar(&opts.detail, "detail", false, "Also print P/L, profit factor and drawdown")
	cmd.Flags().StringVar(&opts.orgPath, "org", "", "Write an Org-mode run report to this file")
	cmd.Flags().BoolVar(&opts.runDir, "run-dir", false, "Save charts under <out>/<run-id>")

	return cmd
}

// apply overlays the flags that were set on cfg.
func (o analyzeOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("file") {
		cfg.Source.Path = o.file
	}
	if f.Changed("type") {
		cfg.Source.Type = o.srcType
	}
	if f.Changed("table") {
		cfg.Source.Table = o.table
	}
	if f.Changed("out") {
		cfg.Output.Dir = o.outDir
	}
	if f.Changed("format") {
		cfg.Output.Format = o.format
	}
}

func loadTrades(ctx context.Context, cfg *config.Config) ([]journal.TradeRecord, error) {
	jo := journal.OptionsFrom(cfg)
	switch cfg.Source.Type {
	case "sqlite":
		return journal.LoadSQLite(ctx, cfg.Source.Path, cfg.Source.Table, jo)
	default:
		return journal.LoadCSV(ctx, cfg.Source.Path, jo)
	}
}

func runAnalyze(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts analyzeOptions) error {
	log := zerolog.Ctx(ctx)
	started := time.Now()
	runID := id.New(started)
	log.Debug().Str("run_id", runID).Str("source", cfg.Source.Path).Msg("starting analysis")

	recs, err := loadTrades(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}

	table := analysis.Derive(recs)
	sum, err := analysis.Compute(table)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", cfg.Source.Path, err)
	}

	out := cmd.OutOrStdout()
	analysis.PrintSummary(out, sum)
	if opts.detail {
		analysis.PrintPerformance(out, sum)
	}

	dir := cfg.Output.Dir
	if opts.runDir {
		dir = filepath.Join(dir, runID)
	}
	size := chart.Size{Width: cfg.Output.WidthIn, Height: cfg.Output.HeightIn}

	figs, renderErr := chart.RenderAll(table)
	run := &report.Run{
		ID:      runID,
		Created: started,
		Source:  cfg.Source.Path,
		Summary: sum,
	}
	for _, fig := range figs {
		path, err := chart.Save(fig, dir, cfg.Output.Format, size)
		if err != nil {
			return err
		}
		log.Info().Str("chart", fig.Name).Str("path", path).Msg("saved chart")
		run.Figures = append(run.Figures, report.Figure{Name: fig.Name, Path: path})
	}

	failed := unjoin(renderErr)
	for _, err := range failed {
		log.Warn().Err(err).Msg("chart not rendered")
		fmt.Fprintf(cmd.ErrOrStderr(), "chart skipped: %v\n", err)
		run.Problems = append(run.Problems, err.Error())
	}

	if opts.orgPath != "" {
		if err := run.WriteOrg(opts.orgPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info().Str("path", opts.orgPath).Str("run_id", runID).Msg("wrote report")
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d charts not rendered: %w", len(failed), len(chart.Charts), renderErr)
	}
	return nil
}

// unjoin splits an errors.Join result back into its parts.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	var j interface{ Unwrap() []error }
	if errors.As(err, &j) {
		return j.Unwrap()
	}
	return []error{err}
}
