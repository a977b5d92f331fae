package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/common"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/report"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/watch"

	"github.com/spf13/cobra"
)

type watchOptions struct {
	outDir   string
	format   string
	debounce time.Duration
	scan     bool
}

func newWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch [inbox-dir]",
		Short: "Render analyses dropped into a directory",
		Long: `Watch an inbox directory and render every new or changed analysis
file (JSON or YAML) into --out-dir. Events are debounced so a file that is
still being written is rendered once. Stops on Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Directory for rendered reports (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Document format: pdf or xlsx (default from config)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "Quiet period before a batch is rendered (default from config)")
	cmd.Flags().BoolVar(&opts.scan, "scan", false, "Also render files already in the directory")
	return cmd
}

func runWatch(cmd *cobra.Command, dir string, opts watchOptions) error {
	cfg, logger, err := dependencies(cmd)
	if err != nil {
		return err
	}

	if opts.outDir == "" {
		opts.outDir = cfg.Watch.OutputDir
	}
	if opts.format == "" {
		opts.format = cfg.Watch.Format
	}
	if opts.format == "" {
		opts.format = common.ReportFormatPDF
	}
	if err := common.ValidateReportFormat(opts.format); err != nil {
		return err
	}
	if opts.debounce <= 0 {
		opts.debounce = cfg.Watch.Debounce
	}
	if err := watch.EnsureOutputDir(opts.outDir); err != nil {
		return errors.NewIOError("DIRECTORY_CREATE_FAILED", "cannot create output directory", err).
			WithContext("dir", opts.outDir)
	}

	handle := watch.RenderHandler(watch.RenderConfig{
		Renderer:    report.NewRenderer(report.OptionsFromConfig(cfg.Report), logger),
		Loader:      common.NewInputLoader(logger),
		OutputDir:   opts.outDir,
		Format:      opts.format,
		Concurrency: cfg.Report.Concurrency,
		OnOutcome: func(o watch.Outcome) {
			if o.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "FAILED %s: %v\n", o.Input, o.Err)
				return
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s\n", o.Input, o.Output)
		},
	}, logger)

	w, err := watch.New(dir, watch.Options{
		Debounce:     opts.debounce,
		Accept:       acceptInputs(cfg.Watch.Extensions),
		ScanExisting: opts.scan,
	}, handle, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (format %s); press Ctrl-C to stop\n", dir, opts.format)
	return w.Run(cmd.Context())
}

// acceptInputs filters by the configured extensions, falling back to the
// formats the input loader decodes
func acceptInputs(extensions []string) func(string) bool {
	if len(extensions) == 0 {
		return common.IsInputFile
	}
	return func(name string) bool {
		return slices.Contains(extensions, utils.GetFileExtension(name))
	}
}
