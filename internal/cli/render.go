package cli

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/common"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/export"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/report"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/watch"

	"github.com/spf13/cobra"
)

type renderOptions struct {
	output      string
	outDir      string
	format      string
	concurrency int
	reportID    string
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [analysis-file...]",
		Short: "Render interview analyses as PDF reports or XLSX scorecards",
		Long: `Render one or more interview analysis files (JSON or YAML) into
paginated PDF reports, or XLSX scorecards with --format xlsx.

A single input is written to --output ("-" for stdout) or next to the input
as <name>-report.pdf. Several inputs are rendered concurrently into --out-dir.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := common.ValidateReportFormat(opts.format); err != nil {
				return err
			}
			if opts.output != "" && len(args) > 1 {
				return fmt.Errorf("--output takes a single input; use --out-dir for %d inputs", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `Output file path ("-" for stdout)`)
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Directory for rendered reports (default: next to each input)")
	cmd.Flags().StringVar(&opts.format, "format", common.ReportFormatPDF, "Document format: pdf or xlsx")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Maximum concurrent renders (default from config)")
	cmd.Flags().StringVar(&opts.reportID, "report-id", "", "Report ID printed in the footer (default: random UUID)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{common.ReportFormatPDF, common.ReportFormatXLSX}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runRender(cmd *cobra.Command, args []string, opts renderOptions) error {
	cfg, logger, err := dependencies(cmd)
	if err != nil {
		return err
	}
	renderer := report.NewRenderer(report.OptionsFromConfig(cfg.Report), logger)
	loader := common.NewInputLoader(logger)

	if len(args) == 1 && opts.outDir == "" {
		return renderOne(cmd, renderer, loader, args[0], opts, logger)
	}
	return renderMany(cmd, cfg, renderer, loader, args, opts, logger)
}

func renderOne(cmd *cobra.Command, renderer *report.Renderer, loader *common.InputLoader, input string, opts renderOptions, logger *errors.Logger) error {
	in, err := loader.Load(input)
	if err != nil {
		return err
	}

	ro := report.RenderOptions{ReportID: opts.reportID}
	var data []byte
	pages := 0
	switch opts.format {
	case common.ReportFormatXLSX:
		var buf bytes.Buffer
		if err := export.Write(&buf, in, renderer.Options(), ro); err != nil {
			return err
		}
		data = buf.Bytes()
	default:
		res, err := renderer.Render(cmd.Context(), in, ro)
		if err != nil {
			return err
		}
		data, pages, ro.ReportID = res.Data, res.Pages, res.ReportID
	}

	output := opts.output
	if output == "" {
		output = filepath.Join(filepath.Dir(input), utils.BaseName(input)+"-report."+opts.format)
	}

	out := common.NewOutputHandler(logger)
	out.SetStdout(cmd.OutOrStdout())
	if err := out.WriteDocument(data, output); err != nil {
		return err
	}

	if output != common.StdoutPath {
		if pages > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s (%d pages, id %s)\n", output, pages, ro.ReportID)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Scorecard written to %s\n", output)
		}
	}
	return nil
}

func renderMany(cmd *cobra.Command, cfg *config.Config, renderer *report.Renderer, loader *common.InputLoader, inputs []string, opts renderOptions, logger *errors.Logger) error {
	if err := watch.EnsureOutputDir(opts.outDir); err != nil {
		return errors.NewIOError("DIRECTORY_CREATE_FAILED", "cannot create output directory", err).
			WithContext("dir", opts.outDir)
	}

	concurrency := opts.concurrency
	if concurrency <= 0 {
		concurrency = cfg.Report.Concurrency
	}

	outcomes := watch.RenderFiles(cmd.Context(), watch.RenderConfig{
		Renderer:    renderer,
		Loader:      loader,
		OutputDir:   opts.outDir,
		Format:      opts.format,
		Concurrency: concurrency,
	}, inputs, common.NewFileProcessor(logger))

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			logger.LogError(o.Err, "Failed to render report", "input", o.Input)
			fmt.Fprintf(cmd.ErrOrStderr(), "FAILED %s: %v\n", o.Input, o.Err)
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s\n", o.Input, o.Output)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(outcomes))
	}
	return nil
}
