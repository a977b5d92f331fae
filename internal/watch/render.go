package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/common"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/export"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/report"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"
)

// Outcome reports what happened to one input of a batch
type Outcome struct {
	Input    string
	Output   string
	ReportID string
	Err      error
}

// RenderConfig wires an inbox batch to the report renderer
type RenderConfig struct {
	Renderer    *report.Renderer
	Loader      *common.InputLoader
	OutputDir   string
	Format      string
	Concurrency int
	// OnOutcome is called once per input after its output is written
	OnOutcome func(Outcome)
}

// RenderHandler returns a HandleFunc that renders every file of a batch into
// OutputDir. Failures are logged per file and never stop the watcher.
func RenderHandler(cfg RenderConfig, logger *errors.Logger) HandleFunc {
	if logger == nil {
		logger = errors.Discard()
	}
	if cfg.Format == "" {
		cfg.Format = common.ReportFormatPDF
	}
	files := common.NewFileProcessor(logger)

	return func(ctx context.Context, paths []string) {
		for _, o := range RenderFiles(ctx, cfg, paths, files) {
			if o.Err != nil {
				logger.LogError(o.Err, "Failed to render inbox file", "input", o.Input)
			} else {
				logger.Info("Rendered inbox file", "input", o.Input, "output", o.Output, "report_id", o.ReportID)
			}
			if cfg.OnOutcome != nil {
				cfg.OnOutcome(o)
			}
		}
	}
}

// RenderFiles loads, renders and writes each path, one outcome per path in
// input order. PDF renders run concurrently up to cfg.Concurrency.
func RenderFiles(ctx context.Context, cfg RenderConfig, paths []string, files *common.FileProcessor) []Outcome {
	outcomes := make([]Outcome, len(paths))
	var jobs []report.Job
	var index []int

	for i, path := range paths {
		outcomes[i].Input = path
		in, err := cfg.Loader.Load(path)
		if err != nil {
			outcomes[i].Err = err
			continue
		}
		jobs = append(jobs, report.Job{Name: path, Input: in})
		index = append(index, i)
	}

	if cfg.Format == common.ReportFormatXLSX {
		for j, job := range jobs {
			o := &outcomes[index[j]]
			var buf bytes.Buffer
			if err := export.Write(&buf, job.Input, cfg.Renderer.Options(), report.RenderOptions{}); err != nil {
				o.Err = err
				continue
			}
			o.Output = outputPath(cfg.OutputDir, job.Name, common.ReportFormatXLSX)
			o.Err = files.WriteFile(o.Output, buf.Bytes())
		}
		return outcomes
	}

	results, batchErr := cfg.Renderer.RenderBatch(ctx, jobs, cfg.Concurrency)
	for j, res := range results {
		o := &outcomes[index[j]]
		switch {
		case res.Err != nil:
			o.Err = res.Err
		case res.Result == nil:
			// skipped because the batch was cancelled
			o.Err = batchErr
			if o.Err == nil {
				o.Err = context.Canceled
			}
		default:
			o.ReportID = res.Result.ReportID
			o.Output = outputPath(cfg.OutputDir, jobs[j].Name, common.ReportFormatPDF)
			o.Err = files.WriteFile(o.Output, res.Result.Data)
		}
	}
	return outcomes
}

// outputPath maps inbox/call.json to outDir/call-report.pdf
func outputPath(outDir, input, format string) string {
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, utils.BaseName(input)+"-report."+format)
}

// EnsureOutputDir creates the output directory when it does not exist
func EnsureOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0750)
}
