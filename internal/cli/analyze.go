package cli

import (
	"context"
	"fmt"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/ai"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/common"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/extract"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/report"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"

	"github.com/spf13/cobra"
)

// newAIService is replaced in tests
var newAIService = func(cfg *config.Config, logger *errors.Logger) (*ai.Service, error) {
	if err := cfg.RequireAI(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey, err.Error(), nil)
	}
	interviewConfig := cfg.GetInterviewConfig()
	return ai.NewService(&interviewConfig, ai.OperationInterview, logger)
}

type analyzeOptions struct {
	cmdConfig      common.CommandConfig
	jobDescription string
	pdf            string
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [transcript-file]",
		Short: "Analyze an interview transcript with AI",
		Long: `Extract an interview transcript (PDF, DOCX or text), ask the configured
AI model for a structured analysis and print it. With --jd the answers are
scored against the job description; with --pdf the analysis is also rendered
as a report.

The analysis output can be fed back into "render" and "recommend".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}
	outputFormatFlag(cmd, &opts.cmdConfig)
	cmd.Flags().StringVar(&opts.jobDescription, "jd", "", "Job description file (PDF, DOCX or text)")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "Also render the analysis to this PDF file")
	return cmd
}

func runAnalyze(cmd *cobra.Command, transcript string, opts analyzeOptions) error {
	cfg, logger, err := dependencies(cmd)
	if err != nil {
		return err
	}

	aiService, err := newAIService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.LogError(err, "Failed to close AI service")
		}
	}()

	extractor := extract.NewExtractor(extract.PolicyFromConfig(cfg.App), logger)

	createInput := func(ctx context.Context) (types.AnalyzeInterviewInput, error) {
		doc, err := extractor.Extract(ctx, transcript)
		if err != nil {
			return types.AnalyzeInterviewInput{}, err
		}
		input := types.AnalyzeInterviewInput{FileName: doc.FileName, Transcript: doc.Text}

		if opts.jobDescription != "" {
			jd, err := extractor.Extract(ctx, opts.jobDescription)
			if err != nil {
				return types.AnalyzeInterviewInput{}, err
			}
			input.JobDescription = jd.Text
		}
		return input, nil
	}

	logDetails := func(input types.AnalyzeInterviewInput, cfg common.CommandConfig) {
		logger.Info("Starting interview analysis",
			"file", input.FileName,
			"transcript_chars", len(input.Transcript),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	cmdConfig := opts.cmdConfig
	cmdConfig.Stdout = cmd.OutOrStdout()

	result, err := common.RunAICommand(
		cmd.Context(),
		logger,
		cmdConfig,
		createInput,
		aiService.AnalyzeInterview,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to analyze interview: %w", err)
	}

	if opts.pdf != "" {
		res, err := report.NewRenderer(report.OptionsFromConfig(cfg.Report), logger).
			Render(cmd.Context(), result, report.RenderOptions{})
		if err != nil {
			return err
		}
		out := common.NewOutputHandler(logger)
		out.SetStdout(cmd.OutOrStdout())
		if err := out.WriteDocument(res.Data, opts.pdf); err != nil {
			return err
		}
		logger.Info("Analysis report rendered", "file", opts.pdf, "pages", res.Pages, "report_id", res.ReportID)
	}

	logger.Info("Interview analysis completed successfully")
	return nil
}
