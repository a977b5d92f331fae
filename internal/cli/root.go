package cli

import (
	"context"
	"fmt"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/common"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/formatters"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sentivox",
		Short: "Interview analysis reports",
		Long: `Sentivox turns interview analyses into paginated PDF reports and
spreadsheet scorecards. It can extract transcripts from PDF, DOCX and text
files, ask an AI model to analyze an interview, watch an inbox directory for
new analyses and serve all of it over HTTP.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRenderCmd(),
		newRecommendCmd(),
		newExtractCmd(),
		newAnalyzeCmd(),
		newWatchCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

// WithDependencies attaches the config and logger every subcommand reads
func WithDependencies(ctx context.Context, cfg *config.Config, logger *errors.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey, cfg)
	return context.WithValue(ctx, loggerKey, logger)
}

// Execute runs the CLI with the config and logger available to all subcommands
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	return NewRootCmd().ExecuteContext(WithDependencies(ctx, cfg, logger))
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok && cfg != nil {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok && logger != nil {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

// dependencies fetches both values for a RunE
func dependencies(cmd *cobra.Command) (*config.Config, *errors.Logger, error) {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// outputFormatFlag registers --format validated against app.supportedFormats
func outputFormatFlag(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, yaml, text, or markdown")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if cmdConfig.OutputFormat == "" {
			cmdConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
	}

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return formatters.GlobalRegistry.GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
	})
}
