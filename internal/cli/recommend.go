package cli

import (
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/common"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/recommend"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/report"

	"github.com/spf13/cobra"
)

func newRecommendCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "recommend [analysis-file]",
		Short: "Print the hiring recommendations for an interview analysis",
		Long: `Print the prioritized recommendation list the report would contain,
capped by report.maxRecommendations and report.recommendationMaxChars.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := dependencies(cmd)
			if err != nil {
				return err
			}

			in, err := common.NewInputLoader(logger).Load(args[0])
			if err != nil {
				return err
			}

			opts := report.OptionsFromConfig(cfg.Report)
			list := recommend.Build(*in, opts.MaxRecommendations, opts.RecommendationMaxChars)

			out := common.NewOutputHandler(logger)
			out.SetStdout(cmd.OutOrStdout())
			return out.HandleOutput(list, cmdConfig)
		},
	}
	outputFormatFlag(cmd, &cmdConfig)
	return cmd
}
