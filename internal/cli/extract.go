package cli

import (
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/common"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/extract"

	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract plain text from a PDF, DOCX or text file",
		Long: `Extract the text of a transcript or job description. The file must
pass the upload policy (app.allowedExtensions, app.maxFileSize).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := dependencies(cmd)
			if err != nil {
				return err
			}

			extractor := extract.NewExtractor(extract.PolicyFromConfig(cfg.App), logger)
			doc, err := extractor.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := common.NewOutputHandler(logger)
			out.SetStdout(cmd.OutOrStdout())
			return out.HandleOutput(doc, cmdConfig)
		},
	}
	outputFormatFlag(cmd, &cmdConfig)
	return cmd
}
