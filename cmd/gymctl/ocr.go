package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ocrUsecase "github.com/aigymos/gym-console/internal/usecase/ocr"
)

func newOCRCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocr",
		Short: "Body composition OCR tools",
	}
	cmd.AddCommand(newOCRExtractCmd(opts))
	return cmd
}

func newOCRExtractCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract body composition values from recognised text",
		Long:  "Extract body composition values from recognised text. Without a file, or with -, the text is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 0 || args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			if len(raw) == 0 {
				return errors.New("no text to extract from")
			}

			result := ocrUsecase.ExtractBodyComposition(string(raw))
			opts.logger.Debug("ocr.extracted",
				zap.Float64("confidence", result.Confidence),
				zap.Strings("warnings", result.Warnings),
			)
			return opts.render(cmd.OutOrStdout(), result)
		},
	}
}
