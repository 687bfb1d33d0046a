package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag, inputFlag, outputFlag string
	var batch batchFlags

	ctx := newCommandContext(&configFlag, &inputFlag, &outputFlag)

	rootCmd := &cobra.Command{
		Use:   "acbfe",
		Short: "Edit and convert ACBF comic books",
		Long: "acbfe edits comic books that carry ACBF metadata.\n\n" +
			"With -i and -o it converts a book in batch mode:\n" +
			"  acbfe -i book.cbr -o book.cbz -f JPG -q 85 -r \"1200x1600>\" -l ANTIALIAS -t en",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputFlag == "" || outputFlag == "" {
				return cmd.Help()
			}
			return runBatch(cmd, ctx, batch)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&inputFlag, "input", "i", "", "Comic book to open (.acbf, .cbz, .cbr, .cb7)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Where to save the result (defaults to the input)")

	flags := rootCmd.Flags()
	flags.StringVarP(&batch.format, "format", "f", "", "Convert body pages to JPG, PNG, GIF, WEBP or BMP")
	flags.IntVarP(&batch.quality, "quality", "q", 0, "Image quality 1-100")
	flags.StringVarP(&batch.resize, "resize", "r", "", "Resize geometry, e.g. \"1200x1600>\" or \"800x<\"")
	flags.StringVarP(&batch.filter, "filter", "l", "", "Resize filter: NEAREST, BILINEAR, BICUBIC or ANTIALIAS")
	flags.StringVarP(&batch.textLayer, "text-layer", "t", "", "Burn the text layer of this language into the pages")

	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newPagesCommand(ctx))
	rootCmd.AddCommand(newTOCCommand(ctx))
	rootCmd.AddCommand(newSetCommand(ctx))
	rootCmd.AddCommand(newGetCommand(ctx))
	for _, cmd := range newGroupCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newPageCommand(ctx))
	rootCmd.AddCommand(newFramesCommand(ctx))
	rootCmd.AddCommand(newBubbleCommand(ctx))
	rootCmd.AddCommand(newStylesCommand(ctx))
	rootCmd.AddCommand(newFontsCommand(ctx))
	rootCmd.AddCommand(newRenderCommand(ctx))
	rootCmd.AddCommand(newViewCommand(ctx))
	rootCmd.AddCommand(newLibraryCommand(ctx))
	rootCmd.AddCommand(newWorkspaceCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))

	return rootCmd
}
