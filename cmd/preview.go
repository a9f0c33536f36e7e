package cmd

import (
	"fmt"

	"consolidator/pkg/consolidate"
	"consolidator/pkg/notify"
	"consolidator/pkg/settings"

	"github.com/spf13/cobra"
)

func newPreviewCmd(a *app) *cobra.Command {
	var flags requestFlags

	previewCmd := &cobra.Command{
		Use:   "preview [directory]",
		Short: "Show the active patterns and the files they select",
		Long: `Preview prints the include and exclude globs in effect. Given a directory it
also lists, in output order, every file that generate would write.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd, a.settings, args)
			if err != nil {
				return err
			}

			p := notify.NewPrinter(cmd.OutOrStdout(), a.settings.Theme)
			p.Heading("Include patterns:")
			p.Bullets(req.Patterns.Include)
			fmt.Fprintln(cmd.OutOrStdout())
			p.Heading("Exclude patterns:")
			p.Bullets(req.Patterns.Exclude)
			fmt.Fprintln(cmd.OutOrStdout())
			p.Note(fmt.Sprintf("As flags: --include %q --exclude %q",
				settings.JoinPatterns(req.Patterns.Include), settings.JoinPatterns(req.Patterns.Exclude)))

			if req.Root == "" {
				return nil
			}

			files, err := consolidate.New(a.logger).Preview(cmd.Context(), req)
			if err != nil {
				notify.NewPrinter(cmd.ErrOrStderr(), a.settings.Theme).Failure(err.Error())
				return errReported
			}

			rels := make([]string, len(files))
			for i, f := range files {
				rels[i] = f.Rel
			}
			fmt.Fprintln(cmd.OutOrStdout())
			p.Heading(fmt.Sprintf("Files that will be included (%d):", len(rels)))
			p.Bullets(rels)
			return nil
		},
	}

	flags.register(previewCmd.Flags())
	return previewCmd
}
