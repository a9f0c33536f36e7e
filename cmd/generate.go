package cmd

import (
	"fmt"
	"os"

	"consolidator/pkg/consolidate"
	"consolidator/pkg/notify"
	"consolidator/pkg/settings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// requestFlags are the flags that shape a consolidation request.
type requestFlags struct {
	dir        string
	output     string
	include    string
	exclude    string
	header     string
	headerFile string
	ignoreFile string
	ignoreCase bool
}

func (f *requestFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.dir, "dir", "d", "", "Project directory to consolidate")
	fs.StringVarP(&f.output, "output", "o", consolidate.DefaultOutput, "Output file")
	fs.StringVarP(&f.include, "include", "i", "", "Comma-separated include globs (default from settings)")
	fs.StringVarP(&f.exclude, "exclude", "e", "", "Comma-separated exclude globs (default from settings)")
	fs.StringVar(&f.header, "header", "", "Header text (default from settings)")
	fs.StringVar(&f.headerFile, "header-file", "", "Read the header text from a file")
	fs.StringVar(&f.ignoreFile, "ignore-file", "", "Gitignore-style rules file used to prune directories")
	fs.BoolVar(&f.ignoreCase, "ignore-case", false, "Match globs case-insensitively")
}

// request builds a consolidation request from flags, falling back to the
// loaded settings for anything not given on the command line.
func (f *requestFlags) request(cmd *cobra.Command, s settings.Settings, args []string) (consolidate.Request, error) {
	dir := f.dir
	if dir == "" && len(args) > 0 {
		dir = args[0]
	}

	patterns := s.Patterns()
	if cmd.Flags().Changed("include") {
		patterns.Include = settings.ParsePatterns(f.include)
	}
	if cmd.Flags().Changed("exclude") {
		patterns.Exclude = settings.ParsePatterns(f.exclude)
	}

	header, err := f.headerText(cmd, s)
	if err != nil {
		return consolidate.Request{}, err
	}

	return consolidate.Request{
		Root:       dir,
		Patterns:   patterns,
		Header:     header,
		Output:     f.output,
		IgnoreCase: f.ignoreCase,
		IgnoreFile: f.ignoreFile,
	}, nil
}

func (f *requestFlags) headerText(cmd *cobra.Command, s settings.Settings) (string, error) {
	switch {
	case f.headerFile != "":
		data, err := os.ReadFile(f.headerFile)
		if err != nil {
			return "", fmt.Errorf("failed to read header file: %w", err)
		}
		return string(data), nil
	case cmd.Flags().Changed("header"):
		return f.header, nil
	default:
		return s.DefaultHeader, nil
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	var flags requestFlags

	generateCmd := &cobra.Command{
		Use:   "generate [directory]",
		Short: "Write the consolidated file for a project directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd, a.settings, args)
			if err != nil {
				return err
			}

			runner := consolidate.NewRunner(consolidate.New(a.logger), a.logger)
			done, err := runner.Start(cmd.Context(), req)
			if err != nil {
				return err
			}

			n := <-done
			out := cmd.OutOrStdout()
			if !n.OK() {
				out = cmd.ErrOrStderr()
			}
			notify.NewPrinter(out, a.settings.Theme).Notify(n)
			if !n.OK() {
				return errReported
			}
			return nil
		},
	}

	flags.register(generateCmd.Flags())
	return generateCmd
}
