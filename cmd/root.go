package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"consolidator/pkg/logging"
	"consolidator/pkg/settings"
	"consolidator/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errReported marks a failure whose message was already shown to the user.
var errReported = errors.New("failure already reported")

// app carries the per-process state shared by subcommands. Settings are
// loaded once in the root's pre-run hook and passed along from here.
type app struct {
	debug        bool
	settingsFlag string

	settingsPath string
	settings     settings.Settings
	logger       *zap.Logger
}

// NewRootCmd builds the consolidator command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop(), settings: settings.Default()}

	rootCmd := &cobra.Command{
		Use:   "consolidator",
		Short: "Consolidator combines a project's source files into one text file",
		Long: `Consolidator walks a project directory, keeps the files matching the include
globs and none of the exclude globs, and writes them into a single document
under a header, ready to paste into a code review or a chat prompt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.Setup(a.debug, version.AppName, version.Get().Version)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			a.settingsPath = settings.ResolvePath(a.settingsFlag)
			a.settings = settings.Load(a.settingsPath, logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable development logging")
	rootCmd.PersistentFlags().StringVar(&a.settingsFlag, "settings", "",
		fmt.Sprintf("Settings file (default $%s or %s)", settings.EnvPath, settings.DefaultPath))

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newPreviewCmd(a),
		newSettingsCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args. Interrupts cancel a running
// consolidation between files.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}
