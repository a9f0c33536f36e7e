package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"consolidator/pkg/notify"
	"consolidator/pkg/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSettingsCmd(a *app) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show, save or reset the persisted defaults",
	}
	settingsCmd.AddCommand(
		newSettingsShowCmd(a),
		newSettingsSaveCmd(a),
		newSettingsResetCmd(a),
	)
	return settingsCmd
}

func newSettingsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(a.settings, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", a.settingsPath)
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newSettingsSaveCmd(a *app) *cobra.Command {
	var (
		include    string
		exclude    string
		header     string
		headerFile string
		theme      string
	)

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Update the settings file from flags",
		Long: `Save writes the effective settings back to the settings file, replacing
whichever values were given as flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.settings
			if cmd.Flags().Changed("include") {
				s.IncludePatterns = settings.ParsePatterns(include)
			}
			if cmd.Flags().Changed("exclude") {
				s.ExcludePatterns = settings.ParsePatterns(exclude)
			}
			if cmd.Flags().Changed("header") {
				s.DefaultHeader = header
			}
			if headerFile != "" {
				data, err := os.ReadFile(headerFile)
				if err != nil {
					return fmt.Errorf("failed to read header file: %w", err)
				}
				s.DefaultHeader = string(data)
			}
			if cmd.Flags().Changed("theme") {
				s.Theme = theme
			}
			return saveSettings(cmd, a, s)
		},
	}

	saveCmd.Flags().StringVarP(&include, "include", "i", "", "Comma-separated include globs")
	saveCmd.Flags().StringVarP(&exclude, "exclude", "e", "", "Comma-separated exclude globs")
	saveCmd.Flags().StringVar(&header, "header", "", "Default header text")
	saveCmd.Flags().StringVar(&headerFile, "header-file", "", "Read the default header from a file")
	saveCmd.Flags().StringVar(&theme, "theme", "", "Notification theme: "+strings.Join(notify.ThemeNames(), ", "))
	return saveCmd
}

func newSettingsResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the settings file with the built-in defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveSettings(cmd, a, settings.Default())
		},
	}
}

// saveSettings persists s and reports the outcome. A failed save never
// affects anything but the settings file.
func saveSettings(cmd *cobra.Command, a *app, s settings.Settings) error {
	if err := settings.Save(a.settingsPath, s); err != nil {
		a.logger.Error("Failed to save settings", zap.String("path", a.settingsPath), zap.Error(err))
		notify.NewPrinter(cmd.ErrOrStderr(), s.Theme).Failure("Failed to save settings: " + err.Error())
		return errReported
	}
	a.settings = s
	notify.NewPrinter(cmd.OutOrStdout(), s.Theme).Success("Settings saved successfully to " + a.settingsPath)
	return nil
}
