package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// apiKeySetting is masked when settings are printed.
const apiKeySetting = "catalog.api_key"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the catalog connection, ingest tuning, cleansing and
ledger options. Settings are stored in config.toml in the configuration
directory; PNLD_API_KEY overrides the stored API key.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	t := newTheme(cmd.OutOrStdout())
	cmd.Println(t.Title.Render("Current Settings"))
	cmd.Println()

	for _, key := range settingsService.Keys() {
		value, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", key, err)
		}
		text := fmt.Sprint(value)
		switch {
		case key == apiKeySetting && text != "":
			text = maskAPIKey(text)
		case text == "":
			text = t.Muted.Render("(not set)")
		}
		cmd.Printf("  %-36s %s\n", key, text)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Println(t.Warning.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Run 'pnld settings set KEY VALUE' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if key == apiKeySetting {
		shown = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
