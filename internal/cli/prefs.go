package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slconnect/safeguard/internal/model"
)

var (
	prefsEnabled     bool
	prefsLevel       string
	prefsAutoDecrypt bool
)

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsSetCmd.Flags().BoolVar(&prefsEnabled, "encryption", false, "Enable or disable obfuscation for non-sensitive data")
	prefsSetCmd.Flags().StringVar(&prefsLevel, "level", "", "Obfuscation level (standard|high|quantum)")
	prefsSetCmd.Flags().BoolVar(&prefsAutoDecrypt, "auto-decrypt", false, "Decode stored values on read")
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "User encryption preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user's encryption preferences",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <user-id>",
	Short: "Update a user's encryption preferences",
	Long:  "Only the flags given on the command line change; everything else keeps\nits current value.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsSet,
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	prefs := a.vault.LoadPreferences(context.Background(), args[0])
	printPrefs(args[0], prefs)
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	userID := args[0]

	var patch model.PreferencesPatch
	if cmd.Flags().Changed("encryption") {
		patch.Enabled = &prefsEnabled
	}
	if cmd.Flags().Changed("level") {
		lvl := model.Level(prefsLevel)
		if !model.ValidLevel(lvl) {
			return fmt.Errorf("invalid level %q: must be standard, high, or quantum", prefsLevel)
		}
		patch.Level = &lvl
	}
	if cmd.Flags().Changed("auto-decrypt") {
		patch.AutoDecrypt = &prefsAutoDecrypt
	}
	if patch.Enabled == nil && patch.Level == nil && patch.AutoDecrypt == nil {
		return fmt.Errorf("nothing to change: pass at least one of --encryption, --level, --auto-decrypt")
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	ok := a.vault.UpdatePreferences(context.Background(), userID, patch)
	prefs := a.vault.LoadPreferences(context.Background(), userID)
	a.Close()

	if !ok {
		fmt.Fprintln(os.Stderr, "FAILED: preferences not persisted")
		os.Exit(1)
	}
	printPrefs(userID, prefs)
	return nil
}

func printPrefs(userID string, p model.Preferences) {
	fmt.Printf("User:         %s\n", userID)
	fmt.Printf("Encryption:   %v\n", p.Enabled)
	fmt.Printf("Level:        %s\n", p.Level)
	fmt.Printf("Auto-decrypt: %v\n", p.AutoDecrypt)
}
