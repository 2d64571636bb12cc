package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkUser string

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkUser, "user", "u", "", "User id the content belongs to (required)")
	checkCmd.MarkFlagRequired("user")
}

var checkCmd = &cobra.Command{
	Use:   "check <content>",
	Short: "Check content against the boundary rules",
	Long: "Evaluates the content for the given user. Authorized users always pass.\n" +
		"For everyone else a restricted phrase hit blocks the content and counts\n" +
		"as a violation.\n\n" +
		"Exit code 0 if allowed, 1 if blocked.",
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	content := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}

	allowed := a.gate.ContentAllowed(content, checkUser)
	violations := a.gate.ViolationCount(checkUser)
	a.Close()

	if allowed {
		fmt.Println("ALLOWED")
		return nil
	}

	fmt.Printf("BLOCKED (violations: %d)\n", violations)
	os.Exit(1)
	return nil
}
