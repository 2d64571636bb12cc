package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status [user-id]",
	Short: "Show safety flags and invariant state",
	Long:  "Runs the invariant check over all safety flags and prints each flag's\nstate. With a user id, also shows that user's authorization and\nviolation count.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	allSafe := a.gate.CheckInvariants()
	flags := a.gate.Flags()

	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-25s %-12s %-8s %s\n", "FLAG", "KIND", "ENABLED", "CHECKED")
	for _, name := range names {
		f := flags[name]
		fmt.Printf("%-25s %-12s %-8v %s\n", name, f.Kind, f.Enabled, f.LastChecked.Format("15:04:05"))
	}
	fmt.Println()
	if allSafe {
		fmt.Println("Invariants: OK")
	} else {
		fmt.Println("Invariants: VIOLATED")
	}

	if len(args) == 1 {
		userID := args[0]
		fmt.Println()
		fmt.Printf("User:       %s\n", userID)
		fmt.Printf("Authorized: %v\n", a.gate.IsAuthorized(userID))
		fmt.Printf("Violations: %d\n", a.gate.ViolationCount(userID))
	}
	return nil
}
