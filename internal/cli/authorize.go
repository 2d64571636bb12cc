package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authorizeCmd)
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(authorizedCmd)
}

var authorizeCmd = &cobra.Command{
	Use:   "authorize <user-id>",
	Short: "Grant a user unrestricted content access",
	Long:  "Marks the user as authorized. Authorized users bypass restricted topic\nfiltering and may read sensitive stored data. The grant persists across\ninvocations until revoked.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthorize,
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <user-id>",
	Short: "Revoke a user's authorization",
	Args:  cobra.ExactArgs(1),
	RunE:  runRevoke,
}

var authorizedCmd = &cobra.Command{
	Use:   "authorized",
	Short: "List authorized users",
	RunE:  runAuthorized,
}

func runAuthorize(cmd *cobra.Command, args []string) error {
	userID := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.grants.Grant(userID); err != nil {
		return err
	}
	a.gate.Authorize(userID)

	fmt.Printf("Authorized %q\n", userID)
	return nil
}

func runRevoke(cmd *cobra.Command, args []string) error {
	userID := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.grants.Revoke(userID); err != nil {
		return err
	}
	a.gate.Revoke(userID)

	fmt.Printf("Revoked %q\n", userID)
	return nil
}

func runAuthorized(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.grants.List()
	if err != nil {
		return fmt.Errorf("list grants: %w", err)
	}
	if len(list) == 0 {
		fmt.Println("No authorized users.")
		return nil
	}

	fmt.Printf("%-30s %s\n", "USER", "GRANTED")
	for _, g := range list {
		fmt.Printf("%-30s %s\n", g.UserID, g.GrantedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
