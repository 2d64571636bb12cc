package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
}

var putCmd = &cobra.Command{
	Use:   "put <user-id> <data-type> <value>",
	Short: "Store a value in the user's vault",
	Long: "Stores the value under (user, data-type). Sensitive types (banking_info,\n" +
		"payment_details, api_keys) are always obfuscated at high level; other\n" +
		"types follow the user's encryption preferences.\n\n" +
		"Exit code 0 on success, 1 if the write was refused or failed.",
	Args: cobra.ExactArgs(3),
	RunE: runPut,
}

var getCmd = &cobra.Command{
	Use:   "get <user-id> <data-type>",
	Short: "Read a value from the user's vault",
	Long: "Reads the value stored under (user, data-type). Sensitive types require\n" +
		"the user to be authorized. With auto-decrypt enabled the stored value is\n" +
		"decoded before printing; otherwise the obfuscated form is returned.\n\n" +
		"Exit code 0 if a value was returned, 1 otherwise.",
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runPut(cmd *cobra.Command, args []string) error {
	userID, dataType, value := args[0], args[1], args[2]

	a, err := newApp()
	if err != nil {
		return err
	}

	ok := a.vault.Put(context.Background(), userID, dataType, value)
	a.Close()

	if !ok {
		fmt.Fprintln(os.Stderr, "REFUSED: write blocked or backend unavailable")
		os.Exit(1)
	}
	fmt.Printf("Stored %s/%s\n", userID, dataType)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	userID, dataType := args[0], args[1]

	a, err := newApp()
	if err != nil {
		return err
	}

	value := a.vault.Get(context.Background(), userID, dataType)
	a.Close()

	if value == nil {
		fmt.Fprintln(os.Stderr, "DENIED: no value, access denied, or backend unavailable")
		os.Exit(1)
	}
	fmt.Println(*value)
	return nil
}
