package commands

import (
	"context"
	"fmt"
	"os"

	"contactdir/lib/telemetry"

	"github.com/spf13/cobra"
)

var dbPath *string
var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "contactdir",
	Short: "contactdir scrapes staff contact listings into a local database.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	dbPath = rootCmd.PersistentFlags().String("db", "contacts.db", "The database contacts are persisted to.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
