package commands

import (
	"os"

	"contactdir/lib/serviceutil"
	"contactdir/lib/sqliteutil"
	"contactdir/services/contacts"
	"contactdir/services/contacts/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every contact persisted so far.",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := sqliteutil.OpenDB(db.Schema, *dbPath)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		rows, err := contacts.NewStore(database).List(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list contacts", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name", "Ext", "Email"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.ID, r.Name, r.Ext, r.Email})
		}
		t.Render()
	},
}
