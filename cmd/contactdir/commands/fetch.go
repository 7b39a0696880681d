package commands

import (
	"fmt"
	"log/slog"
	"os"

	"contactdir/lib/configutil"
	"contactdir/lib/serviceutil"
	"contactdir/lib/sqliteutil"
	"contactdir/services/contacts"
	"contactdir/services/contacts/db"
	"contactdir/services/contacts/extract"

	"dario.cat/mergo"
	"github.com/spf13/cobra"
)

const defaultListing = "https://ai.ncut.edu.tw/p/412-1063-2382.php"

type Config struct {
	Site   *extract.Profile `json:"site"`
	Layout *contacts.Layout `json:"layout"`
}

var fetchUrl *string

func init() {
	fetchUrl = fetchCmd.Flags().String("url", defaultListing, "The staff listing page to scrape.")
	rootCmd.AddCommand(fetchCmd)
}

// readConfig loads contactdir.json5, falling back on the built-in NCUT
// profile and layout when the file or a section is absent.
func readConfig() (extract.Profile, contacts.Layout) {
	cfg, err := configutil.ReadConfig[Config]("contactdir.json5")
	if os.IsNotExist(err) {
		return extract.NcutProfile(), contacts.DefaultLayout()
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return applyConfig(cfg)
}

// applyConfig merges the optional config sections onto the built-in NCUT
// profile and layout, so a partial section keeps the defaults for every
// field it leaves out.
func applyConfig(cfg Config) (extract.Profile, contacts.Layout) {
	profile := extract.NcutProfile()
	layout := contacts.DefaultLayout()

	if cfg.Site != nil {
		err := mergo.Merge(&profile, *cfg.Site, mergo.WithOverride)
		if err != nil {
			serviceutil.Fatal("failed to merge site config", err)
		}
	}
	if cfg.Layout != nil {
		// mergo considers a fixed-size array non-empty even when
		// all-zero, so the layout arrays merge element-wise instead
		for i, header := range cfg.Layout.Headers {
			if header != "" {
				layout.Headers[i] = header
			}
		}
		for i, width := range cfg.Layout.Widths {
			if width > 0 {
				layout.Widths[i] = width
			}
		}
	}
	return profile, layout
}

// stdoutView prints the rendered table to stdout. Clear is a no-op since
// a terminal run has no previous table to discard.
type stdoutView struct{}

func (stdoutView) Clear() {}

func (stdoutView) Show(text string) {
	fmt.Print(text)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--url <listing page>]",
	Short: "Scrapes a staff listing page, prints the contact table and persists it.",
	Run: func(cmd *cobra.Command, args []string) {
		profile, layout := readConfig()

		database, err := sqliteutil.OpenDB(db.Schema, *dbPath)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		store := contacts.NewStore(database)

		service := contacts.NewService(contacts.Options{
			Store:   store,
			Profile: profile,
			Layout:  layout,
			View:    stdoutView{},
		})

		records, err := service.Fetch(cmd.Context(), *fetchUrl)
		if err != nil {
			serviceutil.Fatal("failed to fetch contacts", err)
		}

		total, err := store.Count(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to count stored contacts", err)
		}
		slog.Info("fetch complete", "records", len(records), "stored", total)
	},
}
