package contacts

import (
	"strings"

	"contactdir/lib/textwidth"
	"contactdir/services/contacts/extract"
)

// Layout declares the header titles and column widths (in display cells)
// of the rendered table. Headers may be CJK; width math accounts for it.
type Layout struct {
	Headers [3]string `json:"headers"`
	Widths  [3]int    `json:"widths"`
}

func DefaultLayout() Layout {
	return Layout{
		Headers: [3]string{"Name", "Ext", "Email"},
		Widths:  [3]int{20, 20, 30},
	}
}

// Render formats records as a fixed-width table: a padded header row, a
// dash rule spanning the summed column widths, then one padded row per
// record in input order. Cells wider than their column overflow, they are
// never truncated.
func Render(records []extract.Contact, layout Layout) string {
	out := strings.Builder{}

	for i, header := range layout.Headers {
		out.WriteString(textwidth.Pad(header, layout.Widths[i]))
	}
	out.WriteString("\n")

	total := layout.Widths[0] + layout.Widths[1] + layout.Widths[2]
	out.WriteString(strings.Repeat("-", total))
	out.WriteString("\n")

	for _, r := range records {
		cells := [3]string{r.Name, r.Ext, r.Email}
		for i, cell := range cells {
			out.WriteString(textwidth.Pad(cell, layout.Widths[i]))
		}
		out.WriteString("\n")
	}

	return out.String()
}
