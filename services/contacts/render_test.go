package contacts

import (
	"strings"
	"testing"

	"contactdir/lib/textwidth"
	"contactdir/services/contacts/extract"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	records := []extract.Contact{
		{Name: "陳大文", Ext: "1234", Email: "dawen@example.edu.tw"},
		{Name: "Amy Wang", Ext: "5678", Email: "amy.wang@example.edu.tw"},
	}

	out := Render(records, DefaultLayout())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	// the header is all-ASCII so byte offsets equal display cells
	require.Equal(t, 0, strings.Index(lines[0], "Name"))
	require.Equal(t, 20, strings.Index(lines[0], "Ext"))
	require.Equal(t, 40, strings.Index(lines[0], "Email"))

	require.Equal(t, strings.Repeat("-", 70), lines[1])

	// every cell fits its column, so all lines align to the summed width
	for _, line := range lines {
		require.Equal(t, 70, textwidth.Width(line), line)
	}

	require.True(t, strings.HasPrefix(lines[2], "陳大文"))
	require.True(t, strings.HasPrefix(lines[3], "Amy Wang"))
}

func TestRenderCjkHeaders(t *testing.T) {
	layout := Layout{
		Headers: [3]string{"姓名", "分機", "Email"},
		Widths:  [3]int{20, 20, 30},
	}

	out := Render(nil, layout)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, 70, textwidth.Width(lines[0]))
	require.Equal(t, strings.Repeat("-", 70), lines[1])
}

func TestRenderOverflow(t *testing.T) {
	longEmail := "a.very.long.address.that.overflows@some.department.example.edu.tw"
	records := []extract.Contact{
		{Name: "陳大文", Ext: "1234", Email: longEmail},
	}

	out := Render(records, DefaultLayout())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	// overflowing cells are kept whole, never truncated
	require.Contains(t, lines[2], longEmail)
	require.Greater(t, textwidth.Width(lines[2]), 70)
}
