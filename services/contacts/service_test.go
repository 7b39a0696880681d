package contacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"contactdir/lib/testutil"
	"contactdir/services/contacts/db"
	"contactdir/services/contacts/extract"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const staffPage = `<!DOCTYPE html>
<html>
<body>
<div class="member">
	<div class="member_name"><a href="/teacher/1">陳大文</a></div>
	<div class="member_info_content">1234</div>
	<a href="mailto:dawen@example.edu.tw">dawen@example.edu.tw</a>
</div>
<div class="member">
	<div class="member_name"><a href="/teacher/2">林小美</a></div>
	<div class="member_info_content">5678</div>
	<a href="mailto:xiaomei@example.edu.tw">xiaomei@example.edu.tw</a>
</div>
<div class="member">
	<div class="member_name"><a href="/teacher/3">Amy Wang</a></div>
	<div class="member_info_content">9012</div>
	<a href="mailto:amy.wang@example.edu.tw">amy.wang@example.edu.tw</a>
</div>
</body>
</html>`

type memoryView struct {
	cleared int
	text    string
}

func (v *memoryView) Clear() {
	v.cleared++
	v.text = ""
}

func (v *memoryView) Show(text string) {
	v.text = text
}

func TestValidateUrl(t *testing.T) {
	require.NoError(t, ValidateUrl("https://example.com/contacts"))
	require.NoError(t, ValidateUrl("http://ai.ncut.edu.tw/p/412-1063-2382.php"))
	// the heuristic is substring-based on purpose
	require.NoError(t, ValidateUrl("httpx://weird-but-accepted"))

	for _, url := range []string{"", "ftp://example.com", "example.com/http", "just-http"} {
		err := ValidateUrl(url)
		require.Error(t, err, url)
		var verr ValidationError
		require.ErrorAs(t, err, &verr, url)
	}
}

func TestFetch(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/contacts/fetch",
		DbSchema: db.Schema,
	})
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(staffPage))
	}))
	defer server.Close()

	view := &memoryView{}
	store := NewStore(setup.DB)
	service := NewService(Options{
		Store:   store,
		Profile: extract.NcutProfile(),
		Layout:  DefaultLayout(),
		View:    view,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	records, err := service.Fetch(ctx, server.URL)
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, 1, view.cleared)
	lines := strings.Split(strings.TrimRight(view.text, "\n"), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, strings.Repeat("-", 70), lines[1])
	require.Contains(t, view.text, "dawen@example.edu.tw")

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	// refetching the identical page renders the same table but the
	// store's row count is unchanged
	records, err = service.Fetch(ctx, server.URL)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, 2, view.cleared)

	count, err = store.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}

func TestFetchHttpFailure(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/contacts/fetch_404",
		DbSchema: db.Schema,
	})
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	view := &memoryView{}
	service := NewService(Options{
		Store:   NewStore(setup.DB),
		Profile: extract.NcutProfile(),
		Layout:  DefaultLayout(),
		View:    view,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, err := service.Fetch(ctx, server.URL)
	require.Error(t, err)
	var ferr FetchError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, 404, ferr.StatusCode)

	// the view is never touched on a failed download
	require.Equal(t, 0, view.cleared)
	require.Equal(t, "", view.text)
}

func TestFetchSingleFlight(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/contacts/fetch_singleflight",
		DbSchema: db.Schema,
	})
	defer cleanup()

	var hits atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
			<-release
		}
		w.Write([]byte(staffPage))
	}))
	defer server.Close()

	service := NewService(Options{
		Store:   NewStore(setup.DB),
		Profile: extract.NcutProfile(),
		Layout:  DefaultLayout(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := service.Fetch(ctx, server.URL)
		done <- err
	}()

	// while the first fetch is parked inside the GET, a second trigger
	// bounces off the guard without reaching the network
	<-started
	_, err := service.Fetch(ctx, server.URL)
	require.ErrorIs(t, err, ErrFetchInFlight)

	close(release)
	require.NoError(t, <-done)
	require.EqualValues(t, 1, hits.Load())
}

func TestFetchRejectsUrlBeforeNetwork(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/contacts/fetch_validation",
		DbSchema: db.Schema,
	})
	defer cleanup()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	service := NewService(Options{
		Store:   NewStore(setup.DB),
		Profile: extract.NcutProfile(),
		Layout:  DefaultLayout(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	for _, url := range []string{"", "ftp://example.com"} {
		_, err := service.Fetch(ctx, url)
		var verr ValidationError
		require.ErrorAs(t, err, &verr, url)
	}
	require.EqualValues(t, 0, hits.Load())
}
