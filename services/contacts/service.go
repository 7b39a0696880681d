package contacts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"contactdir/services/contacts/extract"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/contacts")

// View is the display surface the rendered table is pushed to. The
// frontend implements it; Clear always runs before Show so stale rows
// never mix with fresh ones.
type View interface {
	Clear()
	Show(text string)
}

// ValidationError reports a url rejected before any network traffic.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid url: %s", e.Reason)
}

// FetchError reports a failed page download, either a transport error or
// a non-success http status.
type FetchError struct {
	Url        string
	StatusCode int
	Status     string
	Err        error
}

func (e FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.Url, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.Url, e.Status)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// ErrFetchInFlight is returned when a fetch is triggered while another
// one has not returned yet. Frontends should disable their trigger
// control for the duration of a fetch; this guard backs them up.
var ErrFetchInFlight = fmt.Errorf("a fetch is already in flight")

const FetchTimeout = time.Second * 10

type Options struct {
	// Client may be nil; a fresh client is created. Either way the
	// fetch timeout is pinned to FetchTimeout.
	Client  *resty.Client
	Store   Store
	Profile extract.Profile
	Layout  Layout
	// View may be nil, in which case nothing is displayed.
	View View
}

// Service is the fetch pipeline: download a listing page, extract contact
// records, display them, persist them.
type Service struct {
	http     *resty.Client
	store    Store
	profile  extract.Profile
	layout   Layout
	view     View
	inflight *atomic.Bool
}

func NewService(opts Options) Service {
	client := opts.Client
	if client == nil {
		client = resty.New()
	}
	client.SetTimeout(FetchTimeout)

	return Service{
		http:     client,
		store:    opts.Store,
		profile:  opts.Profile,
		layout:   opts.Layout,
		view:     opts.View,
		inflight: &atomic.Bool{},
	}
}

// ValidateUrl applies the legacy reachability heuristic: the url must be
// non-empty and contain both the "http" and "://" substrings. It is kept
// bug-compatible on purpose ("httpx://x" passes, "ftp://x" fails); a
// stricter parser would change which inputs reach the network.
func ValidateUrl(url string) error {
	if url == "" {
		return ValidationError{Reason: "url is empty"}
	}
	if !strings.Contains(url, "http") || !strings.Contains(url, "://") {
		return ValidationError{Reason: fmt.Sprintf("%q does not look like an http url", url)}
	}
	return nil
}

// Fetch downloads url, extracts contact records from it, pushes the
// rendered table to the view and persists the records. The view is left
// untouched when validation or the download fails.
func (s Service) Fetch(ctx context.Context, url string) ([]extract.Contact, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	if !s.inflight.CompareAndSwap(false, true) {
		return nil, ErrFetchInFlight
	}
	defer s.inflight.Store(false)

	err := ValidateUrl(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res, err := s.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		ferr := FetchError{Url: url, Err: err}
		span.RecordError(ferr)
		span.SetStatus(codes.Error, ferr.Error())
		return nil, ferr
	}
	if !res.IsSuccess() {
		ferr := FetchError{
			Url:        url,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
		}
		span.RecordError(ferr)
		span.SetStatus(codes.Error, ferr.Error())
		return nil, ferr
	}

	records, err := extract.Extract(ctx, string(res.Body()), s.profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	slog.InfoContext(ctx, "extracted contacts", "url", url, "records", len(records))

	if s.view != nil {
		s.view.Clear()
		s.view.Show(Render(records, s.layout))
	}

	err = s.store.UpsertIgnore(ctx, records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return records, nil
}
