package extract

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"contactdir/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/contacts/extract")

// Contact is one directory entry scraped from a staff listing page.
type Contact struct {
	Name  string
	Ext   string
	Email string
}

// EmailShape is the conservative local@domain.tld shape an extracted
// address must conform to.
const EmailShape = `[\w.%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`

// Matcher locates the ordered occurrences of a single field in a page.
//
// When Selector is set it is a CSS selector; the candidate value of each
// matched element is the Attr attribute, or the element's text content when
// Attr is empty. Pattern then acts as a per-candidate filter: values that
// don't match are dropped and the first capture group (when one exists)
// replaces the value.
//
// When Selector is empty, Pattern runs over the raw body instead and every
// match contributes its first capture group.
type Matcher struct {
	Selector string `json:"selector"`
	Attr     string `json:"attr"`
	Pattern  string `json:"pattern"`
}

func (m Matcher) values(doc *goquery.Document, body string) ([]string, error) {
	var pattern *regexp.Regexp
	if m.Pattern != "" {
		var err error
		pattern, err = regexp.Compile(m.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", m.Pattern, err)
		}
	}

	if m.Selector == "" {
		if pattern == nil {
			return nil, fmt.Errorf("a matcher needs a selector or a pattern")
		}
		var values []string
		for _, groups := range pattern.FindAllStringSubmatch(body, -1) {
			values = append(values, capture(groups))
		}
		return values, nil
	}

	var values []string
	for _, node := range doc.Find(m.Selector).Nodes {
		value := ""
		if m.Attr != "" {
			for _, a := range node.Attr {
				if a.Key == m.Attr {
					value = a.Val
					break
				}
			}
		} else {
			value = htmlutil.Normalize(htmlutil.Text(node))
		}

		if pattern == nil {
			values = append(values, value)
			continue
		}
		groups := pattern.FindStringSubmatch(value)
		if groups == nil {
			continue
		}
		values = append(values, capture(groups))
	}
	return values, nil
}

func capture(groups []string) string {
	if len(groups) > 1 {
		return groups[1]
	}
	return groups[0]
}

// MismatchPolicy decides what happens when the three field matchers find
// differing numbers of values in the same document.
type MismatchPolicy string

const (
	// MismatchTruncate silently drops trailing entries of the longer
	// sequences. This mirrors the legacy scraper exactly.
	MismatchTruncate MismatchPolicy = "truncate"
	// MismatchWarn truncates like MismatchTruncate but logs the three
	// sequence lengths so partial markup doesn't lose data silently.
	MismatchWarn MismatchPolicy = "warn"
	// MismatchFail rejects the whole document.
	MismatchFail MismatchPolicy = "fail"
)

// Profile describes how one target site nests the three contact fields in
// its markup. Different sites get different profiles; the extraction logic
// itself never changes.
type Profile struct {
	Name     Matcher        `json:"name"`
	Ext      Matcher        `json:"ext"`
	Email    Matcher        `json:"email"`
	Mismatch MismatchPolicy `json:"mismatch"`
}

// NcutProfile matches the staff listing markup of the NCUT department
// pages the scraper was originally written against.
func NcutProfile() Profile {
	return Profile{
		Name: Matcher{Selector: "div.member_name a"},
		Ext:  Matcher{Selector: "div.member_info_content"},
		Email: Matcher{
			Selector: "a[href^='mailto:']",
			Attr:     "href",
			Pattern:  `^mailto:(` + EmailShape + `)$`,
		},
		Mismatch: MismatchWarn,
	}
}

// Extract runs the profile's three matchers independently over body and
// zips the resulting sequences positionally into contact records. Zero
// matches yield an empty slice, not an error.
func Extract(ctx context.Context, body string, profile Profile) ([]Contact, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse document")
		return nil, err
	}

	names, err := profile.Name.values(doc, body)
	if err != nil {
		return nil, fmt.Errorf("name matcher: %w", err)
	}
	exts, err := profile.Ext.values(doc, body)
	if err != nil {
		return nil, fmt.Errorf("ext matcher: %w", err)
	}
	emails, err := profile.Email.values(doc, body)
	if err != nil {
		return nil, fmt.Errorf("email matcher: %w", err)
	}

	n := min(len(names), len(exts), len(emails))
	if len(names) != len(exts) || len(exts) != len(emails) {
		policy := profile.Mismatch
		switch policy {
		case MismatchTruncate, MismatchWarn, MismatchFail:
		default:
			// unknown values (config typos) must not silence data loss
			policy = MismatchWarn
		}
		switch policy {
		case MismatchWarn:
			slog.WarnContext(
				ctx, "field sequences have mismatched lengths, truncating",
				"names", len(names),
				"exts", len(exts),
				"emails", len(emails),
			)
		case MismatchFail:
			err := fmt.Errorf(
				"mismatched field counts: %d names, %d exts, %d emails",
				len(names), len(exts), len(emails),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	records := make([]Contact, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, Contact{
			Name:  strings.TrimSpace(names[i]),
			Ext:   strings.TrimSpace(exts[i]),
			Email: strings.TrimSpace(emails[i]),
		})
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}
