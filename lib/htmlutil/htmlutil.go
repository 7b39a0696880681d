package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Text returns the concatenated text content of node, like the DOM
// textContent property.
func Text(node *html.Node) string {
	var buffer bytes.Buffer
	appendText(node, &buffer)
	return buffer.String()
}

func appendText(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		appendText(child, buffer)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// Normalize strips non-printable runes, trims surrounding whitespace and
// collapses runs of inner whitespace into a single space.
func Normalize(s string) string {
	kept := strings.Builder{}
	for _, r := range s {
		if unicode.IsPrint(r) {
			kept.WriteRune(r)
		}
	}
	out := strings.Trim(kept.String(), " \t\n")
	return innerWhitespace.ReplaceAllString(out, " ")
}
