// Package ingestion turns stored job posting fields into plain text.
package ingestion

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelectors are elements whose boundaries separate words in rendered text.
const blockSelectors = "br, p, div, li, ul, ol, tr, td, th, h1, h2, h3, h4, h5, h6, section, article"

// markupElements are the element names that mark a field as HTML. Angle
// bracketed words outside this set, such as Map<String> or <company name>,
// parse as unknown elements and leave the text alone.
var markupElements = map[string]bool{
	"a": true, "article": true, "b": true, "blockquote": true, "br": true,
	"code": true, "dd": true, "div": true, "dl": true, "dt": true,
	"em": true, "font": true, "footer": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "i": true, "img": true, "li": true, "noscript": true,
	"ol": true, "p": true, "pre": true, "script": true, "section": true,
	"small": true, "span": true, "strong": true, "style": true, "sub": true,
	"sup": true, "table": true, "tbody": true, "td": true, "th": true,
	"thead": true, "tr": true, "u": true, "ul": true,
}

// LooksLikeHTML reports whether s contains at least one standard HTML element.
func LooksLikeHTML(s string) bool {
	return parseMarkup(s) != nil
}

// PlainText strips HTML markup from s. Text without standard HTML elements is
// returned unchanged so plain descriptions keep their exact wording and spacing.
func PlainText(s string) string {
	doc := parseMarkup(s)
	if doc == nil {
		return s
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find(blockSelectors).Each(func(_ int, sel *goquery.Selection) {
		sel.AfterHtml(" ")
	})

	return cleanWhitespace(doc.Text())
}

// parseMarkup parses s and returns the document only when it holds a
// recognised HTML element.
func parseMarkup(s string) *goquery.Document {
	if !strings.Contains(s, "<") {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil
	}

	found := false
	doc.Find("head *, body *").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		found = markupElements[goquery.NodeName(sel)]
		return !found
	})
	if !found {
		return nil
	}
	return doc
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
