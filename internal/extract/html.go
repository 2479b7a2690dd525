package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// CleanText strips HTML markup from text, returning the visible content.
// Plain text passes through unchanged apart from whitespace normalization.
func CleanText(text string) string {
	if !strings.Contains(text, "<") {
		return strings.TrimSpace(text)
	}

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return strings.TrimSpace(text)
	}

	return strings.TrimSpace(extractVisibleText(doc))
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Skip script, style, noscript tags
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
