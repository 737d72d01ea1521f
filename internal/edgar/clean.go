package edgar

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HTMLToText reduces filing HTML (or XML) to clean plain text: script and
// style content is dropped and every text node becomes one trimmed line,
// with blank lines collapsed. This is the form persisted to the disk cache
// and handed to the extractors.
func HTMLToText(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapseLines(raw)
	}
	doc.Find("script,style").Remove()

	var chunks []string
	for _, root := range doc.Nodes {
		collectText(root, &chunks)
	}
	// Text nodes inside <pre> blocks may span several lines; a second pass
	// trims each resulting line. Internal spacing survives — pre-formatted
	// tables in older filings carry their column alignment inside single
	// text nodes, and downstream extractors key off that spacing.
	return collapseLines(strings.Join(chunks, "\n"))
}

// collectText appends each non-blank text node.
func collectText(n *html.Node, chunks *[]string) {
	if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			*chunks = append(*chunks, s)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, chunks)
	}
}

// collapseLines trims every line and drops blank ones.
func collapseLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
