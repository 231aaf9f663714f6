package detect

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/ebarkova/lede/internal/model"
)

// VisibleText extracts the readable text from an HTML fragment, skipping
// script/style content. Rich-text editors hand the engine HTML rather than
// plain prose; detection runs on the stripped text.
func VisibleText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// Treat unparseable input as plain text.
		return htmlContent
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "li":
				if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n\n") {
					buf.WriteString("\n\n")
				}
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
	walk(doc)
	return strings.TrimSpace(buf.String())
}

// DetectHTML strips markup and runs detection on the visible text.
// Positions refer to the stripped text, not the original markup.
func (d *Detector) DetectHTML(htmlContent string) []model.Claim {
	return d.Detect(VisibleText(htmlContent))
}
