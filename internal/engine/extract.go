package engine

import (
	"errors"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrUnreadableDocument means no extraction stage produced enough text
// to treat the input as a resume.
var ErrUnreadableDocument = errors.New("unreadable document")

// ExtractText extracts resume text from an HTML document.
// Conversion to markdown preserves list and heading structure, which the
// structuring step relies on; goquery and a bare node walk are fallbacks.
func ExtractText(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", fmt.Errorf("extract: %w", ErrUnreadableDocument)
	}

	if md, err := htmltomarkdown.ConvertString(src); err == nil {
		text := CollapseSpaces(md)
		if len(text) >= cfg.MinDocumentChars {
			return text, nil
		}
	}

	if text, err := extractWithGoquery(src); err == nil && len(text) >= cfg.MinDocumentChars {
		return text, nil
	}

	text := extractTextNodes(src)
	if len(text) < cfg.MinDocumentChars {
		return "", fmt.Errorf("extract: %d chars below minimum %d: %w", len(text), cfg.MinDocumentChars, ErrUnreadableDocument)
	}
	return text, nil
}

// extractWithGoquery strips chrome elements and pulls text from the
// main content region.
func extractWithGoquery(src string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", err
	}

	removeSelectors := []string{
		"script", "style", "noscript", "iframe", "svg",
		"header", "footer", "nav", "aside",
	}
	doc.Find(strings.Join(removeSelectors, ", ")).Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	contentSel := doc.Find("article, main, .resume, .content, #content").First()
	if contentSel.Length() == 0 {
		contentSel = doc.Find("body")
	}

	var sb strings.Builder
	contentSel.Find("h1, h2, h3, h4, p, li, td, dt, dd").Each(func(i int, s *goquery.Selection) {
		line := strings.TrimSpace(s.Text())
		if line != "" {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	})
	text := sb.String()
	if text == "" {
		text = contentSel.Text()
	}
	return CollapseSpaces(text), nil
}

// extractTextNodes walks the parse tree directly, last resort for
// markup goquery selectors cannot navigate.
func extractTextNodes(src string) string {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return CollapseSpaces(CleanHTML(src))
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				sb.WriteString(t)
				sb.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return CollapseSpaces(sb.String())
}
