package sanitize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// InosmiArticleSelector locates the article body on inosmi.ru pages.
	InosmiArticleSelector = "article.article"
)

var (
	// defaultBlacklistTags are removed together with their content.
	defaultBlacklistTags = []string{"script", "time"}

	// defaultUnwrapTags are replaced by their children in HTML output.
	defaultUnwrapTags = []string{"div", "p", "span", "address", "article", "header", "footer"}

	// keptAttributes lists the only attribute preserved per tag.
	keptAttributes = map[string]string{
		"a":   "href",
		"img": "src",
	}

	// blockTags end a line in plain text output.
	blockTags = map[string]bool{
		"address": true, "article": true, "blockquote": true, "br": true,
		"div": true, "figcaption": true, "figure": true, "footer": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"header": true, "li": true, "p": true, "section": true, "tr": true,
	}

	blankLines = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)
)

// InosmiSanitizer extracts articles from inosmi.ru pages.
type InosmiSanitizer struct {
	selector   string
	blacklist  string
	unwrapTags string
}

// InosmiOption configures an InosmiSanitizer.
type InosmiOption func(*InosmiSanitizer)

// WithArticleSelector overrides the CSS selector of the article element.
func WithArticleSelector(selector string) InosmiOption {
	return func(s *InosmiSanitizer) {
		if selector != "" {
			s.selector = selector
		}
	}
}

// NewInosmiSanitizer creates a sanitizer for inosmi.ru markup.
func NewInosmiSanitizer(opts ...InosmiOption) *InosmiSanitizer {
	s := &InosmiSanitizer{
		selector:   InosmiArticleSelector,
		blacklist:  strings.Join(defaultBlacklistTags, ", "),
		unwrapTags: strings.Join(defaultUnwrapTags, ", "),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sanitize implements Sanitizer.
//
// Scripts and <time> elements are dropped and every attribute except
// a[href] and img[src] is stripped. HTML output is wrapped in a bare
// <article> element with layout tags unwrapped; plain text output keeps
// one line per block element.
func (s *InosmiSanitizer) Sanitize(rawHTML string, plaintext bool) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	article := doc.Find(s.selector).First()
	if article.Length() == 0 {
		return "", fmt.Errorf("%w: no element matches %q", ErrArticleNotFound, s.selector)
	}

	article.Find(s.blacklist).Remove()
	removeBuzzAttrs(article)

	if plaintext {
		return extractText(article.Nodes[0]), nil
	}

	for _, n := range article.Find(s.unwrapTags).Nodes {
		unwrapNode(n)
	}
	root := article.Nodes[0]
	root.Data = "article"
	root.DataAtom = atom.Article

	out, err := goquery.OuterHtml(article)
	if err != nil {
		return "", fmt.Errorf("failed to render article: %w", err)
	}
	return out, nil
}

// removeBuzzAttrs strips all attributes from the selection and its
// descendants, keeping only the ones listed in keptAttributes.
func removeBuzzAttrs(sel *goquery.Selection) {
	strip := func(n *html.Node) {
		keep, ok := keptAttributes[n.Data]
		var attrs []html.Attribute
		if ok {
			for _, a := range n.Attr {
				if a.Key == keep && a.Namespace == "" {
					attrs = append(attrs, a)
				}
			}
		}
		n.Attr = attrs
	}
	for _, n := range sel.Nodes {
		strip(n)
	}
	for _, n := range sel.Find("*").Nodes {
		strip(n)
	}
}

// unwrapNode replaces n with its children.
func unwrapNode(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

// extractText renders the text content of n with a line break after
// every block element.
func extractText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			sb.WriteString(node.Data)
			return
		case html.ElementNode:
			if node.Data == "br" {
				sb.WriteByte('\n')
				return
			}
		case html.CommentNode:
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if node.Type == html.ElementNode && blockTags[node.Data] {
			sb.WriteByte('\n')
		}
	}
	walk(n)

	text := blankLines.ReplaceAllString(sb.String(), "\n")
	return strings.TrimSpace(text)
}
