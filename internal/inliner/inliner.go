// Package inliner rewrites a fetched page so its external stylesheets and
// scripts are embedded in the document itself.
package inliner

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"comment-archiver-go/internal/downloader"
	"comment-archiver-go/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const defaultLimit = 8

type pageGetter interface {
	GetPage(ctx context.Context, pageURL string) (string, error)
}

type resourceFetcher interface {
	FetchAll(ctx context.Context, urls []string, limit int) (map[string]downloader.Resource, map[string]error)
}

type Inliner struct {
	pages     pageGetter
	resources resourceFetcher
	limit     int
}

func New(pages pageGetter, resources resourceFetcher, limit int) *Inliner {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Inliner{pages: pages, resources: resources, limit: limit}
}

// Inline fetches pageURL and returns it with every reachable stylesheet and
// script body embedded. A failing page fetch is an error; a failing resource
// leaves its element as it was.
func (in *Inliner) Inline(ctx context.Context, pageURL string) (string, error) {
	raw, err := in.pages.GetPage(ctx, pageURL)
	if err != nil {
		return "", err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	return in.InlineHTML(ctx, base, raw)
}

// InlineHTML does the rewrite on already fetched markup. Relative references
// resolve against base, or against the document's <base href> when present.
func (in *Inliner) InlineHTML(ctx context.Context, base *url.URL, raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if u, err := base.Parse(strings.TrimSpace(href)); err == nil {
			base = u
		}
	}

	resolve := func(ref string) string {
		u, err := base.Parse(strings.TrimSpace(ref))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return ""
		}
		return u.String()
	}

	styles := doc.Find(`link[rel~="stylesheet"][href]`)
	scripts := doc.Find("script[src]")

	var urls []string
	styles.Each(func(_ int, s *goquery.Selection) {
		if u := resolve(s.AttrOr("href", "")); u != "" {
			urls = append(urls, u)
		}
	})
	scripts.Each(func(_ int, s *goquery.Selection) {
		if u := resolve(s.AttrOr("src", "")); u != "" {
			urls = append(urls, u)
		}
	})
	if len(urls) == 0 {
		return doc.Html()
	}

	fetched, errs := in.resources.FetchAll(ctx, urls, in.limit)
	for u, err := range errs {
		logger.Warn("inline resource failed", "url", u, "err", err)
	}

	styles.Each(func(_ int, s *goquery.Selection) {
		u := resolve(s.AttrOr("href", ""))
		res, ok := fetched[u]
		if !ok {
			return
		}
		css := absolutizeCSS(string(res.Body), u)
		s.ReplaceWithNodes(styleNode(css, s.AttrOr("media", "")))
	})
	scripts.Each(func(_ int, s *goquery.Selection) {
		u := resolve(s.AttrOr("src", ""))
		res, ok := fetched[u]
		if !ok {
			return
		}
		for _, attr := range []string{"src", "integrity", "crossorigin", "nonce"} {
			s.RemoveAttr(attr)
		}
		setRawText(s.Get(0), escapeClosing(string(res.Body), "script"))
	})

	return doc.Html()
}

func styleNode(css, media string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	if media != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "media", Val: media})
	}
	setRawText(n, escapeClosing(css, "style"))
	return n
}

// setRawText replaces n's children with one text node. The renderer writes
// text inside script and style verbatim.
func setRawText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

var closingTag = map[string]*regexp.Regexp{
	"script": regexp.MustCompile(`(?i)</(script)`),
	"style":  regexp.MustCompile(`(?i)</(style)`),
}

// escapeClosing keeps an inlined body from terminating its own element.
func escapeClosing(body, tag string) string {
	return closingTag[tag].ReplaceAllString(body, `<\/$1`)
}

var cssURL = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+)(['"]?)\s*\)`)

// absolutizeCSS rewrites relative url() references against the stylesheet's
// own location, since the inlined copy no longer lives there.
func absolutizeCSS(css, sheetURL string) string {
	base, err := url.Parse(sheetURL)
	if err != nil {
		return css
	}
	return cssURL.ReplaceAllStringFunc(css, func(m string) string {
		parts := cssURL.FindStringSubmatch(m)
		ref := strings.TrimSpace(parts[2])
		lower := strings.ToLower(ref)
		if strings.HasPrefix(lower, "data:") || strings.HasPrefix(ref, "#") {
			return m
		}
		u, err := base.Parse(ref)
		if err != nil {
			return m
		}
		return "url(" + parts[1] + u.String() + parts[3] + ")"
	})
}
