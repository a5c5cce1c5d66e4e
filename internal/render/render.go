// Package render turns an archived comment tree into a standalone HTML page.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"comment-archiver-go/internal/comment"
)

//go:embed page.html.tmpl
var pageSource string

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"avatar":     avatarURL,
	"replyLabel": replyLabel,
}).Parse(pageSource))

type pageData struct {
	Title   string
	Total   int
	Threads []comment.Thread
}

// Page renders title and threads. Comment fields are always emitted as text,
// never as markup.
func Page(title string, threads []comment.Thread) (string, error) {
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, pageData{
		Title:   title,
		Total:   comment.Total(threads),
		Threads: threads,
	})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

// avatarURL passes through http(s) links and embedded raster images. Anything
// else renders as an empty src.
func avatarURL(u string) template.URL {
	lower := strings.ToLower(strings.TrimSpace(u))
	switch {
	case strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "http://"):
		return template.URL(u)
	case strings.HasPrefix(lower, "data:image/") && !strings.HasPrefix(lower, "data:image/svg"):
		return template.URL(u)
	case strings.HasPrefix(lower, "//"):
		return template.URL("https:" + u)
	default:
		return ""
	}
}

func replyLabel(n int) string {
	if n == 1 {
		return "1 reply"
	}
	return fmt.Sprintf("%d replies", n)
}
