package inliner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/downloader"
)

type fakePages struct {
	body string
	err  error
}

func (f fakePages) GetPage(ctx context.Context, pageURL string) (string, error) {
	return f.body, f.err
}

const page = `<!DOCTYPE html><html><head>
<link rel="stylesheet" href="/css/site.css" media="screen">
<link rel="stylesheet" href="/css/missing.css">
<link rel="icon" href="/favicon.ico">
<script src="app.js" integrity="sha384-x" crossorigin="anonymous"></script>
<script>var ytInitialData = {};</script>
</head><body><p>hello</p></body></html>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/css/site.css":
			_, _ = w.Write([]byte(`body{background:url("../img/bg.png")} .x{background:url(data:image/png;base64,AA)} </style>`))
		case "/watch/app.js":
			_, _ = w.Write([]byte(`console.log("</script>")`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestInlineRewritesResources(t *testing.T) {
	ts := newServer(t)
	in := New(fakePages{body: page}, downloader.NewFetcher(config.Config{}, nil), 4)

	out, err := in.Inline(context.Background(), ts.URL+"/watch/index.html")
	if err != nil {
		t.Fatalf("Inline err: %v", err)
	}

	if regexp.MustCompile(`<script[^>]+src=`).MatchString(out) {
		t.Fatalf("script src remains:\n%s", out)
	}
	if !strings.Contains(out, `<style media="screen">`) {
		t.Fatalf("inlined style missing:\n%s", out)
	}
	if !strings.Contains(out, `url("`+ts.URL+`/img/bg.png")`) {
		t.Fatalf("css url not absolutized:\n%s", out)
	}
	if !strings.Contains(out, "url(data:image/png;base64,AA)") {
		t.Fatalf("data url rewritten:\n%s", out)
	}
	if !strings.Contains(out, `console.log("<\/script>")`) || !strings.Contains(out, `<\/style>`) {
		t.Fatalf("closing tags not escaped:\n%s", out)
	}
	if strings.Contains(out, "integrity=") {
		t.Fatalf("integrity attribute kept:\n%s", out)
	}
	if !strings.Contains(out, `href="/css/missing.css"`) {
		t.Fatalf("failed stylesheet should stay untouched:\n%s", out)
	}
	if !strings.Contains(out, "ytInitialData") || !strings.Contains(out, `rel="icon"`) {
		t.Fatalf("unrelated content lost:\n%s", out)
	}
}

func TestInlinePageError(t *testing.T) {
	in := New(fakePages{err: errors.New("boom")}, downloader.NewFetcher(config.Config{}, nil), 1)
	if _, err := in.Inline(context.Background(), "https://example.com/"); err == nil {
		t.Fatalf("expected page fetch error")
	}
}

func TestInlineHonorsBaseHref(t *testing.T) {
	ts := newServer(t)
	base, _ := url.Parse("https://elsewhere.invalid/")
	doc := `<html><head><base href="` + ts.URL + `/watch/"><script src="app.js"></script></head><body></body></html>`

	out, err := New(nil, downloader.NewFetcher(config.Config{}, nil), 2).InlineHTML(context.Background(), base, doc)
	if err != nil {
		t.Fatalf("InlineHTML err: %v", err)
	}
	if !strings.Contains(out, "console.log") {
		t.Fatalf("script not inlined via base href:\n%s", out)
	}
}
