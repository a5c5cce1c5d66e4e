package youtube

import (
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/crawler"
	"comment-archiver-go/internal/inliner"
	"comment-archiver-go/internal/logger"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Run archives every input and writes one HTML file per input into the
// output directory.
func (c *Crawler) Run(ctx context.Context, req crawler.Request) (crawler.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req.Platform = platformName
	if req.Mode == "" {
		req.Mode = crawler.ModeComments
	}
	out := crawler.NewResult(req)

	inputs := req.Inputs
	if len(inputs) == 0 {
		inputs = crawler.RequestFromConfig(config.AppConfig).Inputs
	}
	if len(inputs) == 0 {
		return out, fmt.Errorf("empty inputs (YT_SPECIFIED_VIDEO_URL_LIST)")
	}
	dir := strings.TrimSpace(req.OutputDir)
	if dir == "" {
		dir = strings.TrimSpace(config.AppConfig.OutputDir)
	}
	if dir == "" {
		dir = filepath.Join("data", "archives")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return out, err
	}
	limit := req.Concurrency
	if limit <= 0 {
		limit = 1
	}

	logger.Info("youtube run start", "mode", req.Mode, "inputs", len(inputs), "out", dir)
	var itemRes crawler.ItemResult
	switch req.Mode {
	case crawler.ModeInline:
		itemRes = crawler.ForEachLimit(ctx, inputs, limit, func(ctx context.Context, input string) error {
			doc, pageURL, err := c.inline(ctx, input)
			if err != nil {
				logger.Error("inline page failed", "input", input, "err", err)
				return err
			}
			return writeOutput(dir, inlineFilename(pageURL), doc)
		})
	default:
		itemRes = crawler.ForEachLimit(ctx, inputs, limit, func(ctx context.Context, input string) error {
			a, err := c.Archive(ctx, input)
			if err != nil {
				logger.Error("archive failed", "input", input, "err", err)
				return err
			}
			return writeOutput(dir, a.VideoID+".html", a.HTML)
		})
	}

	out.Merge(itemRes)
	out.FinishedAt = time.Now().Unix()
	logger.Info("youtube run done", "processed", out.Processed, "succeeded", out.Succeeded, "failed", out.Failed)
	return out, nil
}

// Inline fetches the page behind input and returns it with stylesheets and
// scripts embedded.
func (c *Crawler) Inline(ctx context.Context, input string) (string, error) {
	doc, _, err := c.inline(ctx, input)
	return doc, err
}

func (c *Crawler) inline(ctx context.Context, input string) (string, string, error) {
	pageURL, err := normalizeInput(input)
	if err != nil {
		return "", "", crawler.Error{Kind: crawler.ErrorKindInvalidInput, Platform: platformName, Msg: "invalid input", Err: err}
	}
	in := inliner.New(c.client, c.fetcher, config.AppConfig.MaxConcurrencyNum)
	doc, err := in.Inline(ctx, pageURL)
	if err != nil {
		return "", pageURL, err
	}
	return doc, pageURL, nil
}

func writeOutput(dir, name, doc string) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return err
	}
	logger.Info("wrote archive", "path", path, "bytes", len(doc))
	return nil
}

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// inlineFilename derives a flat file name from the page host and path.
func inlineFilename(pageURL string) string {
	name := pageURL
	if u, err := url.Parse(pageURL); err == nil {
		name = u.Host + u.Path
		if u.RawQuery != "" {
			name += "_" + u.RawQuery
		}
	}
	name = strings.Trim(reUnsafeName.ReplaceAllString(name, "_"), "_.")
	if len(name) > 120 {
		name = name[:120]
	}
	if name == "" {
		name = "page"
	}
	return name + ".html"
}
