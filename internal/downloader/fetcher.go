// Package downloader fetches page resources and avatar images with an
// optional byte cache in front of the network.
package downloader

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"comment-archiver-go/internal/cache"
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/crawler"

	"github.com/go-resty/resty/v2"
)

type Resource struct {
	URL         string
	ContentType string
	Body        []byte
}

type Fetcher struct {
	client *resty.Client
	cache  cache.Cache
	ttl    time.Duration
}

// NewFetcher builds a fetcher from cfg. c may be nil to disable caching.
func NewFetcher(cfg config.Config, c cache.Cache) *Fetcher {
	timeoutSec := cfg.HttpTimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = 60
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	rc := resty.NewWithClient(&http.Client{Timeout: time.Duration(timeoutSec) * time.Second})
	rc.SetHeader("user-agent", ua)
	return &Fetcher{client: rc, cache: c, ttl: cache.DefaultTTL(cfg)}
}

func cacheKey(u string) string {
	sum := sha1.Sum([]byte(u))
	return "res:" + hex.EncodeToString(sum[:])
}

// Fetch returns the body of u. Non-2xx responses are errors and are not cached.
func (f *Fetcher) Fetch(ctx context.Context, u string) (Resource, error) {
	if u == "" {
		return Resource{}, fmt.Errorf("url is empty")
	}
	key := cacheKey(u)
	if f.cache != nil {
		if b, ok, err := f.cache.Get(ctx, key); err == nil && ok {
			if ct, body, found := bytes.Cut(b, []byte{0}); found {
				return Resource{URL: u, ContentType: string(ct), Body: body}, nil
			}
		}
	}

	resp, err := f.client.R().SetContext(ctx).Get(u)
	if err != nil {
		return Resource{}, err
	}
	if !crawler.IsSuccessStatus(resp.StatusCode()) {
		return Resource{}, crawler.NewHTTPStatusError("", u, resp.StatusCode(), "")
	}
	res := Resource{URL: u, ContentType: resp.Header().Get("Content-Type"), Body: resp.Body()}

	if f.cache != nil {
		entry := make([]byte, 0, len(res.ContentType)+1+len(res.Body))
		entry = append(entry, res.ContentType...)
		entry = append(entry, 0)
		entry = append(entry, res.Body...)
		_ = f.cache.Set(ctx, key, entry, f.ttl)
	}
	return res, nil
}

// FetchAll fetches the distinct urls with at most limit requests in flight.
// Failed urls are missing from the result and reported in errs.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string, limit int) (map[string]Resource, map[string]error) {
	var mu sync.Mutex
	out := make(map[string]Resource, len(urls))
	errs := map[string]error{}

	crawler.ForEachLimit(ctx, dedupe(urls), limit, func(ctx context.Context, u string) error {
		res, err := f.Fetch(ctx, u)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs[u] = err
			return err
		}
		out[u] = res
		return nil
	})
	return out, errs
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
