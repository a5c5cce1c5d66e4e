package youtube

import (
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/crawler"
	"comment-archiver-go/internal/proxy"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	platformName = "youtube"
	nextPath     = "/youtubei/v1/next"
)

type Client struct {
	httpClient *resty.Client
	baseURL    string
	hl         string
	gl         string
	limiter    *rate.Limiter
	proxy      *proxy.Rotator
}

func NewClient() *Client {
	return NewClientFromConfig(config.AppConfig)
}

func NewClientFromConfig(cfg config.Config) *Client {
	timeoutSec := cfg.HttpTimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = 60
	}
	rot := proxy.FromConfig(cfg)
	hc := &http.Client{
		Timeout:   time.Duration(timeoutSec) * time.Second,
		Transport: rot.Transport(),
	}
	rc := resty.NewWithClient(hc)
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	rc.SetHeaders(map[string]string{
		"user-agent":      ua,
		"accept-language": "en-US,en;q=0.9",
	})

	// the pipeline is single-attempt unless retries are configured explicitly
	if cfg.HttpRetryCount > 0 {
		baseMs := cfg.HttpRetryBaseDelayMs
		if baseMs <= 0 {
			baseMs = 500
		}
		maxMs := cfg.HttpRetryMaxDelayMs
		if maxMs <= 0 {
			maxMs = 4000
		}
		rc.SetRetryCount(cfg.HttpRetryCount)
		rc.SetRetryWaitTime(time.Duration(baseMs) * time.Millisecond)
		rc.SetRetryMaxWaitTime(time.Duration(maxMs) * time.Millisecond)
		rc.AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return crawler.ShouldRetryError(err)
			}
			if r == nil {
				return true
			}
			return crawler.ShouldRetryStatus(r.StatusCode())
		})
	}

	c := &Client{
		httpClient: rc,
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		hl:         cfg.ClientHL,
		gl:         cfg.ClientGL,
		proxy:      rot,
	}
	if c.baseURL == "" {
		c.baseURL = "https://www.youtube.com"
	}
	if c.hl == "" {
		c.hl = "en"
	}
	if c.gl == "" {
		c.gl = "US"
	}
	if cfg.RPCRateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPCRateLimit), 1)
	}
	return c
}

// NextURL is the pagination endpoint for the given API key.
func (c *Client) NextURL(apiKey string) string {
	return c.baseURL + nextPath + "?key=" + url.QueryEscape(apiKey)
}

// GetPage fetches the watch page markup. Redirects are followed; any non-2xx
// status is an error.
func (c *Client) GetPage(ctx context.Context, pageURL string) (string, error) {
	if err := c.proxy.Ensure(ctx); err != nil {
		return "", err
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		Get(pageURL)
	if err != nil {
		return "", err
	}
	c.proxy.Observe(resp.StatusCode())
	if !crawler.IsSuccessStatus(resp.StatusCode()) {
		return "", crawler.NewHTTPStatusError(platformName, pageURL, resp.StatusCode(), resp.String())
	}
	return resp.String(), nil
}

type nextRequest struct {
	Context      nextContext `json:"context"`
	Continuation string      `json:"continuation"`
}

type nextContext struct {
	Client nextClientInfo `json:"client"`
}

type nextClientInfo struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
	GL            string `json:"gl"`
}

// PostNext requests one page of the continuation identified by token. A
// non-2xx status comes back as a crawler.Error carrying the status code.
func (c *Client) PostNext(ctx context.Context, apiURL, clientVersion, token string) (gjson.Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return gjson.Result{}, err
		}
	}
	if err := c.proxy.Ensure(ctx); err != nil {
		return gjson.Result{}, err
	}
	body := nextRequest{
		Context: nextContext{Client: nextClientInfo{
			ClientName:    "WEB",
			ClientVersion: clientVersion,
			HL:            c.hl,
			GL:            c.gl,
		}},
		Continuation: token,
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body).
		Post(apiURL)
	if err != nil {
		return gjson.Result{}, err
	}
	c.proxy.Observe(resp.StatusCode())
	if !crawler.IsSuccessStatus(resp.StatusCode()) {
		return gjson.Result{}, crawler.NewHTTPStatusError(platformName, nextPath, resp.StatusCode(), resp.String())
	}
	raw := resp.String()
	if !gjson.Valid(raw) {
		return gjson.Result{}, crawler.NewDecodeError(platformName, nextPath, fmt.Errorf("invalid json (%d bytes)", len(raw)))
	}
	return gjson.Parse(raw), nil
}
