package youtube

import (
	"comment-archiver-go/internal/cache"
	"comment-archiver-go/internal/comment"
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/crawler"
	"comment-archiver-go/internal/downloader"
	"comment-archiver-go/internal/render"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

type pageClient interface {
	nextClient
	GetPage(ctx context.Context, pageURL string) (string, error)
	NextURL(apiKey string) string
}

// Archive is the outcome of archiving one video page.
type Archive struct {
	ID      string           `json:"id"`
	URL     string           `json:"url"`
	VideoID string           `json:"video_id"`
	Title   string           `json:"title"`
	Threads []comment.Thread `json:"threads"`
	HTML    string           `json:"-"`
}

type Crawler struct {
	client  pageClient
	fetcher *downloader.Fetcher
	log     *slog.Logger
}

func NewCrawler() *Crawler {
	return NewCrawlerWithClient(NewClient())
}

func NewCrawlerWithClient(client pageClient) *Crawler {
	if client == nil {
		client = NewClient()
	}
	return &Crawler{
		client:  client,
		fetcher: downloader.NewFetcher(config.AppConfig, cache.NewFromConfig(config.AppConfig)),
	}
}

// SetLogger routes pipeline diagnostics to l instead of the process logger.
func (c *Crawler) SetLogger(l *slog.Logger) {
	c.log = l
}

func (c *Crawler) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return slog.Default()
}

// Archive fetches pageURL and builds the archived comment page. Only a
// failed page fetch is an error; missing bootstrap data or failed comment
// requests yield fewer (or zero) threads in an otherwise valid document.
func (c *Crawler) Archive(ctx context.Context, pageURL string) (Archive, error) {
	log := c.logger()
	pageURL, err := normalizeInput(pageURL)
	if err != nil {
		return Archive{}, crawler.Error{Kind: crawler.ErrorKindInvalidInput, Platform: platformName, Msg: "invalid youtube input", Err: err}
	}

	a := Archive{ID: uuid.NewString(), URL: pageURL}
	if id, err := ParseVideoID(pageURL); err == nil {
		a.VideoID = id
	} else {
		a.VideoID = a.ID
	}

	raw, err := c.client.GetPage(ctx, pageURL)
	if err != nil {
		return Archive{}, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	b := ExtractBootstrap(raw)
	a.Title = b.Title
	token := ""
	if b.InitialData.Exists() {
		token = findCommentsContinuation(b.InitialData)
	}

	a.Threads = []comment.Thread{}
	if b.Ready() && token != "" {
		cfg := config.AppConfig
		a.Threads = fetchAllThreads(ctx, c.client, c.client.NextURL(b.APIKey), b.ClientVersion, token, threadOptions{
			BatchSize:  cfg.ReplyBatchSize,
			BatchSleep: time.Duration(cfg.CrawlerMaxSleepSec) * time.Second,
			Logger:     log,
		})
	} else {
		log.Warn("comments unavailable, archiving page without comments",
			"url", pageURL,
			"initial_data", b.InitialData.Exists(),
			"api_key", b.APIKey != "",
			"client_version", b.ClientVersion != "",
			"continuation", token != "",
		)
		if hint := crawler.DetectRiskHint(raw); hint != "" {
			log.Warn("page looks blocked", "url", pageURL, "err", crawler.NewRiskHintError(platformName, pageURL, hint))
		}
	}

	shown := a.Threads
	if config.AppConfig.EmbedAvatars {
		avatars := c.fetcher.EmbedImages(ctx, comment.AvatarURLs(a.Threads), config.AppConfig.AvatarSize, config.AppConfig.MaxConcurrencyNum)
		shown = comment.MapAvatars(a.Threads, avatars)
	}
	a.HTML, err = render.Page(a.Title, shown)
	if err != nil {
		return Archive{}, err
	}

	if err := persistArchive(ctx, a); err != nil {
		log.Warn("persist archive failed", "video_id", a.VideoID, "err", err)
	}
	log.Info("archive built", "video_id", a.VideoID, "threads", len(a.Threads), "comments", comment.Total(a.Threads))
	return a, nil
}

// normalizeInput accepts a bare video id or a URL with or without scheme.
func normalizeInput(in string) (string, error) {
	s := strings.TrimSpace(in)
	if s == "" {
		return "", fmt.Errorf("empty input")
	}
	if reVideoID.MatchString(s) {
		return "https://www.youtube.com/watch?v=" + s, nil
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("not an http(s) url: %s", in)
	}
	return u.String(), nil
}
