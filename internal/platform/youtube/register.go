package youtube

import (
	"comment-archiver-go/internal/crawler"
	"comment-archiver-go/internal/platform"
)

func init() {
	platform.Register(platformName, []string{"yt", "youtu.be"}, func() crawler.Runner { return NewCrawler() })
}
