package crawler

import (
	"comment-archiver-go/internal/config"
	"strings"
)

func RequestFromConfig(cfg config.Config) Request {
	return Request{
		Platform:    strings.TrimSpace(cfg.Platform),
		Mode:        NormalizeMode(cfg.CrawlerType),
		Inputs:      trimInputs(cfg.VideoURLs),
		OutputDir:   strings.TrimSpace(cfg.OutputDir),
		Concurrency: cfg.MaxConcurrencyNum,
	}
}

func trimInputs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
