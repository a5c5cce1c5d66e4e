package store

import (
	"comment-archiver-go/internal/config"
	"path/filepath"
	"strings"
)

func PlatformDir() string {
	dataDir := strings.TrimSpace(config.AppConfig.DataDir)
	if dataDir == "" {
		dataDir = "data"
	}
	return filepath.Join(dataDir, platformName(""))
}

func VideoDir(videoID string) string {
	return filepath.Join(PlatformDir(), "videos", videoID)
}

func platformName(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		p = strings.TrimSpace(config.AppConfig.Platform)
	}
	if p == "" {
		p = "youtube"
	}
	return p
}
