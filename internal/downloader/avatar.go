package downloader

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"comment-archiver-go/internal/logger"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const defaultAvatarSize = 48

// EmbedImages fetches each url and returns url -> PNG data URI scaled to a
// size x size square. Images that fail to fetch or decode are left out.
func (f *Fetcher) EmbedImages(ctx context.Context, urls []string, size, limit int) map[string]string {
	if size <= 0 {
		size = defaultAvatarSize
	}
	resources, errs := f.FetchAll(ctx, urls, limit)
	for u, err := range errs {
		logger.Warn("avatar fetch failed", "url", u, "err", err)
	}

	out := make(map[string]string, len(resources))
	for u, res := range resources {
		uri, err := thumbnailDataURI(res.Body, size)
		if err != nil {
			logger.Warn("avatar decode failed", "url", u, "err", err)
			continue
		}
		out[u] = uri
	}
	return out
}

func thumbnailDataURI(body []byte, size int) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	b := src.Bounds()
	if b.Empty() {
		return "", fmt.Errorf("empty image")
	}

	// center crop to a square before scaling
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
