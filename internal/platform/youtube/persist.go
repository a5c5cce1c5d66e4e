package youtube

import (
	"comment-archiver-go/internal/comment"
	"comment-archiver-go/internal/store"
	"context"
)

func persistArchive(ctx context.Context, a Archive) error {
	if !store.Enabled() {
		return nil
	}
	err := store.SaveVideo(ctx, store.Video{
		Platform:     platformName,
		VideoID:      a.VideoID,
		URL:          a.URL,
		Title:        a.Title,
		ArchiveID:    a.ID,
		ThreadCount:  len(a.Threads),
		CommentCount: comment.Total(a.Threads),
	})
	if err != nil {
		return err
	}
	_, err = store.SaveComments(ctx, a.VideoID, store.FlattenThreads(platformName, a.VideoID, a.Threads))
	return err
}
