package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Enabled reports whether any persistence is configured.
func Enabled() bool {
	return fileFormat() != "" || dbEnabled()
}

// SaveVideo upserts the video record in the database backend and rewrites
// its file copy.
func SaveVideo(ctx context.Context, v Video) error {
	v.VideoID = strings.TrimSpace(v.VideoID)
	if v.VideoID == "" {
		return errors.New("video_id is empty")
	}
	v.Platform = platformName(v.Platform)
	if v.ArchivedAt == 0 {
		v.ArchivedAt = time.Now().Unix()
	}
	if err := upsertVideo(ctx, &v); err != nil {
		return err
	}
	return writeVideoFile(&v)
}

// SaveComments appends rows not stored before, keyed by platform and comment
// id, and returns how many were new to the file store (or to the database
// when file output is off).
func SaveComments(ctx context.Context, videoID string, rows []CommentRow) (int, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return 0, errors.New("video_id is empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for i := range rows {
		rows[i].Platform = platformName(rows[i].Platform)
		if rows[i].VideoID == "" {
			rows[i].VideoID = videoID
		}
	}

	dbNew, err := insertComments(ctx, rows)
	if err != nil {
		return 0, err
	}
	if fileFormat() == "" {
		return dbNew, nil
	}
	return appendCommentFile(videoID, rows)
}

func upsertVideo(ctx context.Context, v *Video) error {
	switch k := backendKind(); k {
	case backendSQLite, backendMySQL, backendPostgres:
		return sqlUpsertVideo(ctx, k, v)
	case backendMongoDB:
		return mongoUpsertVideo(ctx, v)
	default:
		return nil
	}
}

func insertComments(ctx context.Context, rows []CommentRow) (int, error) {
	switch k := backendKind(); k {
	case backendSQLite, backendMySQL, backendPostgres:
		return sqlInsertComments(ctx, k, rows)
	case backendMongoDB:
		return mongoInsertComments(ctx, rows)
	default:
		return 0, nil
	}
}
