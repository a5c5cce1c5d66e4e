package store

import (
	"comment-archiver-go/internal/comment"
	"strconv"
)

// Video is one archived page.
type Video struct {
	Platform     string `json:"platform"`
	VideoID      string `json:"video_id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	ArchiveID    string `json:"archive_id"`
	ThreadCount  int    `json:"thread_count"`
	CommentCount int    `json:"comment_count"`
	ArchivedAt   int64  `json:"archived_at"`
}

func (v *Video) CSVHeader() []string {
	return []string{"platform", "video_id", "url", "title", "archive_id", "thread_count", "comment_count", "archived_at"}
}

func (v *Video) ToCSV() []string {
	return []string{
		v.Platform,
		v.VideoID,
		v.URL,
		v.Title,
		v.ArchiveID,
		strconv.Itoa(v.ThreadCount),
		strconv.Itoa(v.CommentCount),
		strconv.FormatInt(v.ArchivedAt, 10),
	}
}

// CommentRow is a comment flattened out of its thread. Top-level rows have an
// empty ParentCommentID and ReplyIndex -1.
type CommentRow struct {
	Platform        string `json:"platform"`
	VideoID         string `json:"video_id"`
	CommentID       string `json:"comment_id"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
	Position        int    `json:"position"`
	ReplyIndex      int    `json:"reply_index"`
	Author          string `json:"author"`
	AvatarURL       string `json:"avatar_url"`
	Text            string `json:"text"`
	Published       string `json:"published"`
	Likes           string `json:"likes"`
	ReplyCount      string `json:"reply_count,omitempty"`
}

func (c *CommentRow) CSVHeader() []string {
	return []string{
		"platform",
		"video_id",
		"comment_id",
		"parent_comment_id",
		"position",
		"reply_index",
		"author",
		"avatar_url",
		"text",
		"published",
		"likes",
		"reply_count",
	}
}

func (c *CommentRow) ToCSV() []string {
	return []string{
		c.Platform,
		c.VideoID,
		c.CommentID,
		c.ParentCommentID,
		strconv.Itoa(c.Position),
		strconv.Itoa(c.ReplyIndex),
		c.Author,
		c.AvatarURL,
		c.Text,
		c.Published,
		c.Likes,
		c.ReplyCount,
	}
}

// FlattenThreads emits each thread's top-level row followed by its replies.
// Comments without a key get a positional one so rows stay addressable.
func FlattenThreads(platform, videoID string, threads []comment.Thread) []CommentRow {
	out := make([]CommentRow, 0, comment.Total(threads))
	for i, t := range threads {
		parent := t.Comment.Key
		if parent == "" {
			parent = videoID + ":" + strconv.Itoa(i)
		}
		out = append(out, CommentRow{
			Platform:   platform,
			VideoID:    videoID,
			CommentID:  parent,
			Position:   i,
			ReplyIndex: -1,
			Author:     t.Comment.Author,
			AvatarURL:  t.Comment.AvatarURL,
			Text:       t.Comment.Text,
			Published:  t.Comment.Time,
			Likes:      t.Comment.Likes,
			ReplyCount: t.ReplyCount,
		})
		for j, r := range t.Replies {
			id := r.Key
			if id == "" {
				id = parent + ":" + strconv.Itoa(j)
			}
			out = append(out, CommentRow{
				Platform:        platform,
				VideoID:         videoID,
				CommentID:       id,
				ParentCommentID: parent,
				Position:        i,
				ReplyIndex:      j,
				Author:          r.Author,
				AvatarURL:       r.AvatarURL,
				Text:            r.Text,
				Published:       r.Time,
				Likes:           r.Likes,
			})
		}
	}
	return out
}
