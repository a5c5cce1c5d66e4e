package youtube

import (
	"comment-archiver-go/internal/comment"

	"github.com/tidwall/gjson"
)

// decodeCommentEntity maps one commentEntityPayload into a Comment. Missing
// fields become empty strings; it accepts any JSON value.
func decodeCommentEntity(payload gjson.Result) comment.Comment {
	return comment.Comment{
		Key:       text(payload.Get("key")),
		Author:    text(payload.Get("author.displayName")),
		AvatarURL: text(payload.Get("author.avatarThumbnailUrl")),
		Text:      text(payload.Get("properties.content.content")),
		Time:      text(payload.Get("properties.publishedTime")),
		Likes:     text(payload.Get("toolbar.likeCountNotliked")),
	}
}
