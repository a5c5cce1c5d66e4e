package youtube

import (
	"comment-archiver-go/internal/comment"
	"context"

	"github.com/tidwall/gjson"
)

type nextClient interface {
	PostNext(ctx context.Context, apiURL, clientVersion, token string) (gjson.Result, error)
}

// fetchReplies drains one thread's reply continuation. A page that decodes no
// comments ends the listing even if it still names a next token, and so does a
// token that was already consumed. Any RPC error aborts the whole call.
func fetchReplies(ctx context.Context, client nextClient, apiURL, clientVersion, token string) ([]comment.Comment, error) {
	var replies []comment.Comment
	seen := map[string]struct{}{}

	for token != "" {
		if _, dup := seen[token]; dup {
			break
		}
		seen[token] = struct{}{}

		data, err := client.PostNext(ctx, apiURL, clientVersion, token)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, p := range commentEntities(data) {
			replies = append(replies, decodeCommentEntity(p))
			added++
		}
		if added == 0 {
			break
		}
		token = nextReplyToken(data)
	}
	return replies, nil
}

// nextReplyToken scans each endpoint's items from the end; the last endpoint
// that has a token wins.
func nextReplyToken(data gjson.Result) string {
	next := ""
	for _, items := range continuationActions(data) {
		arr := items.Array()
		for i := len(arr) - 1; i >= 0; i-- {
			if t := continuationToken(arr[i]); t != "" {
				next = t
				break
			}
		}
	}
	return next
}
