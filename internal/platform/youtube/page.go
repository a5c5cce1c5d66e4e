package youtube

import (
	"comment-archiver-go/internal/comment"

	"github.com/tidwall/gjson"
)

// threadStub is a thread marker seen in a pagination page. Its comment body
// arrives separately as an entity mutation sharing Key.
type threadStub struct {
	Key               string
	ReplyCount        string
	ReplyContinuation string
}

type topLevelPage struct {
	Threads          []threadStub
	Comments         map[string]comment.Comment
	NextContinuation string
}

// parseTopLevelPage splits one top-level pagination response into thread
// stubs, decoded comments keyed by entity key, and the next page token.
// Malformed sections simply contribute nothing.
func parseTopLevelPage(data gjson.Result) topLevelPage {
	page := topLevelPage{Comments: map[string]comment.Comment{}}

	for _, items := range continuationActions(data) {
		for _, item := range items.Array() {
			ctr := item.Get("commentThreadRenderer")
			if truthy(ctr) {
				key := text(ctr.Get("commentViewModel.commentViewModel.commentKey"))
				if key == "" {
					continue
				}
				page.Threads = append(page.Threads, threadStub{
					Key:               key,
					ReplyContinuation: firstReplyContinuation(ctr),
				})
				continue
			}
			if token := continuationToken(item); token != "" {
				page.NextContinuation = token
			}
		}
	}

	// first stub wins when a key repeats within a page
	byKey := make(map[string]int, len(page.Threads))
	for i, st := range page.Threads {
		if _, ok := byKey[st.Key]; !ok {
			byKey[st.Key] = i
		}
	}

	for _, p := range commentEntities(data) {
		c := decodeCommentEntity(p)
		page.Comments[c.Key] = c
		if rc := text(p.Get("toolbar.replyCount")); rc != "" {
			if i, ok := byKey[c.Key]; ok {
				page.Threads[i].ReplyCount = rc
			}
		}
	}
	return page
}

func firstReplyContinuation(ctr gjson.Result) string {
	for _, c := range ctr.Get("replies.commentRepliesRenderer.contents").Array() {
		if token := continuationToken(c); token != "" {
			return token
		}
	}
	return ""
}
