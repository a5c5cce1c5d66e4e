package youtube

import "github.com/tidwall/gjson"

const commentSectionID = "comment-item-section"

// findCommentsContinuation locates the token that starts top-level comment
// pagination inside the initial watch data. It returns "" when the data has
// no comment section or the section carries no continuation.
func findCommentsContinuation(data gjson.Result) string {
	contents := data.Get("contents.twoColumnWatchNextResults.results.results.contents")
	if !contents.IsArray() {
		return ""
	}
	for _, item := range contents.Array() {
		section := item.Get("itemSectionRenderer")
		if section.Get("sectionIdentifier").String() != commentSectionID {
			continue
		}
		for _, c := range section.Get("contents").Array() {
			if token := continuationToken(c); token != "" {
				return token
			}
		}
	}
	return ""
}
