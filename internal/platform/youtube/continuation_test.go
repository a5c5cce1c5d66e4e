package youtube

import (
	"testing"

	"github.com/tidwall/gjson"
)

func watchData(sections ...any) map[string]any {
	return map[string]any{
		"contents": map[string]any{
			"twoColumnWatchNextResults": map[string]any{
				"results": map[string]any{
					"results": map[string]any{"contents": sections},
				},
			},
		},
	}
}

func section(id string, contents ...any) map[string]any {
	return map[string]any{
		"itemSectionRenderer": map[string]any{
			"sectionIdentifier": id,
			"contents":          contents,
		},
	}
}

func TestFindCommentsContinuation(t *testing.T) {
	data := watchData(
		map[string]any{"videoPrimaryInfoRenderer": map[string]any{}},
		section("related-items", contItem("WRONG")),
		section(commentSectionID, map[string]any{"other": 1}, contItem("COMMENTS"), contItem("LATER")),
	)
	if got := findCommentsContinuation(parse(t, data)); got != "COMMENTS" {
		t.Fatalf("token = %q, want COMMENTS", got)
	}
}

func TestFindCommentsContinuationAbsent(t *testing.T) {
	tests := map[string]gjson.Result{
		"null":          {},
		"scalar":        gjson.Parse(`5`),
		"wrong shape":   gjson.Parse(`{"contents":{"twoColumnWatchNextResults":[]}}`),
		"list not list": gjson.Parse(`{"contents":{"twoColumnWatchNextResults":{"results":{"results":{"contents":{}}}}}}`),
		"no section":    parse(t, watchData(section("related-items", contItem("X")))),
		"no token":      parse(t, watchData(section(commentSectionID, map[string]any{"a": 1}))),
		"empty token":   parse(t, watchData(section(commentSectionID, contItem("")))),
	}
	for name, data := range tests {
		if got := findCommentsContinuation(data); got != "" {
			t.Fatalf("%s: token = %q, want empty", name, got)
		}
	}
}
