package youtube

import (
	"testing"

	"comment-archiver-go/internal/comment"

	"github.com/tidwall/gjson"
)

func TestDecodeCommentEntity(t *testing.T) {
	p := parse(t, entity("k1", "@alice", "<b>hi</b> & bye", "4")).Get(pathCommentEntity)
	got := decodeCommentEntity(p)
	want := comment.Comment{
		Key:       "k1",
		Author:    "@alice",
		AvatarURL: "https://yt3.ggpht.com/@alice",
		Text:      "<b>hi</b> & bye",
		Time:      "1 day ago",
		Likes:     "3",
	}
	if got != want {
		t.Fatalf("got %#v\nwant %#v", got, want)
	}
	if again := decodeCommentEntity(p); again != got {
		t.Fatalf("decode not idempotent: %#v vs %#v", again, got)
	}
}

func TestDecodeCommentEntityMalformed(t *testing.T) {
	inputs := []string{
		``,
		`null`,
		`[]`,
		`"str"`,
		`42`,
		`{}`,
		`{"author":5}`,
		`{"author":{"displayName":null,"avatarThumbnailUrl":false}}`,
		`{"properties":{"content":[1,2]}}`,
		`{"properties":{"content":{"content":{"nested":true}}}}`,
		`{"toolbar":"x"}`,
	}
	for _, in := range inputs {
		got := decodeCommentEntity(gjson.Parse(in))
		if got.Author != "" || got.Text != "" || got.Likes != "" || got.AvatarURL != "" || got.Time != "" {
			t.Fatalf("decode(%q) = %#v, want empty fields", in, got)
		}
	}
}

func TestDecodeNumericLikes(t *testing.T) {
	got := decodeCommentEntity(gjson.Parse(`{"toolbar":{"likeCountNotliked":12},"key":"k"}`))
	if got.Likes != "12" || got.Key != "k" {
		t.Fatalf("got %#v", got)
	}
}
