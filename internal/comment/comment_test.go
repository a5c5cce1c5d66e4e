package comment

import "testing"

func TestTotal(t *testing.T) {
	threads := []Thread{
		{Comment: Comment{Author: "a"}},
		{Comment: Comment{Author: "b"}, Replies: []Comment{{Author: "c"}, {Author: "d"}}},
	}
	if got := Total(threads); got != 4 {
		t.Fatalf("Total = %d, want 4", got)
	}
	if got := Total(nil); got != 0 {
		t.Fatalf("Total(nil) = %d", got)
	}
}

func TestAvatarURLsAndMapAvatars(t *testing.T) {
	threads := []Thread{
		{Comment: Comment{AvatarURL: "https://a/1"}, Replies: []Comment{{AvatarURL: "https://a/2"}, {AvatarURL: "https://a/1"}}},
		{Comment: Comment{AvatarURL: ""}},
	}
	urls := AvatarURLs(threads)
	if len(urls) != 2 || urls[0] != "https://a/1" || urls[1] != "https://a/2" {
		t.Fatalf("AvatarURLs = %v", urls)
	}

	out := MapAvatars(threads, map[string]string{"https://a/1": "data:image/png;base64,AA"})
	if out[0].Comment.AvatarURL != "data:image/png;base64,AA" || out[0].Replies[1].AvatarURL != "data:image/png;base64,AA" {
		t.Fatalf("avatar not replaced: %+v", out[0])
	}
	if out[0].Replies[0].AvatarURL != "https://a/2" {
		t.Fatalf("unmapped avatar changed: %q", out[0].Replies[0].AvatarURL)
	}
	if threads[0].Comment.AvatarURL != "https://a/1" {
		t.Fatalf("input mutated")
	}
}
