// Package comment holds the archived comment tree shared by the acquisition
// pipeline, the page renderer and the store.
package comment

// Comment is one authored remark as the platform displayed it. Every field is
// a display label taken verbatim from the remote payload; an empty string means
// the platform did not provide it.
type Comment struct {
	Key       string `json:"key,omitempty"`
	Author    string `json:"author"`
	AvatarURL string `json:"avatar_url"`
	Text      string `json:"text"`
	Time      string `json:"time"`
	Likes     string `json:"likes"`
}

// Thread is a top-level comment with its replies in platform order.
type Thread struct {
	Comment    Comment   `json:"comment"`
	ReplyCount string    `json:"reply_count"`
	Replies    []Comment `json:"replies"`
}

// Total counts top-level comments plus every fetched reply.
func Total(threads []Thread) int {
	n := 0
	for _, t := range threads {
		n += 1 + len(t.Replies)
	}
	return n
}

// AvatarURLs returns each distinct non-empty avatar URL in first-seen order.
func AvatarURLs(threads []Thread) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	for _, t := range threads {
		add(t.Comment.AvatarURL)
		for _, r := range t.Replies {
			add(r.AvatarURL)
		}
	}
	return out
}

// MapAvatars returns a copy of threads with avatar URLs replaced through m.
// URLs missing from m are kept.
func MapAvatars(threads []Thread, m map[string]string) []Thread {
	swap := func(c Comment) Comment {
		if v, ok := m[c.AvatarURL]; ok && v != "" {
			c.AvatarURL = v
		}
		return c
	}
	out := make([]Thread, len(threads))
	for i, t := range threads {
		out[i] = Thread{Comment: swap(t.Comment), ReplyCount: t.ReplyCount}
		if t.Replies != nil {
			out[i].Replies = make([]Comment, len(t.Replies))
			for j, r := range t.Replies {
				out[i].Replies[j] = swap(r)
			}
		}
	}
	return out
}
