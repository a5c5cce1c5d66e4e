package youtube

import "testing"

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"q86g1aop6a8", "q86g1aop6a8"},
		{"https://youtu.be/q86g1aop6a8", "q86g1aop6a8"},
		{"https://youtu.be/q86g1aop6a8?t=42", "q86g1aop6a8"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=abc", "dQw4w9WgXcQ"},
		{"youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/abcdefghij_", "abcdefghij_"},
		{"https://www.youtube.com/embed/abcdefghi-k", "abcdefghi-k"},
		{"https://www.youtube.com/live/dQw4w9WgXcQ?feature=share", "dQw4w9WgXcQ"},
		{"https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		got, err := ParseVideoID(tt.in)
		if err != nil {
			t.Fatalf("ParseVideoID(%q) err: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseVideoID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseVideoIDInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "https://example.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/channel/UC123", "https://youtu.be/short"} {
		if _, err := ParseVideoID(in); err == nil {
			t.Fatalf("ParseVideoID(%q) expected error", in)
		}
	}
}
