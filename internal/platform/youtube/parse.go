package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var reVideoID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseVideoID extracts the 11-character video id from a bare id or from
// watch, youtu.be, shorts, embed and live URLs.
func ParseVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("empty input")
	}
	if reVideoID.MatchString(s) {
		return s, nil
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("cannot parse video id from: %s", input)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch {
	case host == "youtu.be":
		id = segs[0]
	case host == "youtube.com" || host == "music.youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
		} else if len(segs) >= 2 {
			switch segs[0] {
			case "shorts", "embed", "live", "v", "e":
				id = segs[1]
			}
		}
	}
	if !reVideoID.MatchString(id) {
		return "", fmt.Errorf("cannot parse video id from: %s", input)
	}
	return id, nil
}
