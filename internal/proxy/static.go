package proxy

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// StaticProvider serves proxies from IP_PROXY_LIST or, when that is empty,
// from the file named by IP_PROXY_FILE (one or more entries per line, # comments).
type StaticProvider struct {
	List string
	File string
}

func NewStaticProvider(list, file string) *StaticProvider {
	return &StaticProvider{List: strings.TrimSpace(list), File: strings.TrimSpace(file)}
}

func (p *StaticProvider) Name() ProviderName {
	return ProviderStatic
}

func (p *StaticProvider) GetProxies(ctx context.Context, num int) ([]Proxy, error) {
	if num <= 0 {
		num = 1
	}
	entries, err := p.entries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("static proxy list is empty: set IP_PROXY_LIST or IP_PROXY_FILE")
	}

	out := make([]Proxy, 0, min(num, len(entries)))
	for _, e := range entries {
		if pr, ok := ParseEntry(e); ok {
			out = append(out, pr)
		}
		if len(out) >= num {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrNoProxyAvailable
	}
	return out, nil
}

func (p *StaticProvider) entries() ([]string, error) {
	if p.List != "" {
		return splitList(p.List), nil
	}
	if p.File == "" {
		return nil, nil
	}
	f, err := os.Open(p.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, splitList(line)...)
	}
	return out, sc.Err()
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
}

// ParseEntry accepts "host:port", "user:pass@host:port" and full proxy URLs.
func ParseEntry(s string) (Proxy, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Proxy{}, false
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return Proxy{}, false
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return Proxy{}, false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return Proxy{}, false
	}

	pr := Proxy{IP: host, Port: port, Protocol: u.Scheme}
	if u.User != nil {
		pr.User = u.User.Username()
		pr.Password, _ = u.User.Password()
	}
	return pr, true
}
