package proxy

import (
	"fmt"
	"net/url"
	"time"
)

type ProviderName string

const ProviderStatic ProviderName = "static"

type Proxy struct {
	IP        string
	Port      int
	User      string
	Password  string
	Protocol  string
	ExpiredAt time.Time
}

func (p Proxy) IsExpired(buffer time.Duration) bool {
	if p.ExpiredAt.IsZero() {
		return false
	}
	return time.Now().After(p.ExpiredAt.Add(-buffer))
}

// URL renders the proxy for http.Transport.Proxy. Socks entries keep their scheme.
func (p Proxy) URL() *url.URL {
	scheme := p.Protocol
	if scheme == "" {
		scheme = "http"
	}
	u := &url.URL{
		Scheme: scheme,
		Host:   fmt.Sprintf("%s:%d", p.IP, p.Port),
	}
	if p.User != "" || p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u
}
