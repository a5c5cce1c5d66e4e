package proxy

import (
	"net/http"
	"net/url"
	"sync/atomic"
)

// Switcher is an http.Transport.Proxy func whose target can change while
// requests are in flight.
type Switcher struct {
	current atomic.Pointer[url.URL]
}

func NewSwitcher() *Switcher {
	return &Switcher{}
}

func (s *Switcher) Set(u *url.URL) {
	s.current.Store(u)
}

func (s *Switcher) ProxyFunc(req *http.Request) (*url.URL, error) {
	return s.current.Load(), nil
}
