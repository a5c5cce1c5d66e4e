package proxy

import (
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/crawler"
	"context"
	"net/http"
)

// Rotator keeps a Switcher pointed at the pool's current proxy. A nil Rotator
// is valid and means direct connections.
type Rotator struct {
	pool     *Pool
	switcher *Switcher
}

func NewRotator(pool *Pool) *Rotator {
	return &Rotator{pool: pool, switcher: NewSwitcher()}
}

// FromConfig returns nil unless ENABLE_IP_PROXY is set.
func FromConfig(cfg config.Config) *Rotator {
	if !cfg.EnableIPProxy {
		return nil
	}
	return NewRotator(NewPool(NewStaticProvider(cfg.IPProxyList, cfg.IPProxyFile), cfg.IPProxyPoolCount))
}

// Transport clones the default transport and routes it through the switcher.
func (r *Rotator) Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if r != nil {
		t.Proxy = r.switcher.ProxyFunc
	}
	return t
}

// Ensure selects a live proxy before a request.
func (r *Rotator) Ensure(ctx context.Context) error {
	if r == nil {
		return nil
	}
	p, err := r.pool.GetOrRefresh(ctx)
	if err != nil {
		return err
	}
	r.switcher.Set(p.URL())
	return nil
}

// Observe drops the current proxy after a status that suggests it is blocked.
func (r *Rotator) Observe(status int) {
	if r == nil || !crawler.ShouldInvalidateProxyStatus(status) {
		return
	}
	r.pool.InvalidateCurrent()
}
