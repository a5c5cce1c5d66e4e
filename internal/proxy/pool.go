package proxy

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNoProxyAvailable = errors.New("no proxy available")

// Pool hands out one current proxy at a time and moves to the next entry when
// the current one expires or is invalidated. It refills from the provider once
// every fetched entry has been used.
type Pool struct {
	provider Provider
	count    int
	buffer   time.Duration

	mu      sync.Mutex
	queue   []Proxy
	current *Proxy
}

func NewPool(provider Provider, count int) *Pool {
	if count <= 0 {
		count = 2
	}
	return &Pool{
		provider: provider,
		count:    count,
		buffer:   30 * time.Second,
	}
}

func (p *Pool) SetExpiryBuffer(buffer time.Duration) {
	if buffer <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffer = buffer
}

func (p *Pool) GetOrRefresh(ctx context.Context) (Proxy, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && !p.current.IsExpired(p.buffer) {
		return *p.current, nil
	}

	for len(p.queue) > 0 && p.queue[0].IsExpired(p.buffer) {
		p.queue = p.queue[1:]
	}
	if len(p.queue) == 0 {
		proxies, err := p.provider.GetProxies(ctx, p.count)
		if err != nil {
			return Proxy{}, err
		}
		p.queue = append(p.queue[:0], proxies...)
	}
	if len(p.queue) == 0 {
		return Proxy{}, ErrNoProxyAvailable
	}

	next := p.queue[0]
	p.queue = p.queue[1:]
	p.current = &next
	return next, nil
}

func (p *Pool) Current() (Proxy, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Proxy{}, false
	}
	return *p.current, true
}

func (p *Pool) InvalidateCurrent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
}
