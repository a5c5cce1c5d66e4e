package logger

import "sync"

type bus struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

var defaultBus = &bus{subs: map[chan []byte]struct{}{}}

// Subscribe registers a buffered listener for broadcast log lines. Slow
// listeners drop messages instead of blocking the logger.
func Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 256)
	defaultBus.mu.Lock()
	defaultBus.subs[ch] = struct{}{}
	defaultBus.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			defaultBus.mu.Lock()
			delete(defaultBus.subs, ch)
			close(ch)
			defaultBus.mu.Unlock()
		})
	}
}

func (b *bus) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *bus) publish(msg []byte) {
	if len(msg) == 0 {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}
