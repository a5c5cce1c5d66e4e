package logger

import "sync"

type Event struct {
	Time  string         `json:"time"`
	Level string         `json:"level"`
	Msg   string         `json:"msg"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

const ringCap = 2000

var (
	ringMu   sync.Mutex
	ringBuf  = make([]Event, 0, ringCap)
	ringHead int
)

// addEvent overwrites the oldest event once the ring is full.
func addEvent(evt Event) {
	ringMu.Lock()
	defer ringMu.Unlock()
	if len(ringBuf) < ringCap {
		ringBuf = append(ringBuf, evt)
		return
	}
	ringBuf[ringHead] = evt
	ringHead = (ringHead + 1) % ringCap
}

// Recent returns up to limit events, oldest first.
func Recent(limit int) []Event {
	ringMu.Lock()
	defer ringMu.Unlock()
	n := len(ringBuf)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Event, 0, limit)
	for i := n - limit; i < n; i++ {
		out = append(out, ringBuf[(ringHead+i)%n])
	}
	return out
}
