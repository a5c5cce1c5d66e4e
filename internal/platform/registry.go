// Package platform maps platform names and aliases to crawler runners.
package platform

import (
	"comment-archiver-go/internal/crawler"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type Factory func() crawler.Runner

type entry struct {
	name    string
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register binds name and its aliases to factory. Keys are case-insensitive;
// registering a key twice panics.
func Register(name string, aliases []string, factory Factory) {
	if factory == nil {
		panic("platform: factory is nil")
	}
	canonical := normalize(name)
	if canonical == "" {
		panic("platform: empty name")
	}
	mu.Lock()
	defer mu.Unlock()
	for _, k := range append([]string{name}, aliases...) {
		n := normalize(k)
		if n == "" {
			continue
		}
		if _, exists := entries[n]; exists {
			panic(fmt.Sprintf("platform: duplicate register: %s", n))
		}
		entries[n] = entry{name: canonical, factory: factory}
	}
}

func New(name string) (crawler.Runner, error) {
	e, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown platform: %s (available: %s)", name, strings.Join(Names(), ", "))
	}
	return e.factory(), nil
}

// Canonical resolves an alias to the name it was registered under.
func Canonical(name string) (string, bool) {
	e, ok := lookup(name)
	return e.name, ok
}

func Exists(name string) bool {
	_, ok := lookup(name)
	return ok
}

// Names lists canonical platform names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	uniq := map[string]struct{}{}
	for _, e := range entries {
		uniq[e.name] = struct{}{}
	}
	out := make([]string, 0, len(uniq))
	for k := range uniq {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lookup(name string) (entry, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[normalize(name)]
	return e, ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
