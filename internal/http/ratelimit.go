package http

import (
	"net"
	"sync"
	"time"
)

const (
	rateLimitPerMinute = 60
	rateLimitWindow    = time.Minute
	cleanupInterval    = 5 * time.Minute
)

type clientWindow struct {
	count       int
	windowStart time.Time
}

// rateLimiter keeps a fixed-window counter per client IP. Stale windows are
// swept by a background goroutine until stop is called.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	done    chan struct{}
	once    sync.Once
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients: make(map[string]*clientWindow),
		done:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) allow(remoteAddr string) bool {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		ip = remoteAddr
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[ip]
	if !ok || now.Sub(cw.windowStart) >= rateLimitWindow {
		rl.clients[ip] = &clientWindow{count: 1, windowStart: now}
		return true
	}
	if cw.count >= rateLimitPerMinute {
		return false
	}
	cw.count++
	return true
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-rateLimitWindow)
			for ip, cw := range rl.clients {
				if cw.windowStart.Before(cutoff) {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}
