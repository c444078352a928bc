package stream

import "sync"

// subscriberLimiter bounds concurrent stream sessions per client IP so a
// single browser tab farm cannot hold every connection slot.
type subscriberLimiter struct {
	mu    sync.Mutex
	perIP map[string]int
	max   int
}

func newSubscriberLimiter(max int) *subscriberLimiter {
	return &subscriberLimiter{
		perIP: make(map[string]int),
		max:   max,
	}
}

// acquire reserves a slot for ip. It returns false when the IP is already at
// its connection cap.
func (l *subscriberLimiter) acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.perIP[ip] >= l.max {
		return false
	}
	l.perIP[ip]++
	return true
}

// release frees a slot previously taken by acquire.
func (l *subscriberLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.perIP[ip]--
	if l.perIP[ip] <= 0 {
		delete(l.perIP, ip)
	}
}
