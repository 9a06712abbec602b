package middleware

import (
	"context"
	"net"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

var errRateLimited = status.Error(codes.ResourceExhausted, "rate limit exceeded")

type visitor struct {
	limiter *rate.Limiter
	last    time.Time
}

// limiterSet keeps one token bucket per host, bounded by an LRU.
type limiterSet struct {
	mu       sync.Mutex
	visitors *lru.Cache[string, *visitor]
	limit    rate.Limit
	burst    int
}

func (s *limiterSet) allow(host string, now time.Time) bool {
	s.mu.Lock()
	v, ok := s.visitors.Get(host)
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors.Add(host, v)
	}
	v.last = now
	s.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// sweep drops hosts idle for longer than ttl.
func (s *limiterSet) sweep(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, host := range s.visitors.Keys() {
		if v, ok := s.visitors.Peek(host); ok && now.Sub(v.last) > ttl {
			s.visitors.Remove(host)
		}
	}
}

func peerHost(ctx context.Context) (string, bool) {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "", false
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String(), true
	}
	return host, true
}

// NewRateLimitPerIP allows limit calls per second per peer IP with the given
// burst. Calls without peer information are rejected.
func NewRateLimitPerIP(limit, burst, cacheSize int, ttl time.Duration) grpc.UnaryServerInterceptor {
	visitors, _ := lru.New[string, *visitor](cacheSize)
	set := &limiterSet{visitors: visitors, limit: rate.Limit(limit), burst: burst}

	go func() {
		ticker := time.NewTicker(ttl)
		for now := range ticker.C {
			set.sweep(now, ttl)
		}
	}()

	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		host, ok := peerHost(ctx)
		if !ok || !set.allow(host, time.Now()) {
			return nil, errRateLimited
		}
		return handler(ctx, req)
	}
}
