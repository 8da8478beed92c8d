package httpserver

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// admin gates a handler behind the per-client rate limit and staff Basic auth.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := resolveClientIP(r, s.opts.TrustedProxies)
		if !s.limiters.get(clientIP).Allow() {
			s.metrics.AdminRateLimited.Inc()
			s.logger.Warn("admin rate limit exceeded",
				"event", "admin_rate_limited",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"client_ip", clientIP,
			)
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many admin requests")
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="library admin"`)
			writeError(w, http.StatusUnauthorized, "authentication_required", "admin credentials are required")
			return
		}
		staff, err := s.library.Handler.Authenticate(r.Context(), username, password)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}

		s.logger.Info("admin request",
			"event", "admin_request",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"author_id", staff.AuthorID,
		)
		next(w, r)
	}
}

// clientLimiters keeps one token bucket per client IP. The map is reset
// hourly so idle clients do not accumulate.
type clientLimiters struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	limiters    map[string]*rate.Limiter
	lastCleanup time.Time
}

func newClientLimiters(perSecond float64, burst int) *clientLimiters {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 10
	}
	return &clientLimiters{
		limit:       rate.Limit(perSecond),
		burst:       burst,
		limiters:    make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
	}
}

func (c *clientLimiters) get(ip string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.lastCleanup) > time.Hour {
		c.limiters = make(map[string]*rate.Limiter)
		c.lastCleanup = time.Now()
	}
	limiter, ok := c.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[ip] = limiter
	}
	return limiter
}

// resolveClientIP keys the admin limiter. Forwarding headers are honoured only
// when the direct peer is a trusted proxy; the client is the right-most
// X-Forwarded-For hop that is not itself a trusted proxy.
func resolveClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = host
	}
	if !isTrustedProxy(peer, trusted) {
		return peer
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			if !isTrustedProxy(hop, trusted) || i == 0 {
				return hop
			}
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if _, err := netip.ParseAddr(realIP); err == nil {
			return realIP
		}
	}
	return peer
}

func isTrustedProxy(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
