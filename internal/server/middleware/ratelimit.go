package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP (token bucket).
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// NewRateLimiter создаёт лимитер. Неактивные IP забываются через idleTTL,
// уборку выполняет Run.
func NewRateLimiter(rps float64, burst int, idleTTL time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Run раз в минуту удаляет неактивные IP, пока ctx не отменён.
func (rl *RateLimiter) Run(ctx context.Context) error {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			rl.Cleanup()
		}
	}
}

// Cleanup удаляет IP, не появлявшиеся дольше idleTTL.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, c := range rl.clients {
		if now.Sub(c.seen) > rl.idleTTL {
			delete(rl.clients, ip)
		}
	}
}

// Len — число отслеживаемых IP.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if c, ok := rl.clients[ip]; ok {
		c.seen = rl.now()
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &client{lim: l, seen: rl.now()}
	return l
}

// Limit возвращает middleware: сверх лимита — 429 Too Many Requests.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.get(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, shared.ErrorResponse{
				Msg:   "too many requests",
				Error: "rate limit exceeded",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
