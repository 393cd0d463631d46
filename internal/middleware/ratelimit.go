package middleware

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginRateLimit throttles credential checks per client IP. Defaults allow a
// short burst and then one attempt per two seconds, enough for humans and a
// nuisance for credential stuffing. LOGIN_RATE_BURST overrides the burst;
// login-heavy test suites raise it so sequential logins from one IP don't
// trip the limiter.
func LoginRateLimit() func(http.Handler) http.Handler {
	burst := 5
	if n, err := strconv.Atoi(os.Getenv("LOGIN_RATE_BURST")); err == nil && n > 0 {
		burst = n
	}
	return loginRateLimit(rate.Every(2*time.Second), burst)
}

func loginRateLimit(r rate.Limit, burst int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(r, burst)
			limiters[ip] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ip, _, err := net.SplitHostPort(req.RemoteAddr)
			if err != nil {
				ip = req.RemoteAddr
			}
			if !limiterFor(ip).Allow() {
				w.Header().Set("Retry-After", "2")
				http.Error(w, "Too many login attempts", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
