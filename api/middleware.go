package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/krau/filekit/config"
	"github.com/krau/filekit/storage"
	"github.com/rs/xid"
	"golang.org/x/time/rate"
)

// authMiddleware validates API token and IP restrictions
func authMiddleware(cfg config.APIConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			if len(cfg.TrustedIPs) > 0 {
				clientIP := getClientIP(r)
				if !isIPAllowed(clientIP, cfg.TrustedIPs) {
					respondError(w, "forbidden: IP not allowed", http.StatusForbidden)
					return
				}
			}

			if cfg.Token != "" {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					respondError(w, "unauthorized: missing token", http.StatusUnauthorized)
					return
				}

				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token != cfg.Token {
					respondError(w, "unauthorized: invalid token", http.StatusUnauthorized)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitMiddleware(cfg config.APIConfig) func(http.Handler) http.Handler {
	if cfg.RateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	burst := max(cfg.RateBurst, 1)
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				respondError(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// storageMiddleware attaches the storage named by the "store" query parameter
func storageMiddleware(resolve Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}
			stor, err := resolve(r.Context(), r.URL.Query().Get("store"))
			if err != nil {
				log.FromContext(r.Context()).Error("Failed to resolve storage", "err", err)
				respondError(w, "storage not found", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r.WithContext(storage.WithContext(r.Context(), stor)))
		})
	}
}

// loggingMiddleware tags each request with an id and logs it
func loggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := xid.New().String()
			w.Header().Set("X-Request-Id", reqID)
			ctx := log.WithContext(r.Context(), logger.With("req", reqID))

			wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r.WithContext(ctx))

			logger.Infof("%s %s %d %s", r.Method, r.URL.Path, wrapper.statusCode, time.Since(start))
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts the real client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

// isIPAllowed checks if the client IP is in the allowed list
func isIPAllowed(clientIP string, allowedIPs []string) bool {
	for _, allowedIP := range allowedIPs {
		if clientIP == allowedIP || allowedIP == "*" {
			return true
		}
		if strings.Contains(allowedIP, "/") {
			_, ipNet, err := net.ParseCIDR(allowedIP)
			if err != nil {
				continue
			}
			if ipNet.Contains(net.ParseIP(clientIP)) {
				return true
			}
		}
	}
	return false
}
