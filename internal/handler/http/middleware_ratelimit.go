package http

import (
	"net"
	"net/http"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/utils"
)

// clientAddr resolves the client address used as a rate-limit
// identifier. The X-Real-IP header set by the reverse proxy wins;
// otherwise the host part of the remote address is used.
func clientAddr(r *http.Request) string {
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// withRateLimit throttles general request volume per client address
// using the API limiter. Authentication endpoints carry their own
// stricter limiter inside the login flow; this one only guards against
// indiscriminate request floods.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		addr := clientAddr(r)
		allowed, _, retryAfter := h.services.APILimiter.Check("ip:" + addr)
		if !allowed {
			log.Warn().Str("client_addr", addr).Msg("request rate limited")

			body := errorBody(codeRateLimitExceeded)
			body.RetryAfter = int64(retryAfter.Seconds())
			utils.WriteJSON(w, body, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
