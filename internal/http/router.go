package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
)

const (
	rateWindowDefault  = time.Minute
	rateLimitWrite     = 60
	rateLimitRead      = 120
	healthCheckTimeout = 2 * time.Second
)

// routerCore carries the middleware shared by both service routers.
type routerCore struct {
	logger  *slog.Logger
	limiter RateLimiter
	metrics *requestMetrics
}

func newRouterCore(logger *slog.Logger, limiter RateLimiter, subsystem string) routerCore {
	if limiter == nil {
		limiter = NewMemoryRateLimiter()
	}
	return routerCore{
		logger:  logger,
		limiter: limiter,
		metrics: newRequestMetrics(subsystem),
	}
}

func (c *routerCore) close() {
	if c.limiter != nil {
		c.limiter.Close()
	}
}

// audit logs every request and stamps a request id on the response.
func (c *routerCore) audit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		reqID := strings.TrimSpace(req.Header.Get("X-Request-ID"))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
			"request_id", reqID,
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}

		switch {
		case status >= http.StatusInternalServerError:
			c.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			c.logger.Warn("http_request", fields...)
		default:
			c.logger.Info("http_request", fields...)
		}
		c.metrics.record(req.Method, normalizeRoute(req.URL.Path), status, duration)
	}
}

func (c *routerCore) withRateLimit(route string, limit int, window time.Duration, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if limit <= 0 || c.limiter == nil {
			next(w, req)
			return
		}
		key := rateLimitKeyIP(req)
		decision := c.limiter.Allow(key, limit, window)
		c.applyRateHeaders(w, limit, decision)
		if !decision.allowed {
			label := route
			if label == "" {
				label = req.URL.Path
			}
			c.metrics.rateLimitHit(label, rateMetricKey(key))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, req)
	}
}

func (c *routerCore) applyRateHeaders(w http.ResponseWriter, limit int, decision rateDecision) {
	if limit <= 0 {
		return
	}
	remaining := limit - decision.count
	if remaining < 0 {
		remaining = 0
	}
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !decision.windowEnd.IsZero() {
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.windowEnd.Unix(), 10))
	}
}

func (c *routerCore) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (c *routerCore) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}
