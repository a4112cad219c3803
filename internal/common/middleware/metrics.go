package middleware

import (
	"net/http"
	"time"

	"github.com/Matthew11K/tester-bot/internal/common/metrics"
)

// UnmatchedRoute подставляется в метку endpoint для путей вне списка маршрутов,
// чтобы сканеры не раздували число временных рядов.
const UnmatchedRoute = "unmatched"

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}

	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}

	return r.ResponseWriter.Write(b)
}

// HTTPMetrics считает запросы к служебному HTTP серверу бота по известным маршрутам.
type HTTPMetrics struct {
	component string
	routes    map[string]struct{}
}

func NewHTTPMetrics(component string, routes ...string) *HTTPMetrics {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route] = struct{}{}
	}

	return &HTTPMetrics{
		component: component,
		routes:    known,
	}
}

func (m *HTTPMetrics) route(path string) string {
	if _, ok := m.routes[path]; ok {
		return path
	}

	return UnmatchedRoute
}

func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.RecordHTTPRequest(m.component, r.Method, m.route(r.URL.Path), rec.status, time.Since(start))
	})
}
