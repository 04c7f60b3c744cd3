package controller

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	headerRequestID   = "X-Request-ID"
	headerProcessTime = "X-Process-Time-Ms"
)

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDFrom returns the id assigned to the request, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID propagates a client supplied X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// statusWriter records the status code and stamps the processing time header
// before the first byte goes out.
type statusWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.wroteHeader {
		return
	}
	sw.wroteHeader = true
	sw.status = code
	sw.Header().Set(headerProcessTime, strconv.FormatInt(time.Since(sw.start).Milliseconds(), 10))
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.WriteHeader(http.StatusOK)
	}
	return sw.ResponseWriter.Write(b)
}

// instrument logs every request, warns on slow ones and feeds the HTTP metrics.
func (c *Controller) instrument(next http.Handler) http.Handler {
	slow := c.App.Config.HTTP.SlowRequestThreshold
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, start: time.Now(), status: http.StatusOK}
		next.ServeHTTP(sw, r)
		took := time.Since(sw.start)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		if c.App.Metrics != nil {
			c.App.Metrics.ObserveHTTP(route, r.Method, sw.status, took)
		}

		fields := []zap.Field{
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", sw.status),
			zap.Duration("took", took),
		}
		if slow > 0 && took > slow {
			c.App.Logger.Warn("slow request", fields...)
			return
		}
		c.App.Logger.Info("request", fields...)
	})
}

// WithCORS allows browser access from the configured origins. "*" allows any.
func WithCORS(origins []string) func(http.Handler) http.Handler {
	anyOrigin := slices.Contains(origins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (anyOrigin || slices.Contains(origins, origin)) {
				// A wildcard never carries credentials.
				if anyOrigin {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+headerRequestID)
				w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodOptions)
				w.Header().Set("Access-Control-Expose-Headers", headerRequestID+", "+headerProcessTime)
			}
			w.Header().Add("Vary", "Origin")

			// Fast-path the preflight
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
