package api

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestLogger пишет итог каждого запроса: маршрут, статус, длительность, request id и адрес клиента.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				route := r.URL.Path
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("route", route),
					zap.Int("status", status),
					zap.Duration("latency", time.Since(start)),
					zap.Int("bytes", ww.BytesWritten()),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("remote_ip", r.RemoteAddr),
				}

				switch {
				case status >= http.StatusInternalServerError:
					logger.Error("запрос завершен", fields...)
				case status >= http.StatusBadRequest:
					logger.Warn("запрос завершен", fields...)
				default:
					logger.Info("запрос завершен", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// jsonRecoverer заменяет middleware.Recoverer: паника обработчика превращается
// в обычный ответ 500 с телом {"error","code"}, подробности уходят в reporter.
func jsonRecoverer(reporter observability.Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}

				reporter.Report(r.Context(), "http.panic", fmt.Errorf("паника в обработчике: %v", p),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Stack("stack"),
				)

				internal := apperr.ErrInternal
				respondWithJSON(w, "panic", internal.HTTPCode(), errorBody{
					Error: internal.Message(),
					Code:  internal.ErrorCode(),
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
