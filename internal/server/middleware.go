package server

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs every request, errors at a higher level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		msg := "%s %s %d %dB %s"
		args := []any{r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start)}
		switch {
		case status >= 500:
			log.Errorf(msg, args...)
		case status >= 400:
			log.Warningf(msg, args...)
		default:
			log.Debugf(msg, args...)
		}
	})
}
