package middleware

import (
	"log"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request: method, URI, status, response
// size and duration. The chi request ID is prepended when RequestID ran
// first.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		line := r.Method + " " + r.URL.RequestURI()
		if id := chimw.GetReqID(r.Context()); id != "" {
			line = "[" + id + "] " + line
		}
		log.Printf("%s %d %dB %s", line, status, ww.BytesWritten(), time.Since(start).Round(time.Microsecond))
	})
}
