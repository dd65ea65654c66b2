package httptransport

import (
	"log"
	"net/http"

	"github.com/google/uuid"
)

// CORS allows the local frontend origin. Browsers preflight POSTs with
// JSON bodies, so OPTIONS is short-circuited here.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger tags each request with a generated id and logs method and
// path. The id is echoed in the X-Request-Id response header.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		log.Printf("%s %s request_id=%s", r.Method, r.URL.Path, requestID)
		next.ServeHTTP(w, r)
	})
}
