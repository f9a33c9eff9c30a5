package middleware

import "net/http"

// LimitBody caps the request body on mutating methods so a handler's JSON
// decode cannot be fed an unbounded stream. A max of zero disables the cap.
func LimitBody(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if max > 0 {
				switch r.Method {
				case http.MethodPost, http.MethodPut, http.MethodPatch:
					r.Body = http.MaxBytesReader(w, r.Body, max)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
