package middleware

import (
	"net/http"
	"time"
)

// Timeout cuts off requests that outlive the budget with a 503 envelope.
// http.TimeoutHandler writes its body without a Content-Type, so the header
// is set before delegating; every route behind this middleware speaks JSON.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	message := `{"statusCode":503,"message":"request timed out"}`

	return func(next http.Handler) http.Handler {
		inner := http.TimeoutHandler(next, timeout, message)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			inner.ServeHTTP(w, r)
		})
	}
}
