package middleware

import "net/http"

// statusRecorder wraps http.ResponseWriter to capture the status code
// written by downstream handlers. A zero status means WriteHeader was
// never called; callers treat that as http.StatusOK.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
