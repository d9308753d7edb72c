package frontend

import (
	"net/http"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// ensureRequestID echoes the caller's request ID, or assigns a new one, on both the request and the response
func ensureRequestID(w http.ResponseWriter, req *http.Request) {
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(RequestIDHeader, requestID)
	}
	w.Header().Set(RequestIDHeader, requestID)
}
