package v1

import (
	"errors"
	"io"
	"strings"
)

// sanitizeBindError returns a client-safe message for a request that could not be bound.
// Raw decoder and binder errors expose internal structure and never reach clients.
func sanitizeBindError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, io.EOF) {
		return "Request body is required"
	}
	msg := err.Error()
	if strings.Contains(msg, "cannot unmarshal") ||
		strings.Contains(msg, "strconv.") ||
		strings.Contains(msg, "invalid character") ||
		strings.Contains(msg, "unexpected EOF") {
		return "Invalid request"
	}
	// Short, safe messages can pass through
	if len(msg) < 100 && !strings.Contains(msg, "Error:") && !strings.Contains(msg, "Key:") {
		return msg
	}
	return "Invalid request"
}
