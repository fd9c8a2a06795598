package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Logging emits one structured line per request, tagged with a request id
// that is also echoed back to the dashboard for support tickets. Error
// responses additionally carry their envelope error fields so failed
// Nautobot pulls and export rejections are diagnosable from logs alone.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		attrs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(started).Milliseconds(),
			"client_ip", extractClientIP(r),
		}

		if rec.status >= 400 {
			// Keep the query string on failures; filter params are usually
			// what reproduces a bad device-list request.
			if r.URL.RawQuery != "" {
				attrs = append(attrs, "query", r.URL.RawQuery)
			}
			if code, message, details, ok := rec.errorParts(); ok {
				attrs = append(attrs, "error_code", code, "error_message", message)
				if details != "" {
					attrs = append(attrs, "error_details", details)
				}
			}
		}

		switch {
		case rec.status >= 500:
			slog.Error("request", attrs...)
		case rec.status >= 400:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	})
}

// statusRecorder captures the response status, and the body for error
// responses only, so the log line can include the envelope error.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(statusCode int) {
	if rec.wroteHeader {
		return
	}
	rec.status = statusCode
	rec.wroteHeader = true
	rec.ResponseWriter.WriteHeader(statusCode)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status >= 400 {
		rec.body.Write(b)
	}
	return rec.ResponseWriter.Write(b)
}

// errorParts extracts the error fields from a captured envelope body.
func (rec *statusRecorder) errorParts() (code string, message string, details string, ok bool) {
	if rec.body.Len() == 0 {
		return "", "", "", false
	}

	var envelope struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.body.Bytes(), &envelope); err != nil || envelope.Error == nil {
		return "", "", "", false
	}

	return envelope.Error.Code, envelope.Error.Message, envelope.Error.Details, true
}

func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}
