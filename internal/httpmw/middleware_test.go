package httpmw

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func panicHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
}

func TestWithRecover_APIPathGetsFailureEnvelope(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	h := WithRecover(logger)(panicHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks?action=get", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != false || body["message"] != "internal server error" {
		t.Fatalf("expected failure envelope, got %v", body)
	}
	if !strings.Contains(buf.String(), "panic_recovered") {
		t.Fatalf("expected panic log entry, got %q", buf.String())
	}
}

func TestWithRecover_NonAPIPathGetsPlainError(t *testing.T) {
	h := WithRecover(log.New(&bytes.Buffer{}, "", 0))(panicHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); strings.Contains(ct, "json") {
		t.Fatalf("expected plain error outside /api/, got %q", ct)
	}
}

func TestWithRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if seen == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("header %q does not match context id %q", got, seen)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	h.ServeHTTP(rec, req)
	if seen != "caller-supplied" {
		t.Fatalf("expected caller id to pass through, got %q", seen)
	}
}

func TestWithAccessLog_EmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	h := WithAccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks?action=get", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("access log is not a JSON line: %v (%q)", err, buf.String())
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Fatalf("expected logged status 418, got %v", entry["status"])
	}
	if entry["action"] != "get" {
		t.Fatalf("expected logged action, got %v", entry["action"])
	}
}
