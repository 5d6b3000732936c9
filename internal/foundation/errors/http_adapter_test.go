package errors

import (
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: http.StatusOK,
		},
		{
			name:     "classified validation error",
			err:      ValidationError("invalid input").Build(),
			expected: http.StatusBadRequest,
		},
		{
			name:     "template not found",
			err:      TemplateNotFound("missing").Build(),
			expected: http.StatusNotFound,
		},
		{
			name:     "malformed document",
			err:      MalformedDocument("bad yaml").Build(),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "network error",
			err:      NetworkError("clone failed").Build(),
			expected: http.StatusBadGateway,
		},
		{
			name:     "internal error",
			err:      InternalError("internal error").Build(),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "unclassified error",
			err:      stdErrors.New("unknown error"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.StatusCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("StatusCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())
	err := TemplateNotFound("template not found").
		WithContext("template", "page.liquid").
		Build()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/_status", nil)
	adapter.WriteErrorResponse(rec, req, err)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}

	var resp HTTPErrorResponse
	if jerr := json.Unmarshal(rec.Body.Bytes(), &resp); jerr != nil {
		t.Fatalf("decode response: %v", jerr)
	}
	if resp.Code != string(CategoryTemplateNotFound) {
		t.Errorf("unexpected code %q", resp.Code)
	}
	if resp.Details["template"] != "page.liquid" {
		t.Errorf("expected template detail, got %v", resp.Details)
	}
}

func TestHTTPErrorAdapter_NilError(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	adapter.WriteErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
