package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) Errorf(template string, args ...any) {
	l.msgs = append(l.msgs, fmt.Sprintf(template, args...))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"a": "b"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"a":"b"}` {
		t.Errorf("body = %q", got)
	}
}

func TestWriteJSON_ClampsStatus(t *testing.T) {
	for _, status := range []int{0, 99, 600, -1} {
		rec := httptest.NewRecorder()
		WriteJSON(rec, status, nil)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("WriteJSON(%d) status = %d, want 500", status, rec.Code)
		}
	}
}

func TestWriteJSON_EncodeFailureIsLogged(t *testing.T) {
	logger := &recordingLogger{}
	SetJSONLogger(logger)
	t.Cleanup(func() { SetJSONLogger(nil) })

	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]any{"ch": make(chan int)})

	if len(logger.msgs) != 1 {
		t.Fatalf("logged %d messages, want 1", len(logger.msgs))
	}
	if !strings.Contains(logger.msgs[0], "map[string]interface {}") {
		t.Errorf("log message missing type: %q", logger.msgs[0])
	}
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, http.StatusNotFound, "not_found", "nope")
	want := `{"error":"not_found","message":"nope"}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestReadBody(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		b, err := ReadBody(req)
		if err != nil || len(b) != 0 {
			t.Errorf("ReadBody = %q, %v; want empty, nil", b, err)
		}
	})

	t.Run("body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"x":1}`))
		b, err := ReadBody(req)
		if err != nil || string(b) != `{"x":1}` {
			t.Errorf("ReadBody = %q, %v", b, err)
		}
	})

	t.Run("too large", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100)))
		req.Body = http.MaxBytesReader(rec, req.Body, 10)
		_, err := ReadBody(req)
		if !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("err = %v, want ErrBodyTooLarge", err)
		}
	})
}

func TestDecode(t *testing.T) {
	tests := []struct {
		in      string
		wantErr string
	}{
		{`{"name":"Al"}`, ""},
		{`  {"name":"Al"}  `, ""},
		{`null`, ""},
		{`[1,2]`, ""},
		{``, ErrEmptyBody.Error()},
		{"  \n\t", ErrEmptyBody.Error()},
		{`{"name":`, "malformed JSON: unexpected end of input"},
		{`{"a":1}{"b":2}`, "request body contains multiple JSON values"},
		{`{"a":1}}`, "request body contains trailing data"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			var v any
			err := Decode([]byte(tt.in), &v)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Decode error = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Decode error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_SyntaxError(t *testing.T) {
	var v any
	err := Decode([]byte(`{"name" "Al"}`), &v)
	if err == nil || !strings.HasPrefix(err.Error(), "malformed JSON at position ") {
		t.Errorf("err = %v, want malformed JSON position error", err)
	}
}

func TestDecode_TypeMismatch(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	err := Decode([]byte(`{"name":5}`), &v)
	if err == nil || err.Error() != `invalid value for field "name": expected string` {
		t.Errorf("err = %v", err)
	}
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := Decode([]byte(`{"name":"Al","extra":true}`), &v); err != nil {
		t.Fatalf("Decode error = %v, want nil", err)
	}
	if v.Name != "Al" {
		t.Errorf("Name = %q, want Al", v.Name)
	}
}
