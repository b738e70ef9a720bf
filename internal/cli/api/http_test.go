package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPostJSON_SendsToken_And_ParsesBody(t *testing.T) {
	// test server проверяет cookie и JSON
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := r.Header.Get("Cookie"); !strings.Contains(c, "auth_token=tok123") {
			t.Errorf("Cookie header missing token, got: %q", c)
		}
		var m map[string]any
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Errorf("bad json: %v", err)
		}
		if m["x"] != float64(1) { // JSON number → float64
			t.Errorf("unexpected payload: %#v", m)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(" {\"ok\":true}\n"))
	}))
	defer ts.Close()

	resp, body, err := PostJSON(context.Background(), ts.URL+"/api", map[string]any{"x": 1}, "tok123")
	if err != nil {
		t.Fatalf("PostJSON err: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("body should be trimmed: %q", string(body))
	}
}

// Доп.кейс: без токена — Cookie заголовок не должен устанавливаться
func TestDoJSON_NoToken_NoCookieHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := r.Header.Get("Cookie"); c != "" {
			t.Errorf("Cookie must be empty when token not provided, got: %q", c)
		}
		if r.Header.Get("Content-Type") != "" {
			t.Errorf("Content-Type must be empty without payload")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	resp, _, err := DoJSON(context.Background(), http.MethodDelete, ts.URL, nil, "")
	if err != nil {
		t.Fatalf("DoJSON err: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestGetJSON_SuccessAndErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"state":"single-credential"}`))
		case "/bad":
			_, _ = w.Write([]byte("{"))
		default:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	}))
	defer ts.Close()
	ctx := context.Background()

	var out struct {
		State string `json:"state"`
	}
	if err := GetJSON(ctx, ts.URL+"/ok", "t", &out); err != nil || out.State != "single-credential" {
		t.Fatalf("GetJSON ok: %v %+v", err, out)
	}
	if err := GetJSON(ctx, ts.URL+"/bad", "t", &out); err == nil {
		t.Fatalf("expected decode error")
	}
	if err := GetJSON(ctx, ts.URL+"/denied", "", &out); err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status error, got %v", err)
	}
}

// Доп.кейс: сетевая ошибка (недостижимый адрес)
func TestPostJSON_NetworkError(t *testing.T) {
	if _, _, err := PostJSON(context.Background(), "http://127.0.0.1:1", map[string]any{"a": 1}, ""); err == nil {
		t.Fatalf("expected network error for unreachable URL")
	}
}

// Доп.кейс: ошибка при создании запроса (невалидный URL)
func TestPostJSON_InvalidURL_NewRequestError(t *testing.T) {
	if _, _, err := PostJSON(context.Background(), "http://[::1", map[string]any{"a": 1}, ""); err == nil {
		t.Fatalf("expected new request error for invalid URL")
	}
}

func TestPostJSON_JSONMarshalError(t *testing.T) {
	// chan в payload вызовет ошибку json.Marshal
	_, _, err := PostJSON(context.Background(), "http://example.invalid", map[string]any{"c": make(chan int)}, "")
	if err == nil {
		t.Fatalf("expected marshal error")
	}
}
