package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client — HTTP‑клиент локального API заметок.
var Client = &http.Client{Timeout: 10 * time.Second}

// DoJSON sends a request with optional JSON payload. If token is non-empty, it is passed as auth cookie.
// Тело ответа возвращается с обрезанными пробелами по краям.
func DoJSON(ctx context.Context, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Cookie", "auth_token="+token)
	}
	resp, err := Client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, bytes.TrimSpace(body), nil
}

// PostJSON sends a JSON POST request.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	return DoJSON(ctx, http.MethodPost, url, payload, token)
}

// GetJSON выполняет GET и декодирует JSON‑ответ в out. Статус, отличный от 200, — ошибка.
func GetJSON(ctx context.Context, url, token string, out any) error {
	resp, body, err := DoJSON(ctx, http.MethodGet, url, nil, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
