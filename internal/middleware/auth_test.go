package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// next-хендлер отдаёт subject из контекста или 401
var echoSubject = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if sub, ok := GetSubjectFromContext(r.Context()); ok {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sub))
		return
	}
	w.WriteHeader(http.StatusUnauthorized)
})

// tokenCookie — cookie с токеном, как её шлёт клиент локального API
func tokenCookie(t *testing.T, subject, secret string) *http.Cookie {
	t.Helper()
	token, err := IssueToken(secret, subject, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return &http.Cookie{Name: CookieName, Value: token}
}

// Тест: cookie auth_token + WithAuth — subject попадает в контекст
func TestWithAuth_ValidCookieSetsSubject(t *testing.T) {
	const secret = "test-secret"
	next := echoSubject

	h := WithAuth(secret)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(tokenCookie(t, "part-77", secret))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "part-77" {
		t.Fatalf("expected 200 with subject, got %d %q", rr.Code, rr.Body.String())
	}
}

// Тест: токен в заголовке Authorization: Bearer
func TestWithAuth_BearerHeader(t *testing.T) {
	token, err := IssueToken("s", "default", time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	WithAuth("s")(echoSubject).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "default" {
		t.Fatalf("bearer token not accepted: %d %q", rr.Code, rr.Body.String())
	}
}

// Тест: просроченный токен отклоняется
func TestParseToken_Expired(t *testing.T) {
	token, err := IssueToken("s", "default", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken("s", token); err == nil {
		t.Fatalf("expired token must be rejected")
	}
	if _, err := IssueToken("", "x", time.Minute); err == nil {
		t.Fatalf("empty secret must be rejected")
	}
}

// Тест: отсутствие cookie — subject не устанавливается
func TestWithAuth_NoCookieLeavesAnonymous(t *testing.T) {
	h := WithAuth("any-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSubjectFromContext(r.Context()); ok {
			t.Fatalf("subject must not be set without cookie")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// Тест: невалидный токен — subject не устанавливается
func TestWithAuth_InvalidToken(t *testing.T) {
	// Сгенерируем cookie с секретом A, а проверять будем секретом B
	cookie := tokenCookie(t, "part-5", "secret-A")

	h := WithAuth("secret-B")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSubjectFromContext(r.Context()); ok {
			t.Fatalf("subject must not be set with invalid token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
