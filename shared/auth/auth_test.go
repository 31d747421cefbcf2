package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestNewVerifier(t *testing.T) {
	if _, err := NewVerifier(Config{Mode: "oauth"}); err == nil {
		t.Fatalf("expected unsupported mode error")
	}
	if _, err := NewVerifier(Config{Mode: ModeJWT}); err == nil {
		t.Fatalf("expected missing secret error")
	}
	if _, err := NewVerifier(Config{Mode: ModeNoop}); err != nil {
		t.Fatalf("noop verifier: %v", err)
	}
}

func TestJWTVerifier(t *testing.T) {
	verifier, err := NewVerifier(Config{Mode: ModeJWT, Secret: "s3cret", Issuer: "sahayak"})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	exp := time.Now().Add(time.Hour)

	valid := signHS256(t, "s3cret", jwt.MapClaims{"sub": "teacher-1", "iss": "sahayak", "exp": exp.Unix()})
	user, err := verifier.Verify(context.Background(), valid)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if user.UserID != "teacher-1" || user.ExpiresAt != exp.Unix() {
		t.Fatalf("unexpected user: %+v", user)
	}

	tests := map[string]string{
		"wrong secret": signHS256(t, "other", jwt.MapClaims{"sub": "teacher-1", "iss": "sahayak"}),
		"wrong issuer": signHS256(t, "s3cret", jwt.MapClaims{"sub": "teacher-1", "iss": "elsewhere"}),
		"no subject":   signHS256(t, "s3cret", jwt.MapClaims{"iss": "sahayak"}),
		"expired":      signHS256(t, "s3cret", jwt.MapClaims{"sub": "teacher-1", "iss": "sahayak", "exp": time.Now().Add(-time.Hour).Unix()}),
		"garbage":      "not-a-token",
	}
	for name, token := range tests {
		if _, err := verifier.Verify(context.Background(), token); err == nil {
			t.Fatalf("%s: expected verification failure", name)
		}
	}
}

func TestMiddleware(t *testing.T) {
	verifier, _ := NewVerifier(Config{Mode: ModeNoop})
	var seen AuthenticatedUser
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header map[string]string
		status int
		user   string
	}{
		{"missing", nil, http.StatusUnauthorized, ""},
		{"malformed", map[string]string{"Authorization": "Token abc"}, http.StatusUnauthorized, ""},
		{"bearer", map[string]string{"Authorization": "Bearer student-9"}, http.StatusNoContent, "student-9"},
		{"user header", map[string]string{"X-User-ID": "student-7"}, http.StatusNoContent, "student-7"},
	}
	for _, tt := range tests {
		seen = AuthenticatedUser{}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range tt.header {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.status, rec.Code)
		}
		if seen.UserID != tt.user {
			t.Fatalf("%s: expected user %q, got %q", tt.name, tt.user, seen.UserID)
		}
	}
}
