package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kravuar/arangate/internal/config"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func authRequest(t *testing.T, a *Authenticator, header string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var gotClaims map[string]any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/operations", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	a.Middleware(next).ServeHTTP(rec, req)
	return rec, gotClaims
}

func TestAuthValidToken(t *testing.T) {
	a := NewAuthenticator(config.AuthConfig{}, testSecret)
	token := signToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	rec, claims := authRequest(t, a, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if claims["sub"] != "user-1" {
		t.Errorf("claims = %v", claims)
	}
}

func TestAuthRejectsBadTokens(t *testing.T) {
	a := NewAuthenticator(config.AuthConfig{}, testSecret)

	expired := signToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, testSecret)
	wrongKey := signToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "other-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := authRequest(t, a, tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthIssuerAndAudience(t *testing.T) {
	a := NewAuthenticator(config.AuthConfig{Issuer: "arangate-idp", Audience: "arangate"}, testSecret)

	good := signToken(t, jwt.MapClaims{
		"sub": "user-1",
		"iss": "arangate-idp",
		"aud": "arangate",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	rec, _ := authRequest(t, a, "Bearer "+good)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid issuer/audience rejected: %d", rec.Code)
	}

	badIssuer := signToken(t, jwt.MapClaims{
		"sub": "user-1",
		"iss": "someone-else",
		"aud": "arangate",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	rec, _ = authRequest(t, a, "Bearer "+badIssuer)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong issuer accepted: %d", rec.Code)
	}
}
