package transport

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kravuar/arangate/internal/config"
	"github.com/kravuar/arangate/model"
)

// Authenticator validates bearer tokens on incoming API requests. Tokens are
// HMAC-signed (HS256) with a shared secret; issuer and audience checks are
// applied when configured. This guards access to the gateway API itself;
// store credentials travel separately inside each batch request.
type Authenticator struct {
	secret   []byte
	issuer   string
	audience string
}

// NewAuthenticator creates an Authenticator from configuration. The signing
// secret is read from the environment variable named by cfg.SecretEnv.
func NewAuthenticator(cfg config.AuthConfig, secret string) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
}

// Middleware returns HTTP middleware that rejects requests without a valid
// bearer token. Verified claims are stored in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			WriteError(w, err)
			return
		}

		claims, err := a.verify(token)
		if err != nil {
			WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// verify parses and validates the token, returning its claims as a map.
func (a *Authenticator) verify(tokenStr string) (map[string]any, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, model.NewUnauthorizedError("invalid token")
	}

	return map[string]any(claims), nil
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", model.NewUnauthorizedError("missing Authorization header")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", model.NewUnauthorizedError("Authorization header must use the Bearer scheme")
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", model.NewUnauthorizedError("empty bearer token")
	}
	return token, nil
}
