package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/datagate-io/datagate/pkg/httputil"
)

// OIDCProviderConfig holds the configuration for the OIDC provider.
type OIDCProviderConfig struct {
	ClientID string `json:"client_id"`
	Issuer   string `json:"issuer"`
}

type oidcVerifier struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

var (
	oidcInstance *oidcVerifier
	oidcInitOnce sync.Once
)

// VerifyOIDCToken verifies bearer tokens in Authorization headers against
// the configured issuer. By default a missing or invalid token produces a
// 401; with send401Unauthorized=false, requests carrying other authorization
// schemes (e.g. Basic) pass through untouched.
func VerifyOIDCToken(config OIDCProviderConfig, send401Unauthorized ...bool) func(http.Handler) http.Handler {
	send401 := true
	if len(send401Unauthorized) > 0 {
		send401 = send401Unauthorized[0]
	}

	return func(next http.Handler) http.Handler {
		oidcInitOnce.Do(func() {
			if oidcInstance == nil {
				oidcInstance = initOIDCVerifier(config)
			}
		})

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if send401 {
					http.Error(w, "Authorization header is required", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				if send401 {
					http.Error(w, "Authorization header must be Bearer token", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			tokenString := authHeader[len("Bearer "):]

			idToken, err := oidcInstance.verifier.Verify(r.Context(), tokenString)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			var claims map[string]any
			if err := idToken.Claims(&claims); err != nil {
				http.Error(w, "Failed to parse token claims", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), httputil.OIDCClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func initOIDCVerifier(config OIDCProviderConfig) *oidcVerifier {
	if config.ClientID == "" || config.Issuer == "" {
		panic("missing required OIDC configuration")
	}

	provider, err := oidc.NewProvider(context.Background(), config.Issuer)
	if err != nil {
		log.Fatalf("Failed to create OIDC provider: %v", err)
	}

	return &oidcVerifier{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: config.ClientID}),
	}
}
