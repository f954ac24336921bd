package middleware

import (
	"context"
	"net/http"
	"strings"

	"consultation-registry/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext:
// - Con verifier: si viene Bearer token, intenta Verify() y setea claims.
//   Los headers X-Debug-* se ignoran siempre que haya verifier.
// - Sin verifier (solo wiring de dev/tests): los headers X-Debug-User-ID /
//   X-Debug-Username / X-Debug-Role inyectan claims directamente.
// - Si no hay claims, el request sigue igual; cada handler decide si exige auth.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier != nil {
				if token := BearerToken(r.Header.Get("Authorization")); token != "" {
					claims, err := verifier.Verify(r.Context(), token)
					if err == nil {
						next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
						return
					}
					// No cortamos acá para no acoplar. El handler decide 401/403.
				}
				next.ServeHTTP(w, r)
				return
			}

			// Dev mode: permitir inyectar identidad sin sesión real.
			if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
				claims := auth.Claims{
					UserID:   uid,
					Username: strings.TrimSpace(r.Header.Get("X-Debug-Username")),
					Role:     strings.TrimSpace(r.Header.Get("X-Debug-Role")),
				}
				next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func withClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// BearerToken extrae el token de un header Authorization tipo Bearer;
// vacío si el header falta o viene con otro esquema.
func BearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
