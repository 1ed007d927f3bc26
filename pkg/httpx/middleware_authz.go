package httpx

import "net/http"

// RequireMFAVerified refuses sessions of MFA users that were issued without a
// second factor. Must run after AuthnMiddleware.
func RequireMFAVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeBearerError(w, "missing bearer token")
			return
		}
		if claims.NeedsMFAVerification() {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "mfa_required",
				"error_description": "MFA verification required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
