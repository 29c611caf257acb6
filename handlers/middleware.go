package handlers

import (
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminPasswordHeader carries the shared admin secret on every mutating call;
// there is no session or token layer.
const AdminPasswordHeader = "X-Admin-Password"

// AdminAuth gates mutating routes behind the single shared admin secret.
// The configured password is bcrypt-hashed once at startup so the plaintext
// isn't kept around for comparisons.
type AdminAuth struct {
	hash []byte
}

func NewAdminAuth(password string) (*AdminAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AdminAuth{hash: hash}, nil
}

// Check reports whether the supplied secret matches the configured one.
func (a *AdminAuth) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
}

// RequireAdmin rejects any request whose admin password header doesn't match,
// regardless of payload validity.
func (a *AdminAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Check(r.Header.Get(AdminPasswordHeader)) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
