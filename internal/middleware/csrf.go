package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
)

type csrfContextKey string

// csrfTokenCtxKey is the context key for the CSRF token.
const csrfTokenCtxKey csrfContextKey = "csrf_token"

// csrfSessionKey is the session key the token is stored under.
const csrfSessionKey = "csrf_token"

// maxUploadMemory bounds the multipart form kept in memory while looking
// for the token field.
const maxUploadMemory = 8 << 20

// CSRFProtect returns middleware that keeps a CSRF token in the session and,
// on state-changing requests (POST, PUT, DELETE, PATCH), requires a matching
// token in the X-CSRF-Token header or the csrf_token form field.
//
// It must run inside sm.LoadAndSave so the session is available.
func CSRFProtect(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sm.GetString(r.Context(), csrfSessionKey)
			if token == "" {
				token = generateCSRFToken()
				sm.Put(r.Context(), csrfSessionKey, token)
			}

			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
				if !csrfTokensMatch(token, requestCSRFToken(r)) {
					http.Error(w, "Forbidden: invalid CSRF token", http.StatusForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), csrfTokenCtxKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CSRFTokenFromContext retrieves the CSRF token from the request context.
func CSRFTokenFromContext(ctx context.Context) string {
	s, _ := ctx.Value(csrfTokenCtxKey).(string)
	return s
}

// requestCSRFToken reads the submitted token from the header, falling back
// to the form field. Multipart bodies (catalog uploads) are parsed too.
func requestCSRFToken(r *http.Request) string {
	if t := r.Header.Get("X-CSRF-Token"); t != "" {
		return t
	}
	if isMultipart(r) {
		_ = r.ParseMultipartForm(maxUploadMemory)
	} else {
		_ = r.ParseForm()
	}
	return r.FormValue("csrf_token")
}

// generateCSRFToken returns a 32-byte hex-encoded random string.
func generateCSRFToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: failed to generate random token: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// csrfTokensMatch compares two tokens in constant time.
func csrfTokensMatch(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
