package middleware

import (
	"time"

	"github.com/alexedwards/scs/v2"
)

// testSessionManager creates an in-memory session manager for tests.
func testSessionManager() *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = time.Hour
	return sm
}
