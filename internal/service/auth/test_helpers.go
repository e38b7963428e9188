package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestJWTSecret is the signing secret used by NewTestJWTService.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// NewTestJWTService creates a JWT service with a one hour lifetime and the
// given clock. A nil clock uses time.Now.
func NewTestJWTService(t *testing.T, now func() time.Time) JWTService {
	t.Helper()
	if now == nil {
		now = time.Now
	}
	svc, err := newHMACJWTService(TestJWTSecret, time.Hour, now)
	require.NoError(t, err, "failed to create test JWT service")
	return svc
}
