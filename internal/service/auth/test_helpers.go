package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable time function
// for deterministic tests. A zero lifetime issues non-expiring tokens,
// matching the production default.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
		clockSkew:     0, // No skew allowance so expiry tests are exact
	}
}
