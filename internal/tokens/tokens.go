package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

// Only the HMAC family is supported; the algorithm comes from configuration
// and is enforced on both signing and parsing.
var allowedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

type Manager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Method        jwt.SigningMethod
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret []byte, algorithm string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if !allowedAlgorithms[algorithm] {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown jwt algorithm %q", algorithm)
	}

	return &Manager{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		Method:        method,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}, nil
}
