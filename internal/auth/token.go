package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/observability"
)

// DefaultTokenTTL is the lifetime of issued identity tokens.
const DefaultTokenTTL = 7 * 24 * time.Hour

const tokenPrefixLen = 10

var (
	ErrMissingSigningKey = errors.New("auth: token signing key is required")
	ErrInvalidToken      = errors.New("auth: invalid token")
)

// TokenManager issues and verifies stateless HS256 identity tokens.
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithMetrics counts verification outcomes.
func WithMetrics(m *observability.Metrics) TokenOption {
	return func(tm *TokenManager) { tm.metrics = m }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) { tm.now = now }
}

// NewTokenManager builds a new manager. The signing key must be non-empty.
func NewTokenManager(secret string, ttl time.Duration, logger *zap.Logger, opts ...TokenOption) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// Claims describes JWT payload.
type Claims struct {
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the subject.
func (tm *TokenManager) Issue(subjectID string) (string, time.Time, error) {
	if subjectID == "" {
		return "", time.Time{}, ErrInvalidToken
	}
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify resolves a token to an identity. Malformed, forged and expired tokens
// all yield false; only a shortened prefix of the token is ever logged.
func (tm *TokenManager) Verify(tokenStr string) (domain.Identity, bool) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		tm.metrics.RecordTokenVerification(false)
		tm.logger.Warn("invalid or expired token",
			zap.String("token_prefix", TokenPrefix(tokenStr)),
			zap.Error(err))
		return domain.Identity{}, false
	}
	tm.metrics.RecordTokenVerification(true)
	return domain.Identity{SubjectID: claims.Subject}, true
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

func (tm *TokenManager) parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenPrefix shortens a token for logs. It never returns more than half of
// the token, so short garbage inputs are not echoed back whole.
func TokenPrefix(token string) string {
	n := tokenPrefixLen
	if half := len(token) / 2; half < n {
		n = half
	}
	return token[:n] + "..."
}
