package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/observability"
)

const identityKey = "auth_identity"

type identityContextKey struct{}

// TokenVerifier resolves a bearer token to an identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, bool)
}

// IdentityMiddleware resolves the optional caller identity. It never rejects a
// request: each operation decides later whether it needs an identity.
type IdentityMiddleware struct {
	tokens TokenVerifier
}

// NewIdentityMiddleware constructs middleware.
func NewIdentityMiddleware(tokens TokenVerifier) *IdentityMiddleware {
	return &IdentityMiddleware{tokens: tokens}
}

// Handle attaches the identity, when one can be resolved, and continues.
func (m *IdentityMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Next()
	}

	identity, ok := m.tokens.Verify(token)
	if !ok {
		return c.Next()
	}

	c.Locals(identityKey, &identity)
	c.SetUserContext(ContextWithIdentity(c.UserContext(), identity))
	observability.SetSubject(c, identity.SubjectID)
	return c.Next()
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// IdentityFromCtx returns the identity resolved for this request, or nil.
func IdentityFromCtx(c *fiber.Ctx) *domain.Identity {
	identity, ok := c.Locals(identityKey).(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}

// ContextWithIdentity attaches the identity to a context.
func ContextWithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &identity)
}

// IdentityFromContext extracts the identity from a context, or nil.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	if ctx == nil {
		return nil
	}
	identity, ok := ctx.Value(identityContextKey{}).(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}
