package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const (
	localsPrincipal   = "auth.principal"
	localsPermissions = "auth.permissions"
)

// Decision labels of the authorization_decisions_total counter.
const (
	DecisionPublic          = "public"
	DecisionAllowed         = "allowed"
	DecisionUnauthenticated = "unauthenticated"
	DecisionForbidden       = "forbidden"
	DecisionError           = "error"
)

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "authorization_decisions_total",
	Help: "Number of authorization gate decisions by outcome.",
}, []string{"decision"})

// PublicMatcher reports whether a request bypasses authentication.
type PublicMatcher interface {
	IsPublic(method, path string) bool
}

// Gate enforces the policy for each protected operation.
type Gate struct {
	policy   Policy
	resolver Resolver
	public   PublicMatcher
}

// NewGate creates a gate. The policy should have passed Validate.
func NewGate(policy Policy, resolver Resolver, public PublicMatcher) *Gate {
	return &Gate{policy: policy, resolver: resolver, public: public}
}

// Require returns the middleware guarding operationID.
// It panics when the operation is not bound in the policy.
func (g *Gate) Require(operationID string) fiber.Handler {
	req, ok := g.policy[operationID]
	if !ok {
		panic(fmt.Sprintf("auth: no policy for operation %q", operationID))
	}

	return func(c *fiber.Ctx) error {
		if g.public != nil && g.public.IsPublic(c.Method(), c.Path()) {
			decisions.WithLabelValues(DecisionPublic).Inc()
			return c.Next()
		}

		principal := PrincipalFromContext(c)
		if principal == nil {
			decisions.WithLabelValues(DecisionUnauthenticated).Inc()
			return pkgerrors.Wrapf(ErrUnauthenticated, "operation %s", operationID)
		}

		perms, err := PermissionsFromContext(c, g.resolver)
		if err != nil {
			decisions.WithLabelValues(DecisionError).Inc()
			log.Error().Err(err).Uint64("user_id", principal.UserID).Str("operation", operationID).
				Msg("Failed to resolve permissions")

			return err
		}

		if !req.SatisfiedBy(perms) {
			decisions.WithLabelValues(DecisionForbidden).Inc()
			log.Warn().Uint64("user_id", principal.UserID).Str("operation", operationID).
				Str("requirement", req.String()).Msg("User lacks required permission")

			return pkgerrors.Wrapf(ErrForbidden, "operation %s requires %s", operationID, req)
		}

		decisions.WithLabelValues(DecisionAllowed).Inc()

		return c.Next()
	}
}

// WithPrincipal attaches the authenticated principal to the request.
func WithPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(localsPrincipal, p)
}

// PrincipalFromContext returns the principal of the request or nil.
func PrincipalFromContext(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(localsPrincipal).(*Principal)
	return p
}

// PermissionsFromContext returns the effective permission set of the request principal.
// The set is resolved at most once per request; without a principal it is empty.
func PermissionsFromContext(c *fiber.Ctx, resolver Resolver) (*PermissionSet, error) {
	if set, ok := c.Locals(localsPermissions).(*PermissionSet); ok {
		return set, nil
	}

	principal := PrincipalFromContext(c)
	if principal == nil {
		return NewPermissionSet(), nil
	}

	set, err := resolver.EffectivePermissions(c.UserContext(), principal)
	if err != nil {
		return nil, err
	}

	c.Locals(localsPermissions, set)

	return set, nil
}
