package publicendpoint

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const (
	apiPrefix    = "/api/v1"
	clientPrefix = apiPrefix + "/client"

	// AnyMethod matches every HTTP method.
	AnyMethod = "*"
)

// Definition is a single route exempt from authentication.
type Definition struct {
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
}

type entry struct {
	Definition
	matcher matcher
}

// Registry is an append-only catalog of public endpoints.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	sealed  bool
}

// New creates an empty, unsealed registry.
func New() *Registry {
	return &Registry{}
}

// Register adds a public endpoint. An empty method or "*" matches all methods.
func (r *Registry) Register(method, pattern, description string) error {
	m, err := compile(pattern)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return errors.Wrapf(ErrRegistrySealed, "register %s %s", normalizeMethod(method), pattern)
	}

	r.entries = append(r.entries, entry{
		Definition: Definition{
			Method:      normalizeMethod(method),
			Pattern:     pattern,
			Description: description,
		},
		matcher: m,
	})

	return nil
}

// RegisterWithClientVariant registers pattern and, for patterns below /api/v1,
// its /api/v1/client twin.
func (r *Registry) RegisterWithClientVariant(method, pattern, description string) error {
	if err := r.Register(method, pattern, description); err != nil {
		return err
	}

	if variant := ClientVariant(pattern); variant != pattern {
		return r.Register(method, variant, description+" (client namespace)")
	}

	return nil
}

// Seal makes the registry read-only. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether further registrations are rejected.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sealed
}

// IsPublic reports whether the request matches a registered endpoint.
// The first call seals the registry.
func (r *Registry) IsPublic(method, requestPath string) bool {
	r.sealOnRead()

	method = strings.ToUpper(method)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		e := &r.entries[i]
		if e.Method != AnyMethod && e.Method != method {
			continue
		}

		if e.matcher.match(requestPath) {
			return true
		}
	}

	return false
}

// List returns the definitions in registration order. The first call seals the registry.
func (r *Registry) List() []Definition {
	r.sealOnRead()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, len(r.entries))
	for i := range r.entries {
		out[i] = r.entries[i].Definition
	}

	return out
}

func (r *Registry) sealOnRead() {
	r.mu.RLock()
	sealed := r.sealed
	r.mu.RUnlock()

	if !sealed {
		r.Seal()
	}
}

// ClientVariant returns the /api/v1/client form of an /api/v1 path.
// Paths outside /api/v1 or already in the client namespace are returned unchanged.
func ClientVariant(p string) string {
	if !strings.HasPrefix(p, apiPrefix+"/") {
		return p
	}

	suffix := strings.TrimPrefix(p, apiPrefix)
	if strings.HasPrefix(suffix, "/client/") {
		return p
	}

	return clientPrefix + suffix
}

func normalizeMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return AnyMethod
	}

	return method
}
