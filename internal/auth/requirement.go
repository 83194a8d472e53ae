package auth

import "strings"

type requirementKind uint8

const (
	kindNone requirementKind = iota
	kindAuthenticated
	kindAnyOf
	kindAllOf
)

// Requirement is the permission expression an operation demands.
// The zero value is never satisfied.
type Requirement struct {
	kind requirementKind
	keys []string
}

// Authenticated is satisfied by any principal.
func Authenticated() Requirement {
	return Requirement{kind: kindAuthenticated}
}

// Require demands a single permission key.
func Require(key string) Requirement {
	return AnyOf(key)
}

// AnyOf is satisfied when the principal holds at least one of keys.
func AnyOf(keys ...string) Requirement {
	return Requirement{kind: kindAnyOf, keys: keys}
}

// AllOf is satisfied when the principal holds every key.
func AllOf(keys ...string) Requirement {
	return Requirement{kind: kindAllOf, keys: keys}
}

// Keys returns the permission keys referenced by the requirement.
func (r Requirement) Keys() []string {
	return r.keys
}

// IsZero reports whether the requirement was never set.
func (r Requirement) IsZero() bool {
	return r.kind == kindNone
}

// SatisfiedBy evaluates the requirement against an effective permission set.
func (r Requirement) SatisfiedBy(perms *PermissionSet) bool {
	switch r.kind {
	case kindAuthenticated:
		return true
	case kindAnyOf:
		return perms.HasAny(r.keys...)
	case kindAllOf:
		// an empty AllOf would allow everything
		return len(r.keys) > 0 && perms.HasAll(r.keys...)
	default:
		return false
	}
}

func (r Requirement) String() string {
	switch r.kind {
	case kindAuthenticated:
		return "an authenticated principal"
	case kindAnyOf:
		return strings.Join(r.keys, " or ")
	case kindAllOf:
		return strings.Join(r.keys, " and ")
	default:
		return "an undefined requirement"
	}
}
