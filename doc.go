// Package main provides the entry point for the StoreAdmin access-control service.
// It starts a Fiber based JSON API that resolves a principal's effective
// permissions through its roles, guards every administrative operation with an
// explicit permission policy, and composes the navigation menu a principal may
// see, merged with stored per-user or global layout overrides. Roles,
// permissions and layouts are persisted with gorm.
package main
