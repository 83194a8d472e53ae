// Package auth provides authentication and authorization functionality for the application.
//
// # Authorization model
//
// The model has two fixed levels:
//   - Roles bundle permission keys
//   - Users hold zero or more roles
//   - A principal's effective permissions are the union over its roles
//
// Service resolves principals and effective permission sets from the database.
// A PermissionSet answers Has, HasAny (empty is false) and HasAll (empty is true).
//
// # Enforcement
//
// Each protected operation has an identifier bound to a Requirement in a Policy.
// The Policy is validated against the permission Catalog before the web server starts.
// Gate.Require returns the fiber middleware for one operation:
//   - public routes pass without a principal
//   - a missing principal fails with ErrUnauthenticated
//   - an unmet requirement fails with ErrForbidden
//
// Example usage:
//
//	authService := auth.NewService(db)
//	policy := auth.DefaultPolicy()
//	if err := policy.Validate(auth.CatalogKeys()); err != nil {
//	    return err
//	}
//
//	gate := auth.NewGate(policy, authService, registry)
//	app.Get("/api/v1/roles", gate.Require(auth.OpRolesList), handler)
package auth
