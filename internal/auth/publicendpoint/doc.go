// Package publicendpoint holds the catalog of routes that bypass authentication
// and authorization.
//
// A Registry is built once during bootstrap and sealed on its first read
// (IsPublic or List) or by an explicit Seal call. Registrations after sealing
// fail with ErrRegistrySealed; there is no removal. The same Registry instance
// is consulted by the request pipeline and by the admin introspection endpoint.
//
// Patterns use path segments:
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//   - ":name" and "{name}" match one segment
//   - other segments may contain path.Match globs ("*.png")
package publicendpoint
