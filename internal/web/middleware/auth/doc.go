// Package auth provides the authentication middleware of the web application.
//
// The middleware reads the session cookie, loads the user behind it and
// attaches the resulting principal to the request. It never rejects a
// request on its own: a missing, expired or unknown session simply leaves
// the request without a principal, and the authorization gate in front of
// each protected route decides what that means.
//
// Requests matching the public endpoint registry skip the session lookup.
//
// Usage:
//
//	app.Use(authmiddleware.New(authmiddleware.Config{
//		Sessions: sessions,
//		Loader:   authService,
//		Public:   registry,
//	}))
package auth
