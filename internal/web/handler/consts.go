package handler

const (
	// APIPrefix is the prefix of every JSON route.
	APIPrefix = "/api/v1"

	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// RequestIDLocalsKey is where the requestid middleware stores the request id.
	RequestIDLocalsKey = "requestid"

	// ErrNilDepsFatalLogMsg is used if the router or a required dependency is nil.
	ErrNilDepsFatalLogMsg = "router or handler dependencies are nil"
)
