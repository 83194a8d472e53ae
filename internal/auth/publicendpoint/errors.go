package publicendpoint

import "errors"

var (
	// ErrRegistrySealed is returned when registering after the registry has been read or sealed.
	ErrRegistrySealed = errors.New("public endpoint registry is sealed")

	// ErrInvalidPattern is returned for patterns that are empty, relative or contain a malformed glob.
	ErrInvalidPattern = errors.New("invalid public endpoint pattern")
)
