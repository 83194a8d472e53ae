package auth

// Principal is the authenticated identity making a request.
type Principal struct {
	UserID   uint64
	Username string
	RoleKeys []string
}

// PermissionSet is a deduplicated set of permission keys that remembers insertion order.
// The zero value is an empty set ready to use.
type PermissionSet struct {
	keys  []string
	index map[string]struct{}
}

// NewPermissionSet builds a set from keys, dropping duplicates and empty keys.
func NewPermissionSet(keys ...string) *PermissionSet {
	s := &PermissionSet{}
	s.Add(keys...)

	return s
}

// Add inserts keys that are not yet present.
func (s *PermissionSet) Add(keys ...string) {
	if s.index == nil {
		s.index = make(map[string]struct{}, len(keys))
	}

	for _, k := range keys {
		if k == "" {
			continue
		}

		if _, ok := s.index[k]; ok {
			continue
		}

		s.index[k] = struct{}{}
		s.keys = append(s.keys, k)
	}
}

// Has reports whether key is in the set. A nil set holds nothing.
func (s *PermissionSet) Has(key string) bool {
	if s == nil {
		return false
	}

	_, ok := s.index[key]

	return ok
}

// HasAny reports whether at least one key is present. No keys means false.
func (s *PermissionSet) HasAny(keys ...string) bool {
	for _, k := range keys {
		if s.Has(k) {
			return true
		}
	}

	return false
}

// HasAll reports whether every key is present. No keys means true.
func (s *PermissionSet) HasAll(keys ...string) bool {
	for _, k := range keys {
		if !s.Has(k) {
			return false
		}
	}

	return true
}

// Keys returns a copy of the keys in insertion order.
func (s *PermissionSet) Keys() []string {
	if s == nil {
		return []string{}
	}

	out := make([]string, len(s.keys))
	copy(out, s.keys)

	return out
}

// Len returns the number of keys.
func (s *PermissionSet) Len() int {
	if s == nil {
		return 0
	}

	return len(s.keys)
}
