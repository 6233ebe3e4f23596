package reconcile

import "strings"

// Blacklist is a fixed set of repository names that are never provisioned.
// Membership is case-insensitive.
type Blacklist struct {
	names map[string]struct{}
}

// NewBlacklist creates a blacklist from names
func NewBlacklist(names ...string) Blacklist {
	b := Blacklist{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		b.names[canonical(name)] = struct{}{}
	}
	return b
}

// Contains reports whether name is blacklisted
func (b Blacklist) Contains(name string) bool {
	_, ok := b.names[canonical(name)]
	return ok
}

// Len returns the number of blacklisted names
func (b Blacklist) Len() int {
	return len(b.names)
}

// canonical is the form names are compared in
func canonical(name string) string {
	return strings.ToUpper(name)
}
