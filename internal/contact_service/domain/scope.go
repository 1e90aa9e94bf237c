package domain

import "strings"

// Scope restricts a search to one field, or to all of them.
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeName  Scope = "name"
	ScopePhone Scope = "phone"
	ScopeEmail Scope = "email"
)

// Scopes lists every scope in display order.
var Scopes = []Scope{ScopeAll, ScopeName, ScopePhone, ScopeEmail}

// ParseScope accepts a scope name in any case. Empty text means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeName:
		return ScopeName, nil
	case ScopePhone:
		return ScopePhone, nil
	case ScopeEmail:
		return ScopeEmail, nil
	}
	return "", NewValidationError("scope", "Unknown search scope: "+s)
}

// Columns returns the contact columns the scope searches.
func (s Scope) Columns() []string {
	switch s {
	case ScopeName:
		return []string{"name"}
	case ScopePhone:
		return []string{"phone"}
	case ScopeEmail:
		return []string{"email"}
	default:
		return []string{"name", "phone", "email"}
	}
}

// Next cycles through Scopes, wrapping around.
func (s Scope) Next() Scope {
	for i, sc := range Scopes {
		if sc == s {
			return Scopes[(i+1)%len(Scopes)]
		}
	}
	return ScopeAll
}

func (s Scope) String() string {
	if s == "" {
		return string(ScopeAll)
	}
	return string(s)
}
