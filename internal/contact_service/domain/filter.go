package domain

import "strings"

// Filter selects contacts for List. The zero value lists everything.
//
// Search is a literal substring: no wildcard characters are interpreted. Matching folds
// ASCII case unless CaseSensitive is set.
type Filter struct {
	Search        string
	Scope         Scope
	CaseSensitive bool
}

// IsEmpty reports whether the filter matches every contact.
func (f Filter) IsEmpty() bool {
	return f.Search == ""
}

// Matches applies the filter to c in memory. SQL backends express the same predicate in SQL.
func (f Filter) Matches(c *Contact) bool {
	if f.IsEmpty() {
		return true
	}
	needle := f.Search
	if !f.CaseSensitive {
		needle = asciiLower(needle)
	}
	for _, col := range f.Scope.Columns() {
		v := c.field(col)
		if !f.CaseSensitive {
			v = asciiLower(v)
		}
		if strings.Contains(v, needle) {
			return true
		}
	}
	return false
}

func (c *Contact) field(col string) string {
	switch col {
	case "name":
		return c.Name
	case "phone":
		return c.Phone
	case "email":
		return c.Email
	}
	return ""
}

// asciiLower folds only A-Z, like sqlite lower() and the postgres translate() fold.
func asciiLower(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if 'A' <= ch && ch <= 'Z' {
			b[i] = ch + ('a' - 'A')
		}
	}
	return string(b)
}
