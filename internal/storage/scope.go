package storage

// Scope selects the part of the ledger an operation covers: every group, a
// single group, or the personal context (entries without a group).
type Scope struct {
	All     bool
	GroupID string
}

// AllScopes covers every group and the personal context.
func AllScopes() Scope {
	return Scope{All: true}
}

// GroupScope covers a single group. An empty groupID is the personal context.
func GroupScope(groupID string) Scope {
	return Scope{GroupID: groupID}
}

// Personal covers entries that belong to no group.
func Personal() Scope {
	return Scope{}
}

// Covers reports whether an entry owned by groupID falls inside the scope.
func (s Scope) Covers(groupID string) bool {
	return s.All || s.GroupID == groupID
}

func (s Scope) String() string {
	switch {
	case s.All:
		return "all"
	case s.GroupID == "":
		return "personal"
	default:
		return "group:" + s.GroupID
	}
}

// Normalize collapses a list of scopes: duplicates are dropped and if any
// scope covers everything the result is just AllScopes.
func Normalize(scopes []Scope) []Scope {
	seen := make(map[Scope]bool, len(scopes))
	out := make([]Scope, 0, len(scopes))
	for _, s := range scopes {
		if s.All {
			return []Scope{AllScopes()}
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
