package access

// Node is the part of a forum directory that access decisions need.
type Node struct {
	ID          string
	ParentID    *string
	AccessLevel string
}

// LevelBoard marks a board only directory.
const LevelBoard = "board"

// CanAccessDirectory walks from id up to the root through nodes and denies
// access if any directory on the way is board only and p lacks board rights.
// nodes must contain id and all of its ancestors; a missing link or a cycle
// denies access.
func CanAccessDirectory(p Principal, id string, nodes map[string]Node) bool {
	if p.CanModerate() {
		_, ok := nodes[id]
		return ok
	}
	seen := make(map[string]struct{}, len(nodes))
	cur := id
	for {
		n, ok := nodes[cur]
		if !ok {
			return false
		}
		if _, dup := seen[cur]; dup {
			return false
		}
		seen[cur] = struct{}{}
		if n.AccessLevel == LevelBoard {
			return false
		}
		if n.ParentID == nil {
			return true
		}
		cur = *n.ParentID
	}
}

// IsDescendant reports whether candidate is id itself or lies below id.
func IsDescendant(candidate, id string, nodes map[string]Node) bool {
	seen := make(map[string]struct{}, len(nodes))
	cur := candidate
	for {
		if cur == id {
			return true
		}
		n, ok := nodes[cur]
		if !ok || n.ParentID == nil {
			return false
		}
		if _, dup := seen[cur]; dup {
			return false
		}
		seen[cur] = struct{}{}
		cur = *n.ParentID
	}
}
