// Package access holds the group and permission model shared by the
// attendance core and the forum: musician reads, board manages, conductor
// is a superset of board, and superusers pass every check.
package access

import "sort"

// Groups.
const (
	GroupMusician  = "musician"
	GroupBoard     = "board"
	GroupConductor = "conductor"
)

// Perm is a named capability.
type Perm string

const (
	PermViewAttendance  Perm = "attendance.view"
	PermManageSeasons   Perm = "seasons.manage"
	PermMarkAttendance  Perm = "attendance.mark"
	PermViewForum       Perm = "forum.view"
	PermPostForum       Perm = "forum.post"
	PermManageForum     Perm = "forum.manage"
	PermManageConcerts  Perm = "concerts.manage"
	PermApproveAccounts Perm = "accounts.approve"
	PermManageGroups    Perm = "accounts.manage_groups"
)

var musicianPerms = []Perm{PermViewAttendance, PermViewForum, PermPostForum}

var boardPerms = append(append([]Perm{}, musicianPerms...),
	PermManageSeasons, PermMarkAttendance, PermManageForum, PermManageConcerts)

var groupPerms = map[string][]Perm{
	GroupMusician:  musicianPerms,
	GroupBoard:     boardPerms,
	GroupConductor: append(append([]Perm{}, boardPerms...), PermApproveAccounts),
}

// ValidGroup reports whether g is a known group name.
func ValidGroup(g string) bool {
	_, ok := groupPerms[g]
	return ok
}

// Principal is the authenticated caller.
type Principal struct {
	UserID      string
	Groups      []string
	IsStaff     bool
	IsSuperuser bool
}

func (p Principal) inGroup(g string) bool {
	for _, have := range p.Groups {
		if have == g {
			return true
		}
	}
	return false
}

// IsBoard reports board level rights: board or conductor members and superusers.
func (p Principal) IsBoard() bool {
	return p.IsSuperuser || p.inGroup(GroupBoard) || p.inGroup(GroupConductor)
}

// CanModerate is the forum manage check: board level rights or staff.
func (p Principal) CanModerate() bool {
	return p.IsBoard() || p.IsStaff
}

// HasPerm resolves a permission through the caller's groups.
func (p Principal) HasPerm(perm Perm) bool {
	if p.IsSuperuser {
		return true
	}
	if p.IsStaff && perm == PermApproveAccounts {
		return true
	}
	for _, g := range p.Groups {
		for _, have := range groupPerms[g] {
			if have == perm {
				return true
			}
		}
	}
	return false
}

// Permissions lists every permission the caller holds, sorted.
func (p Principal) Permissions() []string {
	set := make(map[Perm]struct{})
	if p.IsSuperuser {
		for _, perms := range groupPerms {
			for _, perm := range perms {
				set[perm] = struct{}{}
			}
		}
		set[PermManageGroups] = struct{}{}
	}
	for _, g := range p.Groups {
		for _, perm := range groupPerms[g] {
			set[perm] = struct{}{}
		}
	}
	if p.IsStaff {
		set[PermApproveAccounts] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for perm := range set {
		out = append(out, string(perm))
	}
	sort.Strings(out)
	return out
}
