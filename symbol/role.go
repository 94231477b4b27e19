// SPDX-License-Identifier: MIT

package symbol

import "strings"

// Role is the relation of a stem (or a branch via its hidden stems) to the
// reference stem. Roles come in pairs that share a Group and differ by polarity.
type Role uint8

// The ten roles; even values have the reference's polarity, odd values the opposite.
const (
	Companion        Role = iota // 比肩
	RobWealth                    // 劫财
	EatingGod                    // 食神
	HurtingOfficer               // 伤官
	IndirectWealth               // 偏财
	DirectWealth                 // 正财
	SevenKillings                // 七杀
	DirectOfficer                // 正官
	IndirectResource             // 偏印
	DirectResource               // 正印
)

// NumRoles is the size of the role enumeration.
const NumRoles = 10

var roleNames = [NumRoles]struct{ zh, en string }{
	{"比肩", "Companion"},
	{"劫财", "RobWealth"},
	{"食神", "EatingGod"},
	{"伤官", "HurtingOfficer"},
	{"偏财", "IndirectWealth"},
	{"正财", "DirectWealth"},
	{"七杀", "SevenKillings"},
	{"正官", "DirectOfficer"},
	{"偏印", "IndirectResource"},
	{"正印", "DirectResource"},
}

// String returns the English identifier.
func (r Role) String() string {
	if int(r) < NumRoles {
		return roleNames[r].en
	}

	return "Role(?)"
}

// Chinese returns the two-character Chinese role name.
func (r Role) Chinese() string {
	if int(r) < NumRoles {
		return roleNames[r].zh
	}

	return ""
}

// ParseRole accepts a Chinese role name (比肩, 七杀, also 偏官 for 七杀 and 枭神
// for 偏印) or an English identifier, case-insensitive.
func ParseRole(s string) (Role, error) {
	t := strings.TrimSpace(s)
	switch t {
	case "偏官":
		return SevenKillings, nil
	case "枭神":
		return IndirectResource, nil
	}
	for i, n := range roleNames {
		if t == n.zh || strings.EqualFold(t, n.en) {
			return Role(i), nil
		}
	}

	return 0, symbolErrorf("ParseRole", s, ErrUnknownRole)
}

// Group is the five-way grouping of roles into category families.
type Group uint8

const (
	GroupParallel Group = iota // 比劫
	GroupOutput                // 食伤
	GroupWealth                // 财
	GroupPower                 // 官杀
	GroupResource              // 印
)

// NumGroups is the size of the group enumeration.
const NumGroups = 5

// Group returns the family of the role.
func (r Role) Group() Group { return Group(r / 2) }

// Roles returns the two roles of g, same-polarity role first.
func (g Group) Roles() [2]Role { return [2]Role{Role(g * 2), Role(g*2 + 1)} }

// RoleOf derives the role of an element/polarity pair against ref.
//
//	same element          → Companion / RobWealth
//	ref generates e       → EatingGod / HurtingOfficer
//	ref controls e        → IndirectWealth / DirectWealth
//	e controls ref        → SevenKillings / DirectOfficer
//	e generates ref       → IndirectResource / DirectResource
//
// The first role of each pair applies when polarities match.
func RoleOf(ref Stem, e Element, p Polarity) Role {
	re := ref.Element()
	var g Group
	switch {
	case e == re:
		g = GroupParallel
	case re.Generates(e):
		g = GroupOutput
	case re.Controls(e):
		g = GroupWealth
	case e.Controls(re):
		g = GroupPower
	default:
		g = GroupResource
	}
	if p == ref.Polarity() {
		return Role(g * 2)
	}

	return Role(g*2 + 1)
}

// StemRole is RoleOf for a stem.
func StemRole(ref, s Stem) Role { return RoleOf(ref, s.Element(), s.Polarity()) }

// BranchRole is the role of the branch's main hidden stem.
func BranchRole(ref Stem, b Branch) Role { return StemRole(ref, b.MainStem()) }

// lu (禄) is the branch whose main stem equals the reference stem.
var lu = [NumStems]Branch{
	StemJia: BranchYin, StemYi: BranchMao, StemBing: BranchSi, StemDing: BranchWu, StemWu: BranchSi,
	StemJi: BranchWu, StemGeng: BranchShen, StemXin: BranchYou, StemRen: BranchHai, StemGui: BranchZi,
}

// blade (刃) is defined for yang stems only: the branch right after 禄.
var blade = map[Stem]Branch{
	StemJia: BranchMao, StemBing: BranchWu, StemWu: BranchWu, StemGeng: BranchYou, StemRen: BranchZi,
}

// CanonicalBranch returns the single branch position a role is restricted to
// for ref: 禄 for Companion, 刃 for RobWealth (yang references only).
// ok is false when the role has no canonical position for ref.
func CanonicalBranch(ref Stem, role Role) (Branch, bool) {
	switch role {
	case Companion:
		return lu[ref%NumStems], true
	case RobWealth:
		b, ok := blade[ref]
		return b, ok
	default:
		return 0, false
	}
}

// MarshalText encodes the role by its English identifier.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText accepts anything ParseRole accepts.
func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v

	return nil
}
