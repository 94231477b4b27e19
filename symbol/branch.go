// SPDX-License-Identifier: MIT

package symbol

// Branch is one of the twelve earthly branches, 子 (0) through 亥 (11).
type Branch uint8

// Branch values in canonical order.
const (
	BranchZi Branch = iota
	BranchChou
	BranchYin
	BranchMao
	BranchChen
	BranchSi
	BranchWu
	BranchWei
	BranchShen
	BranchYou
	BranchXu
	BranchHai
)

// NumBranches is the size of the branch enumeration.
const NumBranches = 12

var branchRunes = [NumBranches]rune{'子', '丑', '寅', '卯', '辰', '巳', '午', '未', '申', '酉', '戌', '亥'}

var branchElements = [NumBranches]Element{
	Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water,
}

// HiddenMassRatios are the mass shares of the main, middle and residual hidden stems.
var HiddenMassRatios = [3]float64{0.6, 0.3, 0.1}

// hiddenStems lists the hidden stems of each branch, main stem first.
var hiddenStems = [NumBranches][]Stem{
	BranchZi:   {StemGui},
	BranchChou: {StemJi, StemGui, StemXin},
	BranchYin:  {StemJia, StemBing, StemWu},
	BranchMao:  {StemYi},
	BranchChen: {StemWu, StemYi, StemGui},
	BranchSi:   {StemBing, StemGeng, StemWu},
	BranchWu:   {StemDing, StemJi},
	BranchWei:  {StemJi, StemDing, StemYi},
	BranchShen: {StemGeng, StemRen, StemWu},
	BranchYou:  {StemXin},
	BranchXu:   {StemWu, StemXin, StemDing},
	BranchHai:  {StemRen, StemJia},
}

// ParseBranch parses a single-character branch.
func ParseBranch(s string) (Branch, error) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, symbolErrorf("ParseBranch", s, ErrUnknownBranch)
	}
	b, ok := branchFromRune(r[0])
	if !ok {
		return 0, symbolErrorf("ParseBranch", s, ErrUnknownBranch)
	}

	return b, nil
}

func branchFromRune(r rune) (Branch, bool) {
	for i, br := range branchRunes {
		if br == r {
			return Branch(i), true
		}
	}

	return 0, false
}

// String returns the Chinese character.
func (b Branch) String() string { return string(branchRunes[b%NumBranches]) }

// Element returns the branch's own element.
func (b Branch) Element() Element { return branchElements[b%NumBranches] }

// MainStem returns the first hidden stem, which decides the branch's role.
func (b Branch) MainStem() Stem { return hiddenStems[b%NumBranches][0] }

// Polarity follows the main hidden stem.
func (b Branch) Polarity() Polarity { return b.MainStem().Polarity() }

// HiddenStem is one hidden stem with its mass share.
type HiddenStem struct {
	Stem Stem
	Mass float64
}

// HiddenMassPolicy decides what happens to the unused ratio mass of a branch
// holding fewer than three hidden stems.
type HiddenMassPolicy uint8

const (
	// HiddenMassFixed keeps the 0.6/0.3/0.1 shares; missing mass stays absent.
	HiddenMassFixed HiddenMassPolicy = iota
	// HiddenMassRenormalized rescales the used shares so they sum to 1.
	HiddenMassRenormalized
)

// Hidden returns the hidden stems of b with their mass under policy.
// The result is a fresh slice.
func (b Branch) Hidden(policy HiddenMassPolicy) []HiddenStem {
	stems := hiddenStems[b%NumBranches]
	out := make([]HiddenStem, len(stems))
	var total float64
	for i, s := range stems {
		out[i] = HiddenStem{Stem: s, Mass: HiddenMassRatios[i]}
		total += HiddenMassRatios[i]
	}
	if policy == HiddenMassRenormalized && total > 0 {
		for i := range out {
			out[i].Mass /= total
		}
	}

	return out
}

// clashPartner maps each branch to its opposite: 子午 丑未 寅申 卯酉 辰戌 巳亥.
func clashPartner(b Branch) Branch { return (b + 6) % NumBranches }

// Clashes reports whether a and b form one of the six clash pairs.
func Clashes(a, b Branch) bool { return clashPartner(a) == b }

// combinations holds the six pair combinations and their element:
// 子丑 Earth, 寅亥 Wood, 卯戌 Fire, 辰酉 Metal, 巳申 Water, 午未 Earth.
var combinations = map[[2]Branch]Element{
	{BranchZi, BranchChou}:  Earth,
	{BranchYin, BranchHai}:  Wood,
	{BranchMao, BranchXu}:   Fire,
	{BranchChen, BranchYou}: Metal,
	{BranchSi, BranchShen}:  Water,
	{BranchWu, BranchWei}:   Earth,
}

// Combination returns the combined element when a and b (in either order)
// form one of the six combination pairs.
func Combination(a, b Branch) (Element, bool) {
	if e, ok := combinations[[2]Branch{a, b}]; ok {
		return e, true
	}
	e, ok := combinations[[2]Branch{b, a}]

	return e, ok
}

// IsVault reports whether b is one of the storage branches 辰戌丑未.
func IsVault(b Branch) bool {
	return b == BranchChen || b == BranchXu || b == BranchChou || b == BranchWei
}
