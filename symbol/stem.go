// SPDX-License-Identifier: MIT

package symbol

// Stem is one of the ten heavenly stems, 甲 (0) through 癸 (9).
type Stem uint8

// Stem values in canonical order.
const (
	StemJia Stem = iota
	StemYi
	StemBing
	StemDing
	StemWu
	StemJi
	StemGeng
	StemXin
	StemRen
	StemGui
)

// NumStems is the size of the stem enumeration.
const NumStems = 10

var stemRunes = [NumStems]rune{'甲', '乙', '丙', '丁', '戊', '己', '庚', '辛', '壬', '癸'}

// ParseStem parses a single-character stem.
func ParseStem(s string) (Stem, error) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, symbolErrorf("ParseStem", s, ErrUnknownStem)
	}
	st, ok := stemFromRune(r[0])
	if !ok {
		return 0, symbolErrorf("ParseStem", s, ErrUnknownStem)
	}

	return st, nil
}

func stemFromRune(r rune) (Stem, bool) {
	for i, sr := range stemRunes {
		if sr == r {
			return Stem(i), true
		}
	}

	return 0, false
}

// String returns the Chinese character.
func (s Stem) String() string { return string(stemRunes[s%NumStems]) }

// Element returns the stem's element: two consecutive stems per element.
func (s Stem) Element() Element { return Element(s / 2) }

// Polarity returns Yang for 甲丙戊庚壬 and Yin for the others.
func (s Stem) Polarity() Polarity { return Polarity(s % 2) }
