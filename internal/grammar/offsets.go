package grammar

import "unicode/utf16"

// unitIndex maps UTF-16 code unit offsets of a string to code point offsets.
type unitIndex struct {
	// runeAt[u] is the code point index starting at code unit u, or -1 when
	// u falls inside a surrogate pair. It has one extra entry for the end.
	runeAt []int
}

// newUnitIndex builds the index for text.
func newUnitIndex(text string) unitIndex {
	runeAt := make([]int, 0, len(text)+1)
	i := 0
	for _, r := range text {
		runeAt = append(runeAt, i)
		if utf16.RuneLen(r) == 2 {
			runeAt = append(runeAt, -1)
		}
		i++
	}
	runeAt = append(runeAt, i)
	return unitIndex{runeAt: runeAt}
}

// runeOffset converts a code unit offset into a code point offset.
// It reports false for offsets out of range or inside a surrogate pair.
func (x unitIndex) runeOffset(unit int) (int, bool) {
	if unit < 0 || unit >= len(x.runeAt) {
		return 0, false
	}
	r := x.runeAt[unit]
	return r, r >= 0
}
