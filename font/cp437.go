package font

// cp437Box maps the Unicode box-drawing runes RunesFor's BoxSingle
// and BoxDouble styles use to their CP437 single-byte code points in the
// 0xB3-0xDA range. The wire protocol is a single-byte code page, never
// UTF-8: every box-drawing rune that can reach the emitter must resolve
// to exactly one output byte.
var cp437Box = map[rune]byte{
	'│': 0xB3, '┤': 0xB4, '╣': 0xB9, '║': 0xBA, '╗': 0xBB, '╝': 0xBC,
	'╚': 0xC8, '╔': 0xC9, '╩': 0xCA, '╦': 0xCB, '╠': 0xCC, '═': 0xCD,
	'╬': 0xCE, '┐': 0xBF, '└': 0xC0, '┴': 0xC1, '┬': 0xC2, '├': 0xC3,
	'─': 0xC4, '┼': 0xC5, '┘': 0xD9, '┌': 0xDA,
}

var cp437RuneByByte = func() map[byte]rune {
	m := make(map[byte]rune, len(cp437Box))
	for r, b := range cp437Box {
		m[b] = r
	}
	return m
}()

// CP437Byte resolves r to the single byte the command builder should write
// to the wire: printable ASCII passes through as its own code point, the
// supported box-drawing runes resolve to their CP437 code, and anything
// outside that repertoire is unmapped.
func CP437Byte(r rune) (byte, bool) {
	if r >= 0x20 && r <= 0x7E {
		return byte(r), true
	}
	if b, ok := cp437Box[r]; ok {
		return b, true
	}
	return 0, false
}

// RuneForCP437 is CP437Byte's inverse, used by the virtual bitmap
// interpreter to recover the rune a single wire byte represents before
// looking up its glyph.
func RuneForCP437(b byte) (rune, bool) {
	if b >= 0x20 && b <= 0x7E {
		return rune(b), true
	}
	if r, ok := cp437RuneByByte[b]; ok {
		return r, true
	}
	return 0, false
}
